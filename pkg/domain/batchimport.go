package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/modelyard/modelyard/pkg/utils/pointer"
)

var ErrInvalidImportStateChanging = errors.New("cannot change import job state")

type ImportStatus string

const (
	// the job record is persisted; the source is not opened yet.
	ImportCreated ImportStatus = "created"

	// the source has been opened and rows are being attempted.
	ImportRunning ImportStatus = "running"

	// all rows have been attempted, however many of them failed.
	ImportFinished ImportStatus = "finished"

	// the source itself could not be parsed or read.
	// Row-level failures never put a job here.
	ImportFailed ImportStatus = "failed"
)

func (s ImportStatus) String() string {
	return string(s)
}

func AsImportStatus(status string) (ImportStatus, error) {
	switch status {
	case string(ImportCreated):
		return ImportCreated, nil
	case string(ImportRunning):
		return ImportRunning, nil
	case string(ImportFinished):
		return ImportFinished, nil
	case string(ImportFailed):
		return ImportFailed, nil
	default:
		return "", fmt.Errorf("'%s' is not ImportStatus", status)
	}
}

type ImportFormat string

const (
	FormatCSV  ImportFormat = "csv"
	FormatJSON ImportFormat = "json"
)

func AsImportFormat(format string) (ImportFormat, error) {
	switch format {
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("'%s' is not ImportFormat", format)
	}
}

// record kind an import job carries.
type ImportKind string

const (
	ImportMetrics  ImportKind = "metrics"
	ImportDatasets ImportKind = "datasets"
)

func AsImportKind(kind string) (ImportKind, error) {
	switch kind {
	case string(ImportMetrics):
		return ImportMetrics, nil
	case string(ImportDatasets):
		return ImportDatasets, nil
	default:
		return "", fmt.Errorf("'%s' is not ImportKind", kind)
	}
}

type ImportStats struct {
	// rows committed.
	Inserted int `json:"inserted"`

	// rows rolled back and recorded as row errors.
	Errors int `json:"errors"`
}

// one batch ingestion attempt over a file.
//
// Status moves strictly forward: created -> running -> finished | failed.
type ImportJob struct {
	Id         string
	Kind       ImportKind
	Status     ImportStatus
	Format     ImportFormat
	SourceURI  string
	StartedAt  *time.Time
	FinishedAt *time.Time

	// user who submitted the job; nil for system imports.
	CreatedBy *string

	Stats ImportStats
}

func (j *ImportJob) Equal(o *ImportJob) bool {
	return j.Id == o.Id &&
		j.Kind == o.Kind &&
		j.Status == o.Status &&
		j.Format == o.Format &&
		j.SourceURI == o.SourceURI &&
		pointer.Equal(j.CreatedBy, o.CreatedBy) &&
		j.Stats == o.Stats
}

// record of one failed row, or of a whole-file failure when RowNumber is nil.
type ImportRowError struct {
	Id    int64
	JobId string

	// 1-based position of the failed row; nil for job-level failures.
	RowNumber *int

	// the row as read from the source, JSON-encoded.
	RawRow []byte

	Message   string
	CreatedAt time.Time
}
