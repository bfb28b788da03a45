package imports

import (
	"encoding/json"

	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
	"github.com/modelyard/modelyard/pkg/utils/slices"
)

type Stats struct {
	Inserted int `json:"inserted"`
	Errors   int `json:"errors"`
}

type Detail struct {
	JobId      string           `json:"jobId"`
	Kind       string           `json:"jobType"`
	Status     string           `json:"status"`
	Format     string           `json:"sourceFormat"`
	SourceURI  string           `json:"sourceUri"`
	StartedAt  *rfctime.RFC3339 `json:"startedAt,omitempty"`
	FinishedAt *rfctime.RFC3339 `json:"finishedAt,omitempty"`
	CreatedBy  *string          `json:"createdBy,omitempty"`
	Stats      Stats            `json:"stats"`
}

func ComposeDetail(j domain.ImportJob) Detail {
	var startedAt, finishedAt *rfctime.RFC3339
	if j.StartedAt != nil {
		t := rfctime.RFC3339(*j.StartedAt)
		startedAt = &t
	}
	if j.FinishedAt != nil {
		t := rfctime.RFC3339(*j.FinishedAt)
		finishedAt = &t
	}
	return Detail{
		JobId:      j.Id,
		Kind:       string(j.Kind),
		Status:     string(j.Status),
		Format:     string(j.Format),
		SourceURI:  j.SourceURI,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		CreatedBy:  j.CreatedBy,
		Stats:      Stats(j.Stats),
	}
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.JobId == o.JobId &&
		d.Kind == o.Kind &&
		d.Status == o.Status &&
		d.Format == o.Format &&
		d.SourceURI == o.SourceURI &&
		pointer.Equal(d.CreatedBy, o.CreatedBy) &&
		d.Stats == o.Stats
}

type RowError struct {
	ErrorId   int64           `json:"errorId"`
	JobId     string          `json:"jobId"`
	RowNumber *int            `json:"rowNumber,omitempty"`
	RawRow    json.RawMessage `json:"rawRow,omitempty"`
	Message   string          `json:"message"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func ComposeRowError(e domain.ImportRowError) RowError {
	return RowError{
		ErrorId:   e.Id,
		JobId:     e.JobId,
		RowNumber: e.RowNumber,
		RawRow:    json.RawMessage(e.RawRow),
		Message:   e.Message,
		CreatedAt: rfctime.RFC3339(e.CreatedAt),
	}
}

func ComposeRowErrors(errs []domain.ImportRowError) []RowError {
	return slices.Map(errs, ComposeRowError)
}
