package db

import (
	"context"

	"github.com/modelyard/modelyard/pkg/domain"
)

// store of import jobs and their row errors.
//
// Job status transitions are enforced here and only ever move forward:
// created -> running -> finished | failed.
type Interface interface {
	// persist a job in "created" status.
	New(ctx context.Context, kind domain.ImportKind, format domain.ImportFormat, sourceURI string, createdBy *string) (domain.ImportJob, error)

	// move a job from created to running, stamping started_at.
	//
	// Returns
	//
	// - error: ErrMissing (job absent),
	// ErrInvalidImportStateChanging (job is not in created status).
	Start(ctx context.Context, jobID string) (domain.ImportJob, error)

	// move a running job to finished, stamping finished_at and stats.
	//
	// Returns
	//
	// - error: ErrMissing, ErrInvalidImportStateChanging (job is not running).
	Finish(ctx context.Context, jobID string, stats domain.ImportStats) (domain.ImportJob, error)

	// move a created or running job to failed. Used when the source
	// itself cannot be read or parsed; row failures never come here.
	//
	// Returns
	//
	// - error: ErrMissing, ErrInvalidImportStateChanging (job already terminal).
	Fail(ctx context.Context, jobID string, stats domain.ImportStats) (domain.ImportJob, error)

	// append one row error. Write-once.
	AddRowError(ctx context.Context, e domain.ImportRowError) error

	// fetch a job.
	//
	// Returns
	//
	// - error: ErrMissing when no job has the id.
	Get(ctx context.Context, jobID string) (domain.ImportJob, error)

	// list a job's row errors in row order, job-level errors first.
	//
	// Returns
	//
	// - error: ErrMissing when no job has the id.
	ListErrors(ctx context.Context, jobID string) ([]domain.ImportRowError, error)
}
