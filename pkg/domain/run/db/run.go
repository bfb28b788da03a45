package db

import (
	"context"
	"time"

	"github.com/modelyard/modelyard/pkg/domain"
)

type Interface interface {
	// fetch a run with its experiment and project ids.
	//
	// Returns
	//
	// - error: ErrMissing when no run has the id.
	Get(ctx context.Context, runID string) (domain.RunBody, error)

	// close a run by moving it to a terminal status.
	//
	// The row is locked, updated, and the change is audited with
	// before/after snapshots, all in one transaction.
	//
	// Args
	//
	// - context.Context
	//
	// - runID
	//
	// - status: one of finished, failed, killed.
	//
	// - finishedAt: defaults to now() when nil.
	//
	// - actor: user id recorded on the audit row; nil for system writes.
	//
	// Returns
	//
	// - domain.RunBody: the run after the update.
	//
	// - error: ErrMissing (run absent),
	// ErrInvalidRunStateChanging (status is not terminal, or the run
	// already reached a terminal status).
	Complete(ctx context.Context, runID string, status domain.RunStatus, finishedAt *time.Time, actor *string) (domain.RunBody, error)
}
