package mock

import (
	"context"
	"errors"
	"time"

	"github.com/modelyard/modelyard/pkg/domain"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
	kdbrun "github.com/modelyard/modelyard/pkg/domain/run/db"
)

type Interface struct {
	Impl struct {
		Get      func(ctx context.Context, runID string) (domain.RunBody, error)
		Complete func(ctx context.Context, runID string, status domain.RunStatus, finishedAt *time.Time, actor *string) (domain.RunBody, error)
	}

	Calls struct {
		Get      dbmock.CallLog[string]
		Complete dbmock.CallLog[struct {
			RunId      string
			Status     domain.RunStatus
			FinishedAt *time.Time
			Actor      *string
		}]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbrun.Interface = &Interface{}

func (m *Interface) Get(ctx context.Context, runID string) (domain.RunBody, error) {
	m.Calls.Get = append(m.Calls.Get, runID)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, runID)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Complete(
	ctx context.Context,
	runID string, status domain.RunStatus, finishedAt *time.Time, actor *string,
) (domain.RunBody, error) {
	m.Calls.Complete = append(m.Calls.Complete, struct {
		RunId      string
		Status     domain.RunStatus
		FinishedAt *time.Time
		Actor      *string
	}{RunId: runID, Status: status, FinishedAt: finishedAt, Actor: actor})
	if m.Impl.Complete != nil {
		return m.Impl.Complete(ctx, runID, status, finishedAt, actor)
	}
	panic(errors.New("it should not be called"))
}
