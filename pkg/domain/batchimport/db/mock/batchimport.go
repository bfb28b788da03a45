package mock

import (
	"context"
	"errors"

	"github.com/modelyard/modelyard/pkg/domain"
	kdbimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
)

type Interface struct {
	Impl struct {
		New         func(ctx context.Context, kind domain.ImportKind, format domain.ImportFormat, sourceURI string, createdBy *string) (domain.ImportJob, error)
		Start       func(ctx context.Context, jobID string) (domain.ImportJob, error)
		Finish      func(ctx context.Context, jobID string, stats domain.ImportStats) (domain.ImportJob, error)
		Fail        func(ctx context.Context, jobID string, stats domain.ImportStats) (domain.ImportJob, error)
		AddRowError func(ctx context.Context, e domain.ImportRowError) error
		Get         func(ctx context.Context, jobID string) (domain.ImportJob, error)
		ListErrors  func(ctx context.Context, jobID string) ([]domain.ImportRowError, error)
	}

	Calls struct {
		New dbmock.CallLog[struct {
			Kind      domain.ImportKind
			Format    domain.ImportFormat
			SourceURI string
			CreatedBy *string
		}]
		Start  dbmock.CallLog[string]
		Finish dbmock.CallLog[struct {
			JobId string
			Stats domain.ImportStats
		}]
		Fail dbmock.CallLog[struct {
			JobId string
			Stats domain.ImportStats
		}]
		AddRowError dbmock.CallLog[domain.ImportRowError]
		Get         dbmock.CallLog[string]
		ListErrors  dbmock.CallLog[string]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbimport.Interface = &Interface{}

func (m *Interface) New(
	ctx context.Context,
	kind domain.ImportKind, format domain.ImportFormat,
	sourceURI string, createdBy *string,
) (domain.ImportJob, error) {
	m.Calls.New = append(m.Calls.New, struct {
		Kind      domain.ImportKind
		Format    domain.ImportFormat
		SourceURI string
		CreatedBy *string
	}{Kind: kind, Format: format, SourceURI: sourceURI, CreatedBy: createdBy})
	if m.Impl.New != nil {
		return m.Impl.New(ctx, kind, format, sourceURI, createdBy)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Start(ctx context.Context, jobID string) (domain.ImportJob, error) {
	m.Calls.Start = append(m.Calls.Start, jobID)
	if m.Impl.Start != nil {
		return m.Impl.Start(ctx, jobID)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Finish(
	ctx context.Context, jobID string, stats domain.ImportStats,
) (domain.ImportJob, error) {
	m.Calls.Finish = append(m.Calls.Finish, struct {
		JobId string
		Stats domain.ImportStats
	}{JobId: jobID, Stats: stats})
	if m.Impl.Finish != nil {
		return m.Impl.Finish(ctx, jobID, stats)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Fail(
	ctx context.Context, jobID string, stats domain.ImportStats,
) (domain.ImportJob, error) {
	m.Calls.Fail = append(m.Calls.Fail, struct {
		JobId string
		Stats domain.ImportStats
	}{JobId: jobID, Stats: stats})
	if m.Impl.Fail != nil {
		return m.Impl.Fail(ctx, jobID, stats)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) AddRowError(ctx context.Context, e domain.ImportRowError) error {
	m.Calls.AddRowError = append(m.Calls.AddRowError, e)
	if m.Impl.AddRowError != nil {
		return m.Impl.AddRowError(ctx, e)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Get(ctx context.Context, jobID string) (domain.ImportJob, error) {
	m.Calls.Get = append(m.Calls.Get, jobID)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, jobID)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) ListErrors(ctx context.Context, jobID string) ([]domain.ImportRowError, error) {
	m.Calls.ListErrors = append(m.Calls.ListErrors, jobID)
	if m.Impl.ListErrors != nil {
		return m.Impl.ListErrors(ctx, jobID)
	}
	panic(errors.New("it should not be called"))
}
