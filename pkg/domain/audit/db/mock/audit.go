package mock

import (
	"context"
	"errors"

	"github.com/modelyard/modelyard/pkg/domain"
	kdbaudit "github.com/modelyard/modelyard/pkg/domain/audit/db"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
)

type Interface struct {
	Impl struct {
		List func(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error)
	}

	Calls struct {
		List dbmock.CallLog[struct {
			Limit  int
			Offset int
		}]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbaudit.Interface = &Interface{}

func (m *Interface) List(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error) {
	m.Calls.List = append(m.Calls.List, struct {
		Limit  int
		Offset int
	}{Limit: limit, Offset: offset})
	if m.Impl.List != nil {
		return m.Impl.List(ctx, limit, offset)
	}
	panic(errors.New("it should not be called"))
}
