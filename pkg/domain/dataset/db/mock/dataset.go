package mock

import (
	"context"
	"errors"

	"github.com/modelyard/modelyard/pkg/domain"
	kdbdataset "github.com/modelyard/modelyard/pkg/domain/dataset/db"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
)

type Interface struct {
	Impl struct {
		Insert func(ctx context.Context, d domain.NewDataset, actor *string) (domain.Dataset, error)
	}

	Calls struct {
		Insert dbmock.CallLog[struct {
			Dataset domain.NewDataset
			Actor   *string
		}]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbdataset.Interface = &Interface{}

func (m *Interface) Insert(
	ctx context.Context, d domain.NewDataset, actor *string,
) (domain.Dataset, error) {
	m.Calls.Insert = append(m.Calls.Insert, struct {
		Dataset domain.NewDataset
		Actor   *string
	}{Dataset: d, Actor: actor})
	if m.Impl.Insert != nil {
		return m.Impl.Insert(ctx, d, actor)
	}
	panic(errors.New("it should not be called"))
}
