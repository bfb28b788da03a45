package mock

import (
	"context"
	"errors"

	"github.com/modelyard/modelyard/pkg/domain"
	dbmock "github.com/modelyard/modelyard/pkg/domain/internal/db/mock"
	kdbmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
)

type Interface struct {
	Impl struct {
		Definition     func(ctx context.Context, key string) (domain.MetricDefinition, error)
		DefinitionByID func(ctx context.Context, metricID string) (domain.MetricDefinition, error)
		Sample         func(ctx context.Context, sampleID string) (domain.MetricSample, string, error)
		Register       func(ctx context.Context, runID string, samples []domain.NewMetricSample, actor *string) ([]domain.MetricSample, error)
		Remove         func(ctx context.Context, sampleID string, actor *string) error
	}

	Calls struct {
		Definition     dbmock.CallLog[string]
		DefinitionByID dbmock.CallLog[string]
		Sample         dbmock.CallLog[string]
		Register       dbmock.CallLog[struct {
			RunId   string
			Samples []domain.NewMetricSample
			Actor   *string
		}]
		Remove dbmock.CallLog[struct {
			SampleId string
			Actor    *string
		}]
	}
}

func New() *Interface {
	return &Interface{}
}

var _ kdbmetric.Interface = &Interface{}

func (m *Interface) Definition(ctx context.Context, key string) (domain.MetricDefinition, error) {
	m.Calls.Definition = append(m.Calls.Definition, key)
	if m.Impl.Definition != nil {
		return m.Impl.Definition(ctx, key)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) DefinitionByID(ctx context.Context, metricID string) (domain.MetricDefinition, error) {
	m.Calls.DefinitionByID = append(m.Calls.DefinitionByID, metricID)
	if m.Impl.DefinitionByID != nil {
		return m.Impl.DefinitionByID(ctx, metricID)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Sample(ctx context.Context, sampleID string) (domain.MetricSample, string, error) {
	m.Calls.Sample = append(m.Calls.Sample, sampleID)
	if m.Impl.Sample != nil {
		return m.Impl.Sample(ctx, sampleID)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Register(
	ctx context.Context, runID string, samples []domain.NewMetricSample, actor *string,
) ([]domain.MetricSample, error) {
	m.Calls.Register = append(m.Calls.Register, struct {
		RunId   string
		Samples []domain.NewMetricSample
		Actor   *string
	}{RunId: runID, Samples: samples, Actor: actor})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, runID, samples, actor)
	}
	panic(errors.New("it should not be called"))
}

func (m *Interface) Remove(ctx context.Context, sampleID string, actor *string) error {
	m.Calls.Remove = append(m.Calls.Remove, struct {
		SampleId string
		Actor    *string
	}{SampleId: sampleID, Actor: actor})
	if m.Impl.Remove != nil {
		return m.Impl.Remove(ctx, sampleID, actor)
	}
	panic(errors.New("it should not be called"))
}
