package metrics

import (
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/utils/cmp"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
)

// one sample to be written, as sent by clients.
type NewSample struct {
	MetricKey  string           `json:"metricKey"`
	Scope      string           `json:"scope"`
	Step       *int             `json:"step,omitempty"`
	Value      float64          `json:"value"`
	RecordedAt *rfctime.RFC3339 `json:"recordedAt,omitempty"`
}

type RegisterRequest struct {
	Metrics []NewSample `json:"metrics"`
}

type Sample struct {
	SampleId   string          `json:"sampleId"`
	RunId      string          `json:"runId"`
	MetricId   string          `json:"metricId"`
	Scope      string          `json:"scope"`
	Step       *int            `json:"step,omitempty"`
	Value      float64         `json:"value"`
	RecordedAt rfctime.RFC3339 `json:"recordedAt"`
}

func ComposeSample(s domain.MetricSample) Sample {
	return Sample{
		SampleId:   s.Id,
		RunId:      s.RunId,
		MetricId:   s.MetricId,
		Scope:      string(s.Scope),
		Step:       s.Step,
		Value:      s.Value,
		RecordedAt: rfctime.RFC3339(s.RecordedAt),
	}
}

func (s *Sample) Equal(o *Sample) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	recordedAt := rfctime.RFC3339(o.RecordedAt)
	return s.SampleId == o.SampleId &&
		s.RunId == o.RunId &&
		s.MetricId == o.MetricId &&
		s.Scope == o.Scope &&
		pointer.Equal(s.Step, o.Step) &&
		s.Value == o.Value &&
		s.RecordedAt.Equal(&recordedAt)
}

type RegisterResponse struct {
	Metrics []Sample `json:"metrics"`
}

func (r *RegisterResponse) Equal(o *RegisterResponse) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return cmp.SliceContentEqWith(
		r.Metrics, o.Metrics,
		func(a, b Sample) bool { return a.Equal(&b) },
	)
}
