package runs

import (
	apimetrics "github.com/modelyard/modelyard/pkg/api/types/metrics"
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
)

type Detail struct {
	RunId        string           `json:"runId"`
	ExperimentId string           `json:"experimentId"`
	ProjectId    string           `json:"projectId"`
	Name         *string          `json:"name,omitempty"`
	Status       string           `json:"status"`
	StartedAt    *rfctime.RFC3339 `json:"startedAt,omitempty"`
	FinishedAt   *rfctime.RFC3339 `json:"finishedAt,omitempty"`
}

func ComposeDetail(r domain.RunBody) Detail {
	var startedAt, finishedAt *rfctime.RFC3339
	if r.StartedAt != nil {
		t := rfctime.RFC3339(*r.StartedAt)
		startedAt = &t
	}
	if r.FinishedAt != nil {
		t := rfctime.RFC3339(*r.FinishedAt)
		finishedAt = &t
	}
	return Detail{
		RunId:        r.Id,
		ExperimentId: r.ExperimentId,
		ProjectId:    r.ProjectId,
		Name:         r.Name,
		Status:       string(r.Status),
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
	}
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.RunId == o.RunId &&
		d.ExperimentId == o.ExperimentId &&
		d.ProjectId == o.ProjectId &&
		pointer.Equal(d.Name, o.Name) &&
		d.Status == o.Status &&
		d.StartedAt.Equal(o.StartedAt) &&
		d.FinishedAt.Equal(o.FinishedAt)
}

// request to move a run into a terminal status.
//
// Metrics, when present, are final samples written right after the run
// is closed.
type CompleteRequest struct {
	Status     string                 `json:"status"`
	FinishedAt *rfctime.RFC3339       `json:"finishedAt,omitempty"`
	Metrics    []apimetrics.NewSample `json:"metrics,omitempty"`
}
