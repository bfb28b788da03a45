package reports

import (
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/utils/cmp"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
	"github.com/modelyard/modelyard/pkg/utils/slices"
)

type LeaderboardEntry struct {
	RunId      string          `json:"runId"`
	RunName    *string         `json:"runName,omitempty"`
	Value      float64         `json:"value"`
	RecordedAt rfctime.RFC3339 `json:"recordedAt"`
}

func ComposeEntry(e domain.LeaderboardEntry) LeaderboardEntry {
	return LeaderboardEntry{
		RunId:      e.RunId,
		RunName:    e.RunName,
		Value:      e.Value,
		RecordedAt: rfctime.RFC3339(e.RecordedAt),
	}
}

func (e *LeaderboardEntry) Equal(o *LeaderboardEntry) bool {
	if e == nil || o == nil {
		return e == nil && o == nil
	}
	recordedAt := rfctime.RFC3339(o.RecordedAt)
	return e.RunId == o.RunId &&
		pointer.Equal(e.RunName, o.RunName) &&
		e.Value == o.Value &&
		e.RecordedAt.Equal(&recordedAt)
}

type Leaderboard struct {
	ExperimentId string             `json:"experimentId"`
	MetricKey    string             `json:"metricKey"`
	Scope        string             `json:"scope"`
	Entries      []LeaderboardEntry `json:"entries"`
}

func ComposeLeaderboard(
	experimentID string, metricKey string, scope domain.MetricScope,
	entries []domain.LeaderboardEntry,
) Leaderboard {
	return Leaderboard{
		ExperimentId: experimentID,
		MetricKey:    metricKey,
		Scope:        string(scope),
		Entries:      slices.Map(entries, ComposeEntry),
	}
}

func (l *Leaderboard) Equal(o *Leaderboard) bool {
	if l == nil || o == nil {
		return l == nil && o == nil
	}
	return l.ExperimentId == o.ExperimentId &&
		l.MetricKey == o.MetricKey &&
		l.Scope == o.Scope &&
		cmp.SliceEqWith(
			l.Entries, o.Entries,
			func(a, b LeaderboardEntry) bool { return a.Equal(&b) },
		)
}

// one cached best-sample row of a project dashboard.
type MetricSummary struct {
	MetricId   string          `json:"metricId"`
	MetricKey  string          `json:"metricKey"`
	Goal       string          `json:"goal"`
	Scope      string          `json:"scope"`
	BestValue  *float64        `json:"bestValue,omitempty"`
	BestRunId  *string         `json:"bestRunId,omitempty"`
	SampleSize int             `json:"sampleSize"`
	UpdatedAt  rfctime.RFC3339 `json:"updatedAt"`
}

func ComposeSummary(s domain.MetricSummary) MetricSummary {
	return MetricSummary{
		MetricId:   s.MetricId,
		MetricKey:  s.MetricKey,
		Goal:       string(s.Goal),
		Scope:      string(s.Scope),
		BestValue:  s.BestValue,
		BestRunId:  s.BestRunId,
		SampleSize: s.SampleSize,
		UpdatedAt:  rfctime.RFC3339(s.UpdatedAt),
	}
}

func (s *MetricSummary) Equal(o *MetricSummary) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.MetricId == o.MetricId &&
		s.MetricKey == o.MetricKey &&
		s.Goal == o.Goal &&
		s.Scope == o.Scope &&
		pointer.Equal(s.BestValue, o.BestValue) &&
		pointer.Equal(s.BestRunId, o.BestRunId) &&
		s.SampleSize == o.SampleSize
}

type Dashboard struct {
	ProjectId string          `json:"projectId"`
	Metrics   []MetricSummary `json:"metrics"`
}

func ComposeDashboard(projectID string, summaries []domain.MetricSummary) Dashboard {
	return Dashboard{
		ProjectId: projectID,
		Metrics:   slices.Map(summaries, ComposeSummary),
	}
}

func (d *Dashboard) Equal(o *Dashboard) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.ProjectId == o.ProjectId &&
		cmp.SliceContentEqWith(
			d.Metrics, o.Metrics,
			func(a, b MetricSummary) bool { return a.Equal(&b) },
		)
}
