package domain

import (
	"fmt"
	"time"

	"github.com/modelyard/modelyard/pkg/utils/pointer"
)

// direction in which a metric is optimized.
type MetricGoal string

const (
	// larger values are better.
	GoalMax MetricGoal = "max"

	// smaller values are better.
	GoalMin MetricGoal = "min"

	// only the most recently written final sample matters,
	// regardless of magnitude.
	GoalLast MetricGoal = "last"
)

func (g MetricGoal) String() string {
	return string(g)
}

func AsMetricGoal(goal string) (MetricGoal, error) {
	switch goal {
	case string(GoalMax):
		return GoalMax, nil
	case string(GoalMin):
		return GoalMin, nil
	case string(GoalLast):
		return GoalLast, nil
	default:
		return "", fmt.Errorf("'%s' is not MetricGoal", goal)
	}
}

// Beats tests whether a candidate value displaces the current best.
//
// Ties under max/min keep the incumbent, so the earliest-written
// sample holds on equal values. GoalLast always displaces.
func (g MetricGoal) Beats(candidate float64, best *float64) bool {
	if best == nil {
		return true
	}
	switch g {
	case GoalMax:
		return candidate > *best
	case GoalMin:
		return candidate < *best
	case GoalLast:
		return true
	default:
		return false
	}
}

// partition of a metric sample by data split.
type MetricScope string

const (
	ScopeTrain MetricScope = "train"
	ScopeVal   MetricScope = "val"
	ScopeTest  MetricScope = "test"
)

func (s MetricScope) String() string {
	return string(s)
}

func AsMetricScope(scope string) (MetricScope, error) {
	switch scope {
	case string(ScopeTrain):
		return ScopeTrain, nil
	case string(ScopeVal):
		return ScopeVal, nil
	case string(ScopeTest):
		return ScopeTest, nil
	default:
		return "", fmt.Errorf("'%s' is not MetricScope", scope)
	}
}

type MetricDefinition struct {
	Id string

	// unique human-chosen identifier, e.g. "accuracy".
	Key string

	DisplayName string
	Unit        *string
	Goal        MetricGoal
}

func (md *MetricDefinition) Equal(o *MetricDefinition) bool {
	return md.Id == o.Id &&
		md.Key == o.Key &&
		md.DisplayName == o.DisplayName &&
		pointer.Equal(md.Unit, o.Unit) &&
		md.Goal == o.Goal
}

// a metric sample to be written. The metric is addressed by key;
// the id is resolved on write.
type NewMetricSample struct {
	MetricKey string
	Scope     MetricScope

	// nil marks a final sample, the only kind used for
	// aggregation and leaderboards. Non-nil samples are curve points.
	Step *int

	Value float64

	// defaults to now() when nil.
	RecordedAt *time.Time
}

type MetricSample struct {
	Id         string
	RunId      string
	MetricId   string
	Scope      MetricScope
	Step       *int
	Value      float64
	RecordedAt time.Time
}

// Final reports whether this sample participates in aggregation.
func (ms MetricSample) Final() bool {
	return ms.Step == nil
}

func (ms *MetricSample) Equal(o *MetricSample) bool {
	return ms.Id == o.Id &&
		ms.RunId == o.RunId &&
		ms.MetricId == o.MetricId &&
		ms.Scope == o.Scope &&
		pointer.Equal(ms.Step, o.Step) &&
		ms.Value == o.Value &&
		ms.RecordedAt.Equal(o.RecordedAt)
}

// derived cache of the currently-optimal final sample per
// (project, metric, scope). Rebuildable from MetricSample at any time;
// never the source of truth.
type MetricSummary struct {
	ProjectId string
	MetricId  string

	// denormalized from the metric definition on read.
	MetricKey string
	Goal      MetricGoal

	Scope MetricScope

	// nil until the first final sample arrives.
	BestValue *float64
	BestRunId *string

	// count of final samples considered.
	SampleSize int

	UpdatedAt time.Time
}

func (s *MetricSummary) Equal(o *MetricSummary) bool {
	return s.ProjectId == o.ProjectId &&
		s.MetricId == o.MetricId &&
		s.MetricKey == o.MetricKey &&
		s.Goal == o.Goal &&
		s.Scope == o.Scope &&
		pointer.Equal(s.BestValue, o.BestValue) &&
		pointer.Equal(s.BestRunId, o.BestRunId) &&
		s.SampleSize == o.SampleSize
}

// one row of a leaderboard: a run represented by its goal-best final sample.
type LeaderboardEntry struct {
	RunId      string
	RunName    *string
	Value      float64
	RecordedAt time.Time
}

func (e *LeaderboardEntry) Equal(o *LeaderboardEntry) bool {
	return e.RunId == o.RunId &&
		pointer.Equal(e.RunName, o.RunName) &&
		e.Value == o.Value &&
		e.RecordedAt.Equal(o.RecordedAt)
}
