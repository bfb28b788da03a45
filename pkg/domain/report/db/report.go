package db

import (
	"context"

	"github.com/modelyard/modelyard/pkg/domain"
)

type Interface interface {
	// fetch an experiment, mainly to learn its owning project before
	// authorization.
	//
	// Returns
	//
	// - error: ErrMissing when no experiment has the id.
	Experiment(ctx context.Context, experimentID string) (domain.Experiment, error)

	// rank an experiment's runs by their final samples of one metric.
	//
	// Reads run_metric_values directly, never the summary cache, so the
	// result is correct even while summary maintenance is mid-flight.
	// Each run appears once, represented by its goal-best final sample.
	// Ordering follows the metric's goal (value desc for max, asc for
	// min, recorded_at desc for last); ties go to the earliest
	// recorded_at, then the smaller run id.
	//
	// Args
	//
	// - context.Context
	//
	// - experimentID
	//
	// - metricKey
	//
	// - scope
	//
	// - limit: max entries. Non-positive limit returns nothing.
	//
	// Returns
	//
	// - []domain.LeaderboardEntry
	//
	// - error: ErrMissing when the experiment or the metric key is unknown.
	Leaderboard(ctx context.Context, experimentID string, metricKey string, scope domain.MetricScope, limit int) ([]domain.LeaderboardEntry, error)

	// head of the leaderboard ordering.
	//
	// Returns
	//
	// - error: ErrMissing when the experiment or metric key is unknown,
	// or when no run has a final sample for the key.
	BestRun(ctx context.Context, experimentID string, metricKey string, scope domain.MetricScope) (domain.LeaderboardEntry, error)

	// current summary rows of a project, joined to their metric
	// definitions. The cached single-key read used by dashboards.
	//
	// Returns
	//
	// - error: ErrMissing when no project has the id.
	ProjectDashboard(ctx context.Context, projectID string) ([]domain.MetricSummary, error)
}
