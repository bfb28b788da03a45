package postgres

import (
	"context"

	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/observe"
)

// summary maintenance.
//
// The project_metric_summary row per (project, metric, scope) is a
// derived cache of the goal-optimal final sample, rebuildable from
// run_metric_values at any time. Both hooks below run inside the
// transaction of the sample write/removal that triggered them, holding
// the summary row's lock so concurrent writers to the same key are
// serialized; distinct keys do not contend.

// lockSummary pins the summary row for update, creating it first when absent.
func lockSummary(
	ctx context.Context, tx kpool.Tx,
	projectID string, metricID string, scope domain.MetricScope,
) (best *float64, bestRun *string, sampleSize int, err error) {
	if _, err = tx.Exec(
		ctx,
		`
		insert into "project_metric_summary"
			("project_id", "metric_id", "scope", "sample_size")
		values ($1, $2, $3, 0)
		on conflict ("project_id", "metric_id", "scope") do nothing
		`,
		projectID, metricID, string(scope),
	); err != nil {
		return
	}

	err = tx.QueryRow(
		ctx,
		`
		select "best_value", "best_run_id", coalesce("sample_size", 0)
		from "project_metric_summary"
		where "project_id" = $1 and "metric_id" = $2 and "scope" = $3
		for update
		`,
		projectID, metricID, string(scope),
	).Scan(&best, &bestRun, &sampleSize)
	return
}

// onSampleWritten maintains the summary after one final sample insert.
//
// Stepped samples are filtered by the caller. The new value displaces
// the best per the metric's goal: strictly greater under max, strictly
// less under min, always under last. Equal values keep the incumbent,
// so the earliest-written sample wins ties. sample_size counts every
// final sample, winner or not.
func onSampleWritten(
	ctx context.Context, tx kpool.Tx,
	projectID string, def domain.MetricDefinition, sample domain.MetricSample,
) error {
	best, _, size, err := lockSummary(ctx, tx, projectID, def.Id, sample.Scope)
	if err != nil {
		return err
	}

	if def.Goal.Beats(sample.Value, best) {
		_, err = tx.Exec(
			ctx,
			`
			update "project_metric_summary"
			set "best_value" = $4, "best_run_id" = $5,
				"sample_size" = $6, "updated_at" = now()
			where "project_id" = $1 and "metric_id" = $2 and "scope" = $3
			`,
			projectID, def.Id, string(sample.Scope),
			sample.Value, sample.RunId, size+1,
		)
	} else {
		_, err = tx.Exec(
			ctx,
			`
			update "project_metric_summary"
			set "sample_size" = $4
			where "project_id" = $1 and "metric_id" = $2 and "scope" = $3
			`,
			projectID, def.Id, string(sample.Scope), size+1,
		)
	}
	if err != nil {
		return err
	}

	observe.SummaryUpdates.WithLabelValues("incremental").Inc()
	return nil
}

// onSampleRemoved rebuilds the summary after a final sample removal.
//
// Removal cannot be maintained incrementally: if the removed sample was
// the best, the new optimum is unknown without looking at the rest. The
// remaining final samples for the key are rescanned from scratch; an
// empty rescan leaves a null best and zero sample_size.
func onSampleRemoved(
	ctx context.Context, tx kpool.Tx,
	projectID string, metricID string, scope domain.MetricScope,
) error {
	if _, _, _, err := lockSummary(ctx, tx, projectID, metricID, scope); err != nil {
		return err
	}

	goal, err := definitionGoal(ctx, tx, metricID)
	if err != nil {
		return err
	}

	var size int
	if err := tx.QueryRow(
		ctx,
		`
		select count(*)
		from "run_metric_values" v
		inner join "runs" r on r."run_id" = v."run_id"
		inner join "experiments" e on e."experiment_id" = r."experiment_id"
		where e."project_id" = $1 and v."metric_id" = $2
			and v."scope" = $3 and v."step" is null
		`,
		projectID, metricID, string(scope),
	).Scan(&size); err != nil {
		return err
	}

	var best *float64
	var bestRun *string
	if 0 < size {
		if err := tx.QueryRow(
			ctx,
			`
			select v."value", v."run_id"
			from "run_metric_values" v
			inner join "runs" r on r."run_id" = v."run_id"
			inner join "experiments" e on e."experiment_id" = r."experiment_id"
			where e."project_id" = $1 and v."metric_id" = $2
				and v."scope" = $3 and v."step" is null
			order by `+goalOrder(goal)+`, v."recorded_at" asc, v."run_id" asc
			limit 1
			`,
			projectID, metricID, string(scope),
		).Scan(&best, &bestRun); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "project_metric_summary"
		set "best_value" = $4, "best_run_id" = $5,
			"sample_size" = $6, "updated_at" = now()
		where "project_id" = $1 and "metric_id" = $2 and "scope" = $3
		`,
		projectID, metricID, string(scope), best, bestRun, size,
	); err != nil {
		return err
	}

	observe.SummaryUpdates.WithLabelValues("rescan").Inc()
	return nil
}

func definitionGoal(ctx context.Context, q kpool.Queryer, metricID string) (domain.MetricGoal, error) {
	var goal string
	if err := q.QueryRow(
		ctx,
		`select "goal" from "metric_definitions" where "metric_id" = $1`,
		metricID,
	).Scan(&goal); err != nil {
		return "", err
	}
	return domain.AsMetricGoal(goal)
}

// goalOrder renders the primary sort for a goal. The goal is a closed
// enum validated on parse, never caller input.
func goalOrder(goal domain.MetricGoal) string {
	switch goal {
	case domain.GoalMin:
		return `v."value" asc`
	case domain.GoalLast:
		return `v."recorded_at" desc`
	default:
		return `v."value" desc`
	}
}
