package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	kpgerr "github.com/modelyard/modelyard/pkg/domain/errors/dberrors/postgres"
	kdbreport "github.com/modelyard/modelyard/pkg/domain/report/db"
)

type reportPG struct { // implements kdbreport.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbreport.Interface {
	return &reportPG{pool: pool}
}

func (r *reportPG) Experiment(ctx context.Context, experimentID string) (domain.Experiment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.Experiment{}, err
	}
	defer conn.Release()

	var exp domain.Experiment
	err = conn.QueryRow(
		ctx,
		`
		select "experiment_id", "project_id", "name", "objective"
		from "experiments"
		where "experiment_id" = $1
		`,
		experimentID,
	).Scan(&exp.Id, &exp.ProjectId, &exp.Name, &exp.Objective)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Experiment{}, kpgerr.Missing{
			Table: "experiments", Identity: experimentID,
		}
	}
	if err != nil {
		return domain.Experiment{}, err
	}
	return exp, nil
}

func (r *reportPG) Leaderboard(
	ctx context.Context,
	experimentID string, metricKey string, scope domain.MetricScope, limit int,
) ([]domain.LeaderboardEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return leaderboard(ctx, conn, experimentID, metricKey, scope, limit)
}

func leaderboard(
	ctx context.Context, conn kpool.Conn,
	experimentID string, metricKey string, scope domain.MetricScope, limit int,
) ([]domain.LeaderboardEntry, error) {
	var found bool
	if err := conn.QueryRow(
		ctx,
		`select exists (select 1 from "experiments" where "experiment_id" = $1)`,
		experimentID,
	).Scan(&found); err != nil {
		return nil, err
	}
	if !found {
		return nil, kpgerr.Missing{Table: "experiments", Identity: experimentID}
	}

	var goal string
	err := conn.QueryRow(
		ctx,
		`select "goal" from "metric_definitions" where "key" = $1`,
		metricKey,
	).Scan(&goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kpgerr.Missing{Table: "metric_definitions", Identity: metricKey}
	}
	if err != nil {
		return nil, err
	}
	g, err := domain.AsMetricGoal(goal)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	// inner: pick each run's goal-best final sample; outer: rank runs.
	rows, err := conn.Query(
		ctx,
		`
		select "run_id", "run_name", "value", "recorded_at"
		from (
			select distinct on (v."run_id")
				v."run_id", r."run_name", v."value", v."recorded_at"
			from "run_metric_values" v
			inner join "runs" r on r."run_id" = v."run_id"
			inner join "metric_definitions" d on d."metric_id" = v."metric_id"
			where r."experiment_id" = $1
				and d."key" = $2 and v."scope" = $3 and v."step" is null
			order by v."run_id", `+perRunOrder(g)+`
		) as "best"
		order by `+rankOrder(g)+`
		limit $4
		`,
		experimentID, metricKey, string(scope), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.RunId, &e.RunName, &e.Value, &e.RecordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// perRunOrder picks, within one run, which final sample represents it.
// The goal is a closed enum validated on parse, never caller input.
func perRunOrder(goal domain.MetricGoal) string {
	switch goal {
	case domain.GoalMin:
		return `v."value" asc, v."recorded_at" asc, v."run_metric_value_id" asc`
	case domain.GoalLast:
		return `v."recorded_at" desc, v."run_metric_value_id" asc`
	default:
		return `v."value" desc, v."recorded_at" asc, v."run_metric_value_id" asc`
	}
}

// rankOrder orders the per-run representatives against each other.
func rankOrder(goal domain.MetricGoal) string {
	switch goal {
	case domain.GoalMin:
		return `"value" asc, "recorded_at" asc, "run_id" asc`
	case domain.GoalLast:
		return `"recorded_at" desc, "run_id" asc`
	default:
		return `"value" desc, "recorded_at" asc, "run_id" asc`
	}
}

func (r *reportPG) BestRun(
	ctx context.Context,
	experimentID string, metricKey string, scope domain.MetricScope,
) (domain.LeaderboardEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	defer conn.Release()

	entries, err := leaderboard(ctx, conn, experimentID, metricKey, scope, 1)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if len(entries) == 0 {
		return domain.LeaderboardEntry{}, kpgerr.Missing{
			Table: "run_metric_values", Identity: metricKey,
		}
	}
	return entries[0], nil
}

func (r *reportPG) ProjectDashboard(
	ctx context.Context, projectID string,
) ([]domain.MetricSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var found bool
	if err := conn.QueryRow(
		ctx,
		`select exists (select 1 from "ml_projects" where "project_id" = $1)`,
		projectID,
	).Scan(&found); err != nil {
		return nil, err
	}
	if !found {
		return nil, kpgerr.Missing{Table: "ml_projects", Identity: projectID}
	}

	rows, err := conn.Query(
		ctx,
		`
		select
			s."project_id", s."metric_id", d."key", d."goal", s."scope",
			s."best_value", s."best_run_id", coalesce(s."sample_size", 0),
			s."updated_at"
		from "project_metric_summary" s
		inner join "metric_definitions" d on d."metric_id" = s."metric_id"
		where s."project_id" = $1
		order by d."key", s."scope"
		`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.MetricSummary{}
	for rows.Next() {
		var s domain.MetricSummary
		var goal, scope string
		if err := rows.Scan(
			&s.ProjectId, &s.MetricId, &s.MetricKey, &goal, &scope,
			&s.BestValue, &s.BestRunId, &s.SampleSize, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if s.Goal, err = domain.AsMetricGoal(goal); err != nil {
			return nil, err
		}
		if s.Scope, err = domain.AsMetricScope(scope); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
