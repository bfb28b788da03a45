package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v4"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	kpgaudit "github.com/modelyard/modelyard/pkg/domain/audit/db/postgres"
	kpgerr "github.com/modelyard/modelyard/pkg/domain/errors/dberrors/postgres"
	kdbmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
)

type metricPG struct { // implements kdbmetric.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbmetric.Interface {
	return &metricPG{pool: pool}
}

func (m *metricPG) Definition(ctx context.Context, key string) (domain.MetricDefinition, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return domain.MetricDefinition{}, err
	}
	defer conn.Release()

	return getDefinition(ctx, conn, key)
}

func getDefinition(ctx context.Context, q kpool.Queryer, key string) (domain.MetricDefinition, error) {
	var def domain.MetricDefinition
	var goal string
	err := q.QueryRow(
		ctx,
		`
		select "metric_id", "key", "display_name", "unit", "goal"
		from "metric_definitions"
		where "key" = $1
		`,
		key,
	).Scan(&def.Id, &def.Key, &def.DisplayName, &def.Unit, &goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MetricDefinition{}, kpgerr.Missing{
			Table: "metric_definitions", Identity: key,
		}
	}
	if err != nil {
		return domain.MetricDefinition{}, err
	}
	if def.Goal, err = domain.AsMetricGoal(goal); err != nil {
		return domain.MetricDefinition{}, err
	}
	return def, nil
}

func (m *metricPG) DefinitionByID(ctx context.Context, metricID string) (domain.MetricDefinition, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return domain.MetricDefinition{}, err
	}
	defer conn.Release()

	var def domain.MetricDefinition
	var goal string
	err = conn.QueryRow(
		ctx,
		`
		select "metric_id", "key", "display_name", "unit", "goal"
		from "metric_definitions"
		where "metric_id" = $1
		`,
		metricID,
	).Scan(&def.Id, &def.Key, &def.DisplayName, &def.Unit, &goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MetricDefinition{}, kpgerr.Missing{
			Table: "metric_definitions", Identity: metricID,
		}
	}
	if err != nil {
		return domain.MetricDefinition{}, err
	}
	if def.Goal, err = domain.AsMetricGoal(goal); err != nil {
		return domain.MetricDefinition{}, err
	}
	return def, nil
}

func (m *metricPG) Sample(ctx context.Context, sampleID string) (domain.MetricSample, string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return domain.MetricSample{}, "", err
	}
	defer conn.Release()

	var sample domain.MetricSample
	var projectID, scope string
	err = conn.QueryRow(
		ctx,
		`
		select
			v."run_metric_value_id", v."run_id", v."metric_id",
			v."scope", v."step", v."value", v."recorded_at",
			e."project_id"
		from "run_metric_values" v
		inner join "runs" r on r."run_id" = v."run_id"
		inner join "experiments" e on e."experiment_id" = r."experiment_id"
		where v."run_metric_value_id" = $1
		`,
		sampleID,
	).Scan(
		&sample.Id, &sample.RunId, &sample.MetricId,
		&scope, &sample.Step, &sample.Value, &sample.RecordedAt,
		&projectID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MetricSample{}, "", kpgerr.Missing{
			Table: "run_metric_values", Identity: sampleID,
		}
	}
	if err != nil {
		return domain.MetricSample{}, "", err
	}
	if sample.Scope, err = domain.AsMetricScope(scope); err != nil {
		return domain.MetricSample{}, "", err
	}
	return sample, projectID, nil
}

// JSON shape of a run_metric_values row, for audit snapshots.
type sampleSnapshot struct {
	RunMetricValueId string    `json:"run_metric_value_id"`
	RunId            string    `json:"run_id"`
	MetricId         string    `json:"metric_id"`
	Scope            string    `json:"scope"`
	Step             *int      `json:"step"`
	Value            float64   `json:"value"`
	RecordedAt       time.Time `json:"recorded_at"`
}

func snapshot(s domain.MetricSample) ([]byte, error) {
	return json.Marshal(sampleSnapshot{
		RunMetricValueId: s.Id,
		RunId:            s.RunId,
		MetricId:         s.MetricId,
		Scope:            string(s.Scope),
		Step:             s.Step,
		Value:            s.Value,
		RecordedAt:       s.RecordedAt,
	})
}

func (m *metricPG) Register(
	ctx context.Context,
	runID string,
	samples []domain.NewMetricSample,
	actor *string,
) ([]domain.MetricSample, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var projectID string
	err = tx.QueryRow(
		ctx,
		`
		select e."project_id"
		from "runs" r
		inner join "experiments" e on e."experiment_id" = r."experiment_id"
		where r."run_id" = $1
		`,
		runID,
	).Scan(&projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kpgerr.Missing{Table: "runs", Identity: runID}
	}
	if err != nil {
		return nil, err
	}

	defs, err := resolveKeys(ctx, tx, samples)
	if err != nil {
		return nil, err
	}

	written := make([]domain.MetricSample, 0, len(samples))
	for _, s := range samples {
		def := defs[s.MetricKey]

		sample := domain.MetricSample{
			Id:       domain.NewID(),
			RunId:    runID,
			MetricId: def.Id,
			Scope:    s.Scope,
			Step:     s.Step,
			Value:    s.Value,
		}
		if err := tx.QueryRow(
			ctx,
			`
			insert into "run_metric_values"
				("run_metric_value_id", "run_id", "metric_id", "scope", "step", "value", "recorded_at")
			values ($1, $2, $3, $4, $5, $6, coalesce($7, now()))
			returning "recorded_at"
			`,
			sample.Id, sample.RunId, sample.MetricId,
			string(sample.Scope), sample.Step, sample.Value, s.RecordedAt,
		).Scan(&sample.RecordedAt); err != nil {
			return nil, kpgerr.WrapConstraint("run_metric_values", err)
		}

		newData, err := snapshot(sample)
		if err != nil {
			return nil, err
		}
		if err := kpgaudit.Record(ctx, tx, domain.AuditRecord{
			TableName: "run_metric_values",
			Operation: domain.AuditInsert,
			RowPk:     sample.Id,
			ChangedBy: actor,
			NewData:   newData,
		}); err != nil {
			return nil, err
		}

		if sample.Final() {
			if err := onSampleWritten(ctx, tx, projectID, def, sample); err != nil {
				return nil, err
			}
		}

		written = append(written, sample)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return written, nil
}

// resolveKeys maps every sample's metric key to its definition,
// rejecting the whole batch when any key is unknown.
func resolveKeys(
	ctx context.Context, q kpool.Queryer, samples []domain.NewMetricSample,
) (map[string]domain.MetricDefinition, error) {
	keys := map[string]struct{}{}
	for _, s := range samples {
		keys[s.MetricKey] = struct{}{}
	}
	if len(keys) == 0 {
		return map[string]domain.MetricDefinition{}, nil
	}

	asked := make([]string, 0, len(keys))
	for k := range keys {
		asked = append(asked, k)
	}

	rows, err := q.Query(
		ctx,
		`
		select "metric_id", "key", "display_name", "unit", "goal"
		from "metric_definitions"
		where "key" = any($1::text[])
		`,
		asked,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := map[string]domain.MetricDefinition{}
	for rows.Next() {
		var def domain.MetricDefinition
		var goal string
		if err := rows.Scan(&def.Id, &def.Key, &def.DisplayName, &def.Unit, &goal); err != nil {
			return nil, err
		}
		if def.Goal, err = domain.AsMetricGoal(goal); err != nil {
			return nil, err
		}
		defs[def.Key] = def
	}

	unknown := []string{}
	for k := range keys {
		if _, ok := defs[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if 0 < len(unknown) {
		sort.Strings(unknown)
		return nil, kdbmetric.UnknownMetricKeys{Keys: unknown}
	}
	return defs, nil
}

func (m *metricPG) Remove(ctx context.Context, sampleID string, actor *string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var sample domain.MetricSample
	var projectID, scope string
	err = tx.QueryRow(
		ctx,
		`
		select
			v."run_metric_value_id", v."run_id", v."metric_id",
			v."scope", v."step", v."value", v."recorded_at",
			e."project_id"
		from "run_metric_values" v
		inner join "runs" r on r."run_id" = v."run_id"
		inner join "experiments" e on e."experiment_id" = r."experiment_id"
		where v."run_metric_value_id" = $1
		for update of v
		`,
		sampleID,
	).Scan(
		&sample.Id, &sample.RunId, &sample.MetricId,
		&scope, &sample.Step, &sample.Value, &sample.RecordedAt,
		&projectID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return kpgerr.Missing{Table: "run_metric_values", Identity: sampleID}
	}
	if err != nil {
		return err
	}
	if sample.Scope, err = domain.AsMetricScope(scope); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`delete from "run_metric_values" where "run_metric_value_id" = $1`,
		sampleID,
	); err != nil {
		return err
	}

	oldData, err := snapshot(sample)
	if err != nil {
		return err
	}
	if err := kpgaudit.Record(ctx, tx, domain.AuditRecord{
		TableName: "run_metric_values",
		Operation: domain.AuditDelete,
		RowPk:     sample.Id,
		ChangedBy: actor,
		OldData:   oldData,
	}); err != nil {
		return err
	}

	if sample.Final() {
		if err := onSampleRemoved(ctx, tx, projectID, sample.MetricId, sample.Scope); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
