package batchimport

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/modelyard/modelyard/pkg/domain"
	kdbimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db"
	kdbdataset "github.com/modelyard/modelyard/pkg/domain/dataset/db"
	kdbmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
	"github.com/modelyard/modelyard/pkg/observe"
)

// Pipeline imports independent records from an untrusted source,
// one transaction per row.
//
// A row's failure is recovered locally: its transaction rolls back, one
// ImportRowError is recorded, and the next row proceeds. Only failures
// of the source itself (unreadable stream, malformed file) fail the
// whole job, and even that is represented as job state, not as an error
// to the caller.
type Pipeline struct {
	Jobs     kdbimport.Interface
	Metrics  kdbmetric.Interface
	Datasets kdbdataset.Interface
}

// Run drives one job from created to its terminal status.
//
// Rows run strictly sequentially; row N's transaction completes before
// row N+1 starts, so stats are deterministic. Context cancellation
// stops before the next row and returns the error; rows already
// committed stay committed, and the job is left running.
//
// The returned job carries final stats satisfying
// inserted + errors == rows attempted.
func (p *Pipeline) Run(
	ctx context.Context, job domain.ImportJob, src io.Reader,
) (domain.ImportJob, error) {
	job, err := p.Jobs.Start(ctx, job.Id)
	if err != nil {
		return job, err
	}

	rows, err := decodeRows(string(job.Format), src)
	if err != nil {
		// whole-file failure: one job-level error, no rows attempted.
		if err := p.Jobs.AddRowError(ctx, domain.ImportRowError{
			JobId:   job.Id,
			Message: err.Error(),
		}); err != nil {
			return job, err
		}
		return p.Jobs.Fail(ctx, job.Id, domain.ImportStats{})
	}

	stats := domain.ImportStats{}
	imp := rowImporter{
		metrics:  p.Metrics,
		datasets: p.Datasets,
		cache:    map[string]domain.MetricDefinition{},
	}

	for nth, r := range rows {
		if err := ctx.Err(); err != nil {
			return job, err
		}

		if err := imp.importRow(ctx, job.Kind, r, job.CreatedBy); err != nil {
			stats.Errors += 1
			observe.ImportRows.WithLabelValues("error").Inc()

			rowNumber := nth + 1
			raw, merr := json.Marshal(r)
			if merr != nil {
				raw = nil
			}
			if err := p.Jobs.AddRowError(ctx, domain.ImportRowError{
				JobId:     job.Id,
				RowNumber: &rowNumber,
				RawRow:    raw,
				Message:   err.Error(),
			}); err != nil {
				return job, err
			}
			continue
		}

		stats.Inserted += 1
		observe.ImportRows.WithLabelValues("inserted").Inc()
	}

	return p.Jobs.Finish(ctx, job.Id, stats)
}

// rowImporter converts rows into domain writes. Metric definitions
// resolved once are cached for the remainder of the job.
type rowImporter struct {
	metrics  kdbmetric.Interface
	datasets kdbdataset.Interface
	cache    map[string]domain.MetricDefinition
}

func (imp *rowImporter) importRow(
	ctx context.Context, kind domain.ImportKind, r row, actor *string,
) error {
	switch kind {
	case domain.ImportMetrics:
		return imp.importMetricRow(ctx, r, actor)
	case domain.ImportDatasets:
		return imp.importDatasetRow(ctx, r, actor)
	default:
		return errors.New("unsupported job type: " + string(kind))
	}
}

func (imp *rowImporter) importMetricRow(ctx context.Context, r row, actor *string) error {
	runID := r.stringField("run_id")
	scope := r.stringField("scope")
	value, err := r.floatField("value")
	if err != nil {
		return err
	}
	if runID == "" || scope == "" || value == nil {
		return errors.New("run_id, scope and value are required")
	}

	parsedScope, err := domain.AsMetricScope(scope)
	if err != nil {
		return err
	}
	step, err := r.intField("step")
	if err != nil {
		return err
	}
	recordedAt, err := r.timeField("recorded_at")
	if err != nil {
		return err
	}

	def, err := imp.resolveDefinition(ctx, r)
	if err != nil {
		return err
	}

	_, err = imp.metrics.Register(
		ctx, runID,
		[]domain.NewMetricSample{{
			MetricKey:  def.Key,
			Scope:      parsedScope,
			Step:       step,
			Value:      *value,
			RecordedAt: recordedAt,
		}},
		actor,
	)
	return err
}

// resolveDefinition finds the metric addressed by the row, by key or by
// id, hitting the store at most once per distinct key for the job.
func (imp *rowImporter) resolveDefinition(ctx context.Context, r row) (domain.MetricDefinition, error) {
	metricKey := r.stringField("metric_key")
	metricID := r.stringField("metric_id")
	if metricKey == "" && metricID == "" {
		return domain.MetricDefinition{}, errors.New("metric_id or metric_key is required")
	}

	cacheKey := metricKey
	if cacheKey == "" {
		cacheKey = metricID
	}
	if def, ok := imp.cache[cacheKey]; ok {
		return def, nil
	}

	var def domain.MetricDefinition
	var err error
	if metricKey != "" {
		def, err = imp.metrics.Definition(ctx, metricKey)
	} else {
		def, err = imp.metrics.DefinitionByID(ctx, metricID)
	}
	if err != nil {
		return domain.MetricDefinition{}, err
	}
	imp.cache[cacheKey] = def
	return def, nil
}

func (imp *rowImporter) importDatasetRow(ctx context.Context, r row, actor *string) error {
	projectID := r.stringField("project_id")
	name := r.stringField("name")
	taskType := r.stringField("task_type")
	if projectID == "" || name == "" || taskType == "" {
		return errors.New("project_id, name and task_type are required")
	}

	parsedTask, err := domain.AsTaskType(taskType)
	if err != nil {
		return err
	}

	var description *string
	if d := r.stringField("description"); d != "" {
		description = &d
	}

	_, err = imp.datasets.Insert(ctx, domain.NewDataset{
		ProjectId:   projectID,
		Name:        name,
		TaskType:    parsedTask,
		Description: description,
	}, actor)
	return err
}
