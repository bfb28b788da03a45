package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	kdbimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db"
	kpgerr "github.com/modelyard/modelyard/pkg/domain/errors/dberrors/postgres"
)

type importPG struct { // implements kdbimport.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbimport.Interface {
	return &importPG{pool: pool}
}

const jobColumns = `
	"job_id", "job_type", "status", "source_format", "source_uri",
	"started_at", "finished_at", "created_by", "stats_json"
`

func scanJob(row pgx.Row) (domain.ImportJob, error) {
	var j domain.ImportJob
	var kind, status, format string
	var stats pgtype.JSONB
	err := row.Scan(
		&j.Id, &kind, &status, &format, &j.SourceURI,
		&j.StartedAt, &j.FinishedAt, &j.CreatedBy, &stats,
	)
	if err != nil {
		return domain.ImportJob{}, err
	}
	if j.Kind, err = domain.AsImportKind(kind); err != nil {
		return domain.ImportJob{}, err
	}
	if j.Status, err = domain.AsImportStatus(status); err != nil {
		return domain.ImportJob{}, err
	}
	if j.Format, err = domain.AsImportFormat(format); err != nil {
		return domain.ImportJob{}, err
	}
	if stats.Status == pgtype.Present {
		if err := json.Unmarshal(stats.Bytes, &j.Stats); err != nil {
			return domain.ImportJob{}, err
		}
	}
	return j, nil
}

func statsJSONB(stats domain.ImportStats) (pgtype.JSONB, error) {
	buf, err := json.Marshal(stats)
	if err != nil {
		return pgtype.JSONB{}, err
	}
	return pgtype.JSONB{Bytes: buf, Status: pgtype.Present}, nil
}

func (p *importPG) New(
	ctx context.Context,
	kind domain.ImportKind, format domain.ImportFormat,
	sourceURI string, createdBy *string,
) (domain.ImportJob, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return domain.ImportJob{}, err
	}
	defer conn.Release()

	jobID := domain.NewID()
	job, err := scanJob(conn.QueryRow(
		ctx,
		`
		insert into "batch_import_jobs"
			("job_id", "job_type", "status", "source_format", "source_uri", "created_by")
		values ($1, $2, 'created', $3, $4, $5)
		returning `+jobColumns,
		jobID, string(kind), string(format), sourceURI, createdBy,
	))
	if err != nil {
		return domain.ImportJob{}, kpgerr.WrapConstraint("batch_import_jobs", err)
	}
	return job, nil
}

// transit moves a job along the status state machine, guarding the
// transition with the expected current statuses in the update's where
// clause so a lost race surfaces as ErrInvalidImportStateChanging.
func (p *importPG) transit(
	ctx context.Context, jobID string, from []string, update string, args ...interface{},
) (domain.ImportJob, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return domain.ImportJob{}, err
	}
	defer conn.Release()

	params := append([]interface{}{jobID, from}, args...)
	job, err := scanJob(conn.QueryRow(
		ctx,
		`
		update "batch_import_jobs"
		set `+update+`
		where "job_id" = $1 and "status" = any($2::text[])
		returning `+jobColumns,
		params...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		var found bool
		if err := conn.QueryRow(
			ctx,
			`select exists (select 1 from "batch_import_jobs" where "job_id" = $1)`,
			jobID,
		).Scan(&found); err != nil {
			return domain.ImportJob{}, err
		}
		if !found {
			return domain.ImportJob{}, kpgerr.Missing{
				Table: "batch_import_jobs", Identity: jobID,
			}
		}
		return domain.ImportJob{}, domain.ErrInvalidImportStateChanging
	}
	return job, err
}

func (p *importPG) Start(ctx context.Context, jobID string) (domain.ImportJob, error) {
	return p.transit(
		ctx, jobID,
		[]string{string(domain.ImportCreated)},
		`"status" = 'running', "started_at" = now()`,
	)
}

func (p *importPG) Finish(
	ctx context.Context, jobID string, stats domain.ImportStats,
) (domain.ImportJob, error) {
	buf, err := statsJSONB(stats)
	if err != nil {
		return domain.ImportJob{}, err
	}
	return p.transit(
		ctx, jobID,
		[]string{string(domain.ImportRunning)},
		`"status" = 'finished', "finished_at" = now(), "stats_json" = $3`,
		buf,
	)
}

func (p *importPG) Fail(
	ctx context.Context, jobID string, stats domain.ImportStats,
) (domain.ImportJob, error) {
	buf, err := statsJSONB(stats)
	if err != nil {
		return domain.ImportJob{}, err
	}
	return p.transit(
		ctx, jobID,
		[]string{string(domain.ImportCreated), string(domain.ImportRunning)},
		`"status" = 'failed', "finished_at" = now(), "stats_json" = $3`,
		buf,
	)
}

func (p *importPG) AddRowError(ctx context.Context, e domain.ImportRowError) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	raw := pgtype.JSONB{Status: pgtype.Null}
	if e.RawRow != nil {
		raw = pgtype.JSONB{Bytes: e.RawRow, Status: pgtype.Present}
	}

	_, err = conn.Exec(
		ctx,
		`
		insert into "batch_import_errors"
			("job_id", "row_number", "raw_row", "error_message")
		values ($1, $2, $3, $4)
		`,
		e.JobId, e.RowNumber, raw, e.Message,
	)
	return kpgerr.WrapConstraint("batch_import_errors", err)
}

func (p *importPG) Get(ctx context.Context, jobID string) (domain.ImportJob, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return domain.ImportJob{}, err
	}
	defer conn.Release()

	job, err := scanJob(conn.QueryRow(
		ctx,
		`select `+jobColumns+` from "batch_import_jobs" where "job_id" = $1`,
		jobID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ImportJob{}, kpgerr.Missing{
			Table: "batch_import_jobs", Identity: jobID,
		}
	}
	return job, err
}

func (p *importPG) ListErrors(ctx context.Context, jobID string) ([]domain.ImportRowError, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var found bool
	if err := conn.QueryRow(
		ctx,
		`select exists (select 1 from "batch_import_jobs" where "job_id" = $1)`,
		jobID,
	).Scan(&found); err != nil {
		return nil, err
	}
	if !found {
		return nil, kpgerr.Missing{Table: "batch_import_jobs", Identity: jobID}
	}

	rows, err := conn.Query(
		ctx,
		`
		select "error_id", "job_id", "row_number", "raw_row", "error_message", "created_at"
		from "batch_import_errors"
		where "job_id" = $1
		order by "row_number" asc nulls first, "error_id" asc
		`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rowErrors := []domain.ImportRowError{}
	for rows.Next() {
		var e domain.ImportRowError
		var raw pgtype.JSONB
		if err := rows.Scan(
			&e.Id, &e.JobId, &e.RowNumber, &raw, &e.Message, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if raw.Status == pgtype.Present {
			e.RawRow = raw.Bytes
		}
		rowErrors = append(rowErrors, e)
	}
	return rowErrors, nil
}
