package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	kpgaudit "github.com/modelyard/modelyard/pkg/domain/audit/db/postgres"
	kpgerr "github.com/modelyard/modelyard/pkg/domain/errors/dberrors/postgres"
	kdbrun "github.com/modelyard/modelyard/pkg/domain/run/db"
)

type runPG struct { // implements kdbrun.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbrun.Interface {
	return &runPG{pool: pool}
}

const getRunSQL = `
select
	r."run_id", r."experiment_id", e."project_id",
	r."run_name", r."status", r."started_at", r."finished_at"
from "runs" r
inner join "experiments" e on e."experiment_id" = r."experiment_id"
where r."run_id" = $1
`

func scanRun(row pgx.Row) (domain.RunBody, error) {
	var rb domain.RunBody
	var status string
	err := row.Scan(
		&rb.Id, &rb.ExperimentId, &rb.ProjectId,
		&rb.Name, &status, &rb.StartedAt, &rb.FinishedAt,
	)
	if err != nil {
		return domain.RunBody{}, err
	}
	if rb.Status, err = domain.AsRunStatus(status); err != nil {
		return domain.RunBody{}, err
	}
	return rb, nil
}

func (r *runPG) Get(ctx context.Context, runID string) (domain.RunBody, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.RunBody{}, err
	}
	defer conn.Release()

	rb, err := scanRun(conn.QueryRow(ctx, getRunSQL, runID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RunBody{}, kpgerr.Missing{Table: "runs", Identity: runID}
	}
	return rb, err
}

// JSON shape of the audited columns of a runs row.
type runSnapshot struct {
	RunId      string     `json:"run_id"`
	Status     string     `json:"status"`
	FinishedAt *time.Time `json:"finished_at"`
}

func (r *runPG) Complete(
	ctx context.Context,
	runID string, status domain.RunStatus, finishedAt *time.Time, actor *string,
) (domain.RunBody, error) {
	if !status.Terminal() {
		return domain.RunBody{}, domain.ErrInvalidRunStateChanging
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.RunBody{}, err
	}
	defer tx.Rollback(ctx)

	before, err := scanRun(tx.QueryRow(ctx, getRunSQL+`for update of r`, runID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RunBody{}, kpgerr.Missing{Table: "runs", Identity: runID}
	}
	if err != nil {
		return domain.RunBody{}, err
	}
	if before.Status.Terminal() {
		return domain.RunBody{}, domain.ErrInvalidRunStateChanging
	}

	after := before
	after.Status = status
	if err := tx.QueryRow(
		ctx,
		`
		update "runs"
		set "status" = $2, "finished_at" = coalesce($3, now())
		where "run_id" = $1
		returning "finished_at"
		`,
		runID, string(status), finishedAt,
	).Scan(&after.FinishedAt); err != nil {
		return domain.RunBody{}, err
	}

	oldData, err := json.Marshal(runSnapshot{
		RunId: before.Id, Status: string(before.Status), FinishedAt: before.FinishedAt,
	})
	if err != nil {
		return domain.RunBody{}, err
	}
	newData, err := json.Marshal(runSnapshot{
		RunId: after.Id, Status: string(after.Status), FinishedAt: after.FinishedAt,
	})
	if err != nil {
		return domain.RunBody{}, err
	}
	if err := kpgaudit.Record(ctx, tx, domain.AuditRecord{
		TableName: "runs",
		Operation: domain.AuditUpdate,
		RowPk:     runID,
		ChangedBy: actor,
		OldData:   oldData,
		NewData:   newData,
	}); err != nil {
		return domain.RunBody{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.RunBody{}, err
	}
	return after, nil
}
