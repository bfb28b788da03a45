package postgres

import (
	"context"

	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	kdbaudit "github.com/modelyard/modelyard/pkg/domain/audit/db"
)

type auditPG struct { // implements kdbaudit.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbaudit.Interface {
	return &auditPG{pool: pool}
}

// Record appends one audit row inside the caller's open transaction.
//
// Every mutating repository calls this before committing, so the audit
// row and the mutation it describes become visible atomically: rollback
// discards both, commit publishes both.
//
// ChangedAt is assigned by the database, not taken from r.
func Record(ctx context.Context, tx kpool.Queryer, r domain.AuditRecord) error {
	_, err := tx.Exec(
		ctx,
		`
		insert into "audit_log"
			("table_name", "operation", "row_pk", "changed_by", "old_data", "new_data")
		values ($1, $2, $3, $4, $5, $6)
		`,
		r.TableName, string(r.Operation), r.RowPk, r.ChangedBy, r.OldData, r.NewData,
	)
	return err
}

func (a *auditPG) List(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		return []domain.AuditRecord{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"audit_id", "table_name", "operation", "row_pk",
			"changed_by", "changed_at", "old_data", "new_data"
		from "audit_log"
		order by "audit_id" desc
		limit $1 offset $2
		`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var r domain.AuditRecord
		var op string
		if err := rows.Scan(
			&r.Id, &r.TableName, &op, &r.RowPk,
			&r.ChangedBy, &r.ChangedAt, &r.OldData, &r.NewData,
		); err != nil {
			return nil, err
		}
		if r.Operation, err = domain.AsAuditOperation(op); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
