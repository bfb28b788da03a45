package domain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/modelyard/modelyard/pkg/utils/pointer"
)

type AuditOperation string

const (
	AuditInsert AuditOperation = "I"
	AuditUpdate AuditOperation = "U"
	AuditDelete AuditOperation = "D"
)

func (op AuditOperation) String() string {
	return string(op)
}

func AsAuditOperation(op string) (AuditOperation, error) {
	switch op {
	case string(AuditInsert):
		return AuditInsert, nil
	case string(AuditUpdate):
		return AuditUpdate, nil
	case string(AuditDelete):
		return AuditDelete, nil
	default:
		return "", fmt.Errorf("'%s' is not AuditOperation", op)
	}
}

// one immutable entry of the audit trail. Written in the same
// transaction as the mutation it describes; never updated or deleted.
type AuditRecord struct {
	// assigned by the store on write; zero until then.
	Id int64

	TableName string
	Operation AuditOperation

	// serialized primary key of the affected row.
	RowPk string

	// user id of the actor, nil for system-initiated writes.
	ChangedBy *string

	ChangedAt time.Time

	// JSON snapshots. OldData is nil for inserts, NewData for deletes.
	OldData []byte
	NewData []byte
}

func (r *AuditRecord) Equal(o *AuditRecord) bool {
	return r.TableName == o.TableName &&
		r.Operation == o.Operation &&
		r.RowPk == o.RowPk &&
		pointer.Equal(r.ChangedBy, o.ChangedBy) &&
		bytes.Equal(r.OldData, o.OldData) &&
		bytes.Equal(r.NewData, o.NewData)
}
