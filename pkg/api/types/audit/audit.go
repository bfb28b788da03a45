package audit

import (
	"encoding/json"

	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
	"github.com/modelyard/modelyard/pkg/utils/slices"
)

type Record struct {
	AuditId   int64           `json:"auditId"`
	TableName string          `json:"tableName"`
	Operation string          `json:"operation"`
	RowPk     string          `json:"rowPk"`
	ChangedBy *string         `json:"changedBy,omitempty"`
	ChangedAt rfctime.RFC3339 `json:"changedAt"`
	OldData   json.RawMessage `json:"oldData,omitempty"`
	NewData   json.RawMessage `json:"newData,omitempty"`
}

func ComposeRecord(r domain.AuditRecord) Record {
	return Record{
		AuditId:   r.Id,
		TableName: r.TableName,
		Operation: string(r.Operation),
		RowPk:     r.RowPk,
		ChangedBy: r.ChangedBy,
		ChangedAt: rfctime.RFC3339(r.ChangedAt),
		OldData:   json.RawMessage(r.OldData),
		NewData:   json.RawMessage(r.NewData),
	}
}

func ComposeRecords(records []domain.AuditRecord) []Record {
	return slices.Map(records, ComposeRecord)
}
