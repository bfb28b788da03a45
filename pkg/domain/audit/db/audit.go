package db

import (
	"context"

	"github.com/modelyard/modelyard/pkg/domain"
)

type Interface interface {
	// list audit records, newest first.
	//
	// Args
	//
	// - context.Context
	//
	// - limit: max records to return. Non-positive limit returns nothing.
	//
	// - offset: records to skip from the newest.
	//
	// Returns
	//
	// - []domain.AuditRecord
	//
	// - error
	List(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error)
}
