package db

import (
	"context"

	"github.com/modelyard/modelyard/pkg/domain"
)

type Interface interface {
	// insert a dataset, audited in the same transaction.
	//
	// Args
	//
	// - context.Context
	//
	// - d: dataset to create.
	//
	// - actor: user id recorded on the audit row; nil for system writes.
	//
	// Returns
	//
	// - domain.Dataset: the created row.
	//
	// - error: ErrMissing when the project does not exist,
	// ErrConflict when the project already has a dataset with the name.
	Insert(ctx context.Context, d domain.NewDataset, actor *string) (domain.Dataset, error)
}
