package db

import "context"

// SchemaInterface represents the database schema lifecycle.
type SchemaInterface interface {
	// Upgrade applies schema versions newer than the recorded one.
	Upgrade(ctx context.Context) error

	// Version returns the version recorded in the database.
	// 0 means the schema has never been applied.
	Version(ctx context.Context) (int, error)

	// Context returns a context which is cancelled when the schema in
	// the database falls behind the schema repository on disk.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
