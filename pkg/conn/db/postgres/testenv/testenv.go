package testenv

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	kpgschema "github.com/modelyard/modelyard/pkg/domain/schema/db/postgres"
)

// name of the environment variable carrying the connection URL of a
// disposable test database.
const EnvTestPostgres = "MODELYARD_TEST_POSTGRES"

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Cleanup(func() {
		t.Helper()
		ClearTables(ctx, p.pool, t)
	})

	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

// NewPoolBroaker connects to the database named by MODELYARD_TEST_POSTGRES
// and brings its schema up to date.
//
// Tests calling this are skipped when the variable is not set.
func NewPoolBroaker(ctx context.Context, t *testing.T) PoolBroaker {
	t.Helper()

	dburi := os.Getenv(EnvTestPostgres)
	if dburi == "" {
		t.Skipf("set %s to run tests needing postgres", EnvTestPostgres)
	}

	pool, err := pgxpool.Connect(ctx, dburi)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := kpgschema.New(kpool.Wrap(pool), schemaRepository(t)).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	return &pg{pool: pool}
}

func schemaRepository(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("can not locate the schema repository")
	}
	return filepath.Join(filepath.Dir(thisFile), "../../../../..", "schema")
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	conn, err := p.Acquire(ctx)
	if err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
		return
	}
	defer conn.Release()

	for _, command := range []string{
		`truncate "users" restart identity cascade`,
		`truncate "metric_definitions" restart identity cascade`,
		`truncate "audit_log" restart identity`,
		// by cascade, all rows in dependent tables should be deleted.
	} {
		_, err = conn.Exec(ctx, command)
		if err != nil {
			t.Errorf("fail to clean-up tables.: %v", err)
		}
	}
}
