package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	kaudit "github.com/modelyard/modelyard/pkg/domain/audit/db"
	kpgaudit "github.com/modelyard/modelyard/pkg/domain/audit/db/postgres"
	kauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kpgauth "github.com/modelyard/modelyard/pkg/domain/auth/db/postgres"
	kimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db"
	kpgimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db/postgres"
	kdataset "github.com/modelyard/modelyard/pkg/domain/dataset/db"
	kpgdataset "github.com/modelyard/modelyard/pkg/domain/dataset/db/postgres"
	kmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
	kpgmetric "github.com/modelyard/modelyard/pkg/domain/metric/db/postgres"
	dbInterface "github.com/modelyard/modelyard/pkg/domain/modelyard/db"
	kreport "github.com/modelyard/modelyard/pkg/domain/report/db"
	kpgreport "github.com/modelyard/modelyard/pkg/domain/report/db/postgres"
	krun "github.com/modelyard/modelyard/pkg/domain/run/db"
	kpgrun "github.com/modelyard/modelyard/pkg/domain/run/db/postgres"
	kschema "github.com/modelyard/modelyard/pkg/domain/schema/db"
	kpgschema "github.com/modelyard/modelyard/pkg/domain/schema/db/postgres"
)

type yardDBPostgres struct {
	pool        *pgxpool.Pool
	auth        kauth.Interface
	metric      kmetric.Interface
	runs        krun.Interface
	report      kreport.Interface
	audit       kaudit.Interface
	dataset     kdataset.Interface
	batchimport kimport.Interface
	schema      kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.ModelyardDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, err
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &yardDBPostgres{
		pool:        pool,
		auth:        kpgauth.New(p),
		metric:      kpgmetric.New(p),
		runs:        kpgrun.New(p),
		report:      kpgreport.New(p),
		audit:       kpgaudit.New(p),
		dataset:     kpgdataset.New(p),
		batchimport: kpgimport.New(p),
		schema:      schema,
	}, nil
}

func (y *yardDBPostgres) Auth() kauth.Interface {
	return y.auth
}

func (y *yardDBPostgres) Metric() kmetric.Interface {
	return y.metric
}

func (y *yardDBPostgres) Run() krun.Interface {
	return y.runs
}

func (y *yardDBPostgres) Report() kreport.Interface {
	return y.report
}

func (y *yardDBPostgres) Audit() kaudit.Interface {
	return y.audit
}

func (y *yardDBPostgres) Dataset() kdataset.Interface {
	return y.dataset
}

func (y *yardDBPostgres) BatchImport() kimport.Interface {
	return y.batchimport
}

func (y *yardDBPostgres) Schema() kschema.SchemaInterface {
	return y.schema
}

func (y *yardDBPostgres) Close() error {
	y.pool.Close()
	return nil
}
