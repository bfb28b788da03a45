package modelyard

import (
	"context"

	bconf "github.com/modelyard/modelyard/pkg/configs/backend"
	"github.com/modelyard/modelyard/pkg/domain/audit"
	"github.com/modelyard/modelyard/pkg/domain/auth"
	"github.com/modelyard/modelyard/pkg/domain/batchimport"
	"github.com/modelyard/modelyard/pkg/domain/dataset"
	"github.com/modelyard/modelyard/pkg/domain/metric"
	"github.com/modelyard/modelyard/pkg/domain/modelyard/db/postgres"
	"github.com/modelyard/modelyard/pkg/domain/report"
	"github.com/modelyard/modelyard/pkg/domain/run"
	"github.com/modelyard/modelyard/pkg/domain/schema"
)

type Modelyard interface {
	Config() *bconf.ServerConfig

	Auth() auth.Interface
	Metric() metric.Interface
	Run() run.Interface
	Report() report.Interface
	Audit() audit.Interface
	Dataset() dataset.Interface
	BatchImport() batchimport.Interface
	Schema() schema.Interface

	// Pipeline builds a batch import pipeline over this instance's stores.
	Pipeline() *batchimport.Pipeline

	Close() error
}

type modelyard struct {
	config *bconf.ServerConfig

	auth        auth.Interface
	metric      metric.Interface
	run         run.Interface
	report      report.Interface
	audit       audit.Interface
	dataset     dataset.Interface
	batchimport batchimport.Interface
	schema      schema.Interface

	close func() error
}

func New(
	ctx context.Context,
	config *bconf.ServerConfig,
	options ...Option,
) (Modelyard, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.DBURI, opt.pg...)
	if err != nil {
		return nil, err
	}

	return &modelyard{
		config: config,

		auth:        auth.New(pg.Auth()),
		metric:      metric.New(pg.Metric()),
		run:         run.New(pg.Run()),
		report:      report.New(pg.Report()),
		audit:       audit.New(pg.Audit()),
		dataset:     dataset.New(pg.Dataset()),
		batchimport: batchimport.New(pg.BatchImport()),
		schema:      schema.New(pg.Schema()),

		close: pg.Close,
	}, nil
}

type Option func(*_options)

type _options struct {
	pg []postgres.Option
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

func (y *modelyard) Config() *bconf.ServerConfig {
	return y.config
}

func (y *modelyard) Auth() auth.Interface {
	return y.auth
}

func (y *modelyard) Metric() metric.Interface {
	return y.metric
}

func (y *modelyard) Run() run.Interface {
	return y.run
}

func (y *modelyard) Report() report.Interface {
	return y.report
}

func (y *modelyard) Audit() audit.Interface {
	return y.audit
}

func (y *modelyard) Dataset() dataset.Interface {
	return y.dataset
}

func (y *modelyard) BatchImport() batchimport.Interface {
	return y.batchimport
}

func (y *modelyard) Schema() schema.Interface {
	return y.schema
}

func (y *modelyard) Pipeline() *batchimport.Pipeline {
	return &batchimport.Pipeline{
		Jobs:     y.batchimport.Database(),
		Metrics:  y.metric.Database(),
		Datasets: y.dataset.Database(),
	}
}

func (y *modelyard) Close() error {
	return y.close()
}
