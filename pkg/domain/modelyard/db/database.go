package db

import (
	kaudit "github.com/modelyard/modelyard/pkg/domain/audit/db"
	kauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db"
	kdataset "github.com/modelyard/modelyard/pkg/domain/dataset/db"
	kmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
	kreport "github.com/modelyard/modelyard/pkg/domain/report/db"
	krun "github.com/modelyard/modelyard/pkg/domain/run/db"
	kschema "github.com/modelyard/modelyard/pkg/domain/schema/db"
)

type ModelyardDatabase interface {
	Auth() kauth.Interface
	Metric() kmetric.Interface
	Run() krun.Interface
	Report() kreport.Interface
	Audit() kaudit.Interface
	Dataset() kdataset.Interface
	BatchImport() kimport.Interface
	Schema() kschema.SchemaInterface
	Close() error
}
