package postgres

import (
	"context"
	"encoding/json"
	"time"

	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
	"github.com/modelyard/modelyard/pkg/domain"
	kpgaudit "github.com/modelyard/modelyard/pkg/domain/audit/db/postgres"
	kdbdataset "github.com/modelyard/modelyard/pkg/domain/dataset/db"
	kpgerr "github.com/modelyard/modelyard/pkg/domain/errors/dberrors/postgres"
)

type datasetPG struct { // implements kdbdataset.Interface
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbdataset.Interface {
	return &datasetPG{pool: pool}
}

// JSON shape of a datasets row, for audit snapshots.
type datasetSnapshot struct {
	DatasetId   string    `json:"dataset_id"`
	ProjectId   string    `json:"project_id"`
	Name        string    `json:"name"`
	TaskType    string    `json:"task_type"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *datasetPG) Insert(
	ctx context.Context, nd domain.NewDataset, actor *string,
) (domain.Dataset, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	defer tx.Rollback(ctx)

	var found bool
	if err := tx.QueryRow(
		ctx,
		`select exists (select 1 from "ml_projects" where "project_id" = $1)`,
		nd.ProjectId,
	).Scan(&found); err != nil {
		return domain.Dataset{}, err
	}
	if !found {
		return domain.Dataset{}, kpgerr.Missing{
			Table: "ml_projects", Identity: nd.ProjectId,
		}
	}

	ds := domain.Dataset{
		Id:          domain.NewID(),
		ProjectId:   nd.ProjectId,
		Name:        nd.Name,
		TaskType:    nd.TaskType,
		Description: nd.Description,
	}
	if err := tx.QueryRow(
		ctx,
		`
		insert into "datasets"
			("dataset_id", "project_id", "name", "task_type", "description")
		values ($1, $2, $3, $4, $5)
		returning "created_at"
		`,
		ds.Id, ds.ProjectId, ds.Name, string(ds.TaskType), ds.Description,
	).Scan(&ds.CreatedAt); err != nil {
		return domain.Dataset{}, kpgerr.WrapConstraint("datasets", err)
	}

	newData, err := json.Marshal(datasetSnapshot{
		DatasetId: ds.Id, ProjectId: ds.ProjectId, Name: ds.Name,
		TaskType: string(ds.TaskType), Description: ds.Description,
		CreatedAt: ds.CreatedAt,
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	if err := kpgaudit.Record(ctx, tx, domain.AuditRecord{
		TableName: "datasets",
		Operation: domain.AuditInsert,
		RowPk:     ds.Id,
		ChangedBy: actor,
		NewData:   newData,
	}); err != nil {
		return domain.Dataset{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}
