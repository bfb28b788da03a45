package testenv

import (
	"context"
	"testing"
	"time"

	kpool "github.com/modelyard/modelyard/pkg/conn/db/postgres/pool"
)

// fixture writers. Each inserts one row and fails the test on error.

func AddUser(ctx context.Context, t *testing.T, pool kpool.Pool, userID string) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "users" ("user_id", "email", "full_name", "password_hash")
		values ($1, $1 || '@example.com', 'user ' || $1, 'x')
		`,
		userID,
	)
}

func AddOrganization(ctx context.Context, t *testing.T, pool kpool.Pool, orgID string, createdBy string) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "organizations" ("org_id", "name", "created_by")
		values ($1, 'org ' || $1, $2)
		`,
		orgID, createdBy,
	)
}

func AddOrgMember(
	ctx context.Context, t *testing.T, pool kpool.Pool,
	orgID string, userID string, role string, active bool,
) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "org_members" ("org_id", "user_id", "role", "is_active")
		values ($1, $2, $3, $4)
		`,
		orgID, userID, role, active,
	)
}

func AddProject(ctx context.Context, t *testing.T, pool kpool.Pool, projectID string, orgID string) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "ml_projects" ("project_id", "org_id", "name", "status")
		values ($1, $2, 'project ' || $1, 'active')
		`,
		projectID, orgID,
	)
}

func AddProjectMember(
	ctx context.Context, t *testing.T, pool kpool.Pool,
	projectID string, userID string, role string, active bool,
) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "project_members" ("project_id", "user_id", "role", "is_active")
		values ($1, $2, $3, $4)
		`,
		projectID, userID, role, active,
	)
}

func AddExperiment(
	ctx context.Context, t *testing.T, pool kpool.Pool,
	experimentID string, projectID string, createdBy string,
) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "experiments" ("experiment_id", "project_id", "name", "created_by")
		values ($1, $2, 'experiment ' || $1, $3)
		`,
		experimentID, projectID, createdBy,
	)
}

func AddRun(
	ctx context.Context, t *testing.T, pool kpool.Pool,
	runID string, experimentID string, status string,
) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "runs" ("run_id", "experiment_id", "run_name", "status", "started_at")
		values ($1, $2, 'run ' || $1, $3, $4)
		`,
		runID, experimentID, status, time.Now(),
	)
}

func AddMetricDefinition(
	ctx context.Context, t *testing.T, pool kpool.Pool,
	metricID string, key string, goal string,
) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "metric_definitions" ("metric_id", "key", "display_name", "goal")
		values ($1, $2, $2, $3)
		`,
		metricID, key, goal,
	)
}

func AddMetricValue(
	ctx context.Context, t *testing.T, pool kpool.Pool,
	valueID string, runID string, metricID string, scope string,
	value float64, recordedAt time.Time,
) {
	t.Helper()
	exec(
		ctx, t, pool,
		`
		insert into "run_metric_values"
			("run_metric_value_id", "run_id", "metric_id", "scope", "value", "recorded_at")
		values ($1, $2, $3, $4, $5, $6)
		`,
		valueID, runID, metricID, scope, value, recordedAt,
	)
}

func exec(ctx context.Context, t *testing.T, pool kpool.Pool, query string, args ...interface{}) {
	t.Helper()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, query, args...); err != nil {
		t.Fatal(err)
	}
}
