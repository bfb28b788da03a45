package postgres_test

import (
	"context"
	"errors"
	"testing"

	testutilctx "github.com/modelyard/modelyard/internal/testutils/context"
	"github.com/modelyard/modelyard/pkg/conn/db/postgres/testenv"
	"github.com/modelyard/modelyard/pkg/domain"
	kpgimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db/postgres"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
)

func TestJobLifecycle(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	broaker := testenv.NewPoolBroaker(ctx, t)
	pool := broaker.GetPool(ctx, t)

	user := domain.NewID()
	testenv.AddUser(ctx, t, pool, user)

	testee := kpgimport.New(pool)

	job, err := testee.New(ctx, domain.ImportMetrics, domain.FormatCSV, "metrics.csv", &user)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("a new job starts in created", func(t *testing.T) {
		if job.Kind != domain.ImportMetrics ||
			job.Status != domain.ImportCreated ||
			job.Format != domain.FormatCSV ||
			job.SourceURI != "metrics.csv" ||
			!pointer.Equal(job.CreatedBy, &user) {
			t.Errorf("unexpected job: %+v", job)
		}
		if job.StartedAt != nil || job.FinishedAt != nil {
			t.Errorf("timestamps should be unset: %+v", job)
		}
	})

	t.Run("starting moves it to running", func(t *testing.T) {
		started, err := testee.Start(ctx, job.Id)
		if err != nil {
			t.Fatal(err)
		}
		if started.Status != domain.ImportRunning {
			t.Errorf("status: got %s, want running", started.Status)
		}
		if started.StartedAt == nil {
			t.Error("started_at should be set")
		}
	})

	t.Run("starting twice is rejected", func(t *testing.T) {
		if _, err := testee.Start(ctx, job.Id); !errors.Is(err, domain.ErrInvalidImportStateChanging) {
			t.Errorf("got %v, want ErrInvalidImportStateChanging", err)
		}
	})

	t.Run("finishing records the stats", func(t *testing.T) {
		stats := domain.ImportStats{Inserted: 7, Errors: 2}
		finished, err := testee.Finish(ctx, job.Id, stats)
		if err != nil {
			t.Fatal(err)
		}
		if finished.Status != domain.ImportFinished || finished.Stats != stats {
			t.Errorf("unexpected job: %+v", finished)
		}
		if finished.FinishedAt == nil {
			t.Error("finished_at should be set")
		}
	})

	t.Run("a finished job cannot fail afterwards", func(t *testing.T) {
		_, err := testee.Fail(ctx, job.Id, domain.ImportStats{})
		if !errors.Is(err, domain.ErrInvalidImportStateChanging) {
			t.Errorf("got %v, want ErrInvalidImportStateChanging", err)
		}
	})

	t.Run("the persisted job round-trips", func(t *testing.T) {
		got, err := testee.Get(ctx, job.Id)
		if err != nil {
			t.Fatal(err)
		}
		want := job
		want.Status = domain.ImportFinished
		want.Stats = domain.ImportStats{Inserted: 7, Errors: 2}
		if !got.Equal(&want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}

func TestFail(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	broaker := testenv.NewPoolBroaker(ctx, t)
	pool := broaker.GetPool(ctx, t)

	testee := kpgimport.New(pool)

	t.Run("a created job can fail before starting", func(t *testing.T) {
		job, err := testee.New(ctx, domain.ImportDatasets, domain.FormatJSON, "datasets.json", nil)
		if err != nil {
			t.Fatal(err)
		}

		failed, err := testee.Fail(ctx, job.Id, domain.ImportStats{})
		if err != nil {
			t.Fatal(err)
		}
		if failed.Status != domain.ImportFailed {
			t.Errorf("status: got %s, want failed", failed.Status)
		}
	})

	t.Run("a running job can fail", func(t *testing.T) {
		job, err := testee.New(ctx, domain.ImportMetrics, domain.FormatCSV, "metrics.csv", nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Start(ctx, job.Id); err != nil {
			t.Fatal(err)
		}

		failed, err := testee.Fail(ctx, job.Id, domain.ImportStats{Inserted: 3, Errors: 1})
		if err != nil {
			t.Fatal(err)
		}
		if failed.Status != domain.ImportFailed ||
			(failed.Stats != domain.ImportStats{Inserted: 3, Errors: 1}) {
			t.Errorf("unexpected job: %+v", failed)
		}
	})

	t.Run("an absent job is reported missing", func(t *testing.T) {
		if _, err := testee.Fail(ctx, domain.NewID(), domain.ImportStats{}); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("got %v, want ErrMissing", err)
		}
	})
}

func TestRowErrors(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	broaker := testenv.NewPoolBroaker(ctx, t)
	pool := broaker.GetPool(ctx, t)

	testee := kpgimport.New(pool)

	job, err := testee.New(ctx, domain.ImportMetrics, domain.FormatCSV, "metrics.csv", nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range []domain.ImportRowError{
		{
			JobId:     job.Id,
			RowNumber: pointer.Ref(4),
			RawRow:    []byte(`{"metric_key":"no-such"}`),
			Message:   "unknown metric keys: [no-such]",
		},
		{
			JobId:     job.Id,
			RowNumber: pointer.Ref(2),
			RawRow:    []byte(`{"value":"NaN"}`),
			Message:   `"value" should be a number`,
		},
		{
			JobId:   job.Id,
			Message: "unexpected EOF", // whole-file failure, no row
		},
	} {
		if err := testee.AddRowError(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("errors are listed with job-level ones first, then by row", func(t *testing.T) {
		got, err := testee.ListErrors(ctx, job.Id)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Fatalf("errors: got %d, want 3", len(got))
		}
		if got[0].RowNumber != nil || got[0].Message != "unexpected EOF" {
			t.Errorf("unexpected first error: %+v", got[0])
		}
		if !pointer.Equal(got[1].RowNumber, pointer.Ref(2)) ||
			!pointer.Equal(got[2].RowNumber, pointer.Ref(4)) {
			t.Errorf("unexpected ordering: %+v", got)
		}
		if string(got[2].RawRow) != `{"metric_key": "no-such"}` &&
			string(got[2].RawRow) != `{"metric_key":"no-such"}` {
			t.Errorf("unexpected raw row: %s", got[2].RawRow)
		}
		for _, e := range got {
			if e.Id == 0 || e.CreatedAt.IsZero() {
				t.Errorf("unassigned columns: %+v", e)
			}
		}
	})

	t.Run("a job without errors yields an empty list", func(t *testing.T) {
		clean, err := testee.New(ctx, domain.ImportMetrics, domain.FormatCSV, "clean.csv", nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := testee.ListErrors(ctx, clean.Id)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("unexpected errors: %+v", got)
		}
	})

	t.Run("an absent job is reported missing", func(t *testing.T) {
		if _, err := testee.ListErrors(ctx, domain.NewID()); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("got %v, want ErrMissing", err)
		}
	})

	t.Run("a row error for an absent job violates the foreign key", func(t *testing.T) {
		err := testee.AddRowError(ctx, domain.ImportRowError{
			JobId: domain.NewID(), Message: "orphan",
		})
		if err == nil {
			t.Error("an error is expected")
		}
	})
}
