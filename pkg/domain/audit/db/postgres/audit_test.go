package postgres_test

import (
	"context"
	"fmt"
	"testing"

	testutilctx "github.com/modelyard/modelyard/internal/testutils/context"
	"github.com/modelyard/modelyard/pkg/conn/db/postgres/testenv"
	"github.com/modelyard/modelyard/pkg/domain"
	kpgaudit "github.com/modelyard/modelyard/pkg/domain/audit/db/postgres"
)

func TestList(t *testing.T) {
	ctx, cancel := testutilctx.WithTest(context.Background(), t)
	defer cancel()
	broaker := testenv.NewPoolBroaker(ctx, t)
	pool := broaker.GetPool(ctx, t)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for nth := 0; nth < 5; nth++ {
		if err := kpgaudit.Record(ctx, conn, domain.AuditRecord{
			TableName: "runs",
			Operation: domain.AuditUpdate,
			RowPk:     fmt.Sprintf("run-%d", nth),
			NewData:   []byte(fmt.Sprintf(`{"nth": %d}`, nth)),
		}); err != nil {
			t.Fatal(err)
		}
	}
	conn.Release()

	testee := kpgaudit.New(pool)

	t.Run("records come newest first", func(t *testing.T) {
		got, err := testee.List(ctx, 10, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 5 {
			t.Fatalf("records: got %d, want 5", len(got))
		}
		for nth, r := range got {
			if want := fmt.Sprintf("run-%d", 4-nth); r.RowPk != want {
				t.Errorf("record %d: got %s, want %s", nth, r.RowPk, want)
			}
			if r.Id == 0 || r.ChangedAt.IsZero() {
				t.Errorf("unassigned columns: %+v", r)
			}
			if r.ChangedBy != nil || r.OldData != nil {
				t.Errorf("unexpected columns: %+v", r)
			}
		}
	})

	t.Run("limit and offset page through", func(t *testing.T) {
		got, err := testee.List(ctx, 2, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].RowPk != "run-3" || got[1].RowPk != "run-2" {
			t.Errorf("unexpected page: %+v", got)
		}
	})

	t.Run("an offset past the end yields an empty page", func(t *testing.T) {
		got, err := testee.List(ctx, 10, 100)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("unexpected records: %+v", got)
		}
	})

	t.Run("a non-positive limit yields nothing", func(t *testing.T) {
		got, err := testee.List(ctx, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("unexpected records: %+v", got)
		}
	})
}
