package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/modelyard/modelyard/cmd/yardd/handlers"
	httptestutil "github.com/modelyard/modelyard/internal/testutils/http"
	apiruns "github.com/modelyard/modelyard/pkg/api/types/runs"
	"github.com/modelyard/modelyard/pkg/domain"
	dbauthmocks "github.com/modelyard/modelyard/pkg/domain/auth/db/mock"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
	dbmetricmocks "github.com/modelyard/modelyard/pkg/domain/metric/db/mock"
	dbrunmocks "github.com/modelyard/modelyard/pkg/domain/run/db/mock"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
)

func TestCompleteRunHandler(t *testing.T) {
	e := echo.New()

	finishedAt := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)

	completing := func() *dbrunmocks.Interface {
		mock := runAt("prj-1")
		mock.Impl.Complete = func(
			_ context.Context, runID string, status domain.RunStatus,
			at *time.Time, actor *string,
		) (domain.RunBody, error) {
			return domain.RunBody{
				Id:           runID,
				ExperimentId: "exp-1",
				ProjectId:    "prj-1",
				Status:       status,
				FinishedAt:   at,
			}, nil
		}
		return mock
	}

	t.Run("a run is closed with 200", func(t *testing.T) {
		dbRun := completing()
		testee := handlers.CompleteRunHandler(allowed(), dbRun, dbmetricmocks.New(), "runId")

		c, resp := httptestutil.Post(
			e, "/api/runs/run-1/complete",
			strings.NewReader(`{"status": "finished", "finishedAt": "2024-04-01T18:00:00.000+00:00"}`),
			httptestutil.ContentType("application/json"), asActor("user-1"),
		)
		c.SetParamNames("runId")
		c.SetParamValues("run-1")

		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", resp.Code)
		}

		got := apiruns.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		want := apiruns.Detail{
			RunId: "run-1", ExperimentId: "exp-1", ProjectId: "prj-1",
			Status:     "finished",
			FinishedAt: pointer.Ref(rfctime.RFC3339(finishedAt)),
		}
		if !got.Equal(&want) {
			t.Errorf("got %+v, want %+v", got, want)
		}

		if len(dbRun.Calls.Complete) != 1 {
			t.Fatalf("complete calls: got %d, want 1", len(dbRun.Calls.Complete))
		}
		call := dbRun.Calls.Complete[0]
		if call.RunId != "run-1" || call.Status != domain.Finished ||
			call.FinishedAt == nil || !call.FinishedAt.Equal(finishedAt) ||
			!pointer.Equal(call.Actor, pointer.Ref("user-1")) {
			t.Errorf("unexpected call: %+v", call)
		}
	})

	t.Run("final metrics are written after the run closes", func(t *testing.T) {
		dbMetric := dbmetricmocks.New()
		dbMetric.Impl.Register = func(
			_ context.Context, runID string, samples []domain.NewMetricSample, actor *string,
		) ([]domain.MetricSample, error) {
			return []domain.MetricSample{{Id: "sample-1", RunId: runID}}, nil
		}

		testee := handlers.CompleteRunHandler(allowed(), completing(), dbMetric, "runId")

		c, resp := httptestutil.Post(
			e, "/api/runs/run-1/complete",
			strings.NewReader(`{
				"status": "finished",
				"metrics": [{"metricKey": "accuracy", "scope": "test", "value": 0.93}]
			}`),
			httptestutil.ContentType("application/json"), asActor("user-1"),
		)
		c.SetParamNames("runId")
		c.SetParamValues("run-1")

		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", resp.Code)
		}
		if len(dbMetric.Calls.Register) != 1 {
			t.Fatalf("register calls: got %d, want 1", len(dbMetric.Calls.Register))
		}
		call := dbMetric.Calls.Register[0]
		if call.RunId != "run-1" || len(call.Samples) != 1 ||
			call.Samples[0].MetricKey != "accuracy" ||
			call.Samples[0].Scope != domain.ScopeTest ||
			call.Samples[0].Value != 0.93 {
			t.Errorf("unexpected call: %+v", call)
		}
	})

	t.Run("an already closed run is 409", func(t *testing.T) {
		dbRun := runAt("prj-1")
		dbRun.Impl.Complete = func(
			context.Context, string, domain.RunStatus, *time.Time, *string,
		) (domain.RunBody, error) {
			return domain.RunBody{}, domain.ErrInvalidRunStateChanging
		}

		testee := handlers.CompleteRunHandler(allowed(), dbRun, dbmetricmocks.New(), "runId")

		c, _ := httptestutil.Post(
			e, "/api/runs/run-1/complete",
			strings.NewReader(`{"status": "finished"}`),
			httptestutil.ContentType("application/json"), asActor("user-1"),
		)
		c.SetParamNames("runId")
		c.SetParamValues("run-1")

		if code := httpStatusOf(t, testee(c)); code != http.StatusConflict {
			t.Errorf("status: got %d, want 409", code)
		}
	})

	t.Run("an absent run is 404 before any access decision", func(t *testing.T) {
		dbRun := dbrunmocks.New()
		dbRun.Impl.Get = func(context.Context, string) (domain.RunBody, error) {
			return domain.RunBody{}, kerr.ErrMissing
		}
		dbAuth := dbauthmocks.New()

		testee := handlers.CompleteRunHandler(dbAuth, dbRun, dbmetricmocks.New(), "runId")

		c, _ := httptestutil.Post(
			e, "/api/runs/no-such/complete",
			strings.NewReader(`{"status": "finished"}`),
			httptestutil.ContentType("application/json"), asActor("user-1"),
		)
		c.SetParamNames("runId")
		c.SetParamValues("no-such")

		if code := httpStatusOf(t, testee(c)); code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", code)
		}
		if len(dbAuth.Calls.ResolveProject) != 0 {
			t.Error("authorization should not run for an absent run")
		}
	})

	t.Run("an insufficient rank is 403", func(t *testing.T) {
		testee := handlers.CompleteRunHandler(denied(), runAt("prj-1"), dbmetricmocks.New(), "runId")

		c, _ := httptestutil.Post(
			e, "/api/runs/run-1/complete",
			strings.NewReader(`{"status": "finished"}`),
			httptestutil.ContentType("application/json"), asActor("user-1"),
		)
		c.SetParamNames("runId")
		c.SetParamValues("run-1")

		if code := httpStatusOf(t, testee(c)); code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", code)
		}
	})

	for name, body := range map[string]string{
		"a non-terminal status is 400": `{"status": "running"}`,
		"an unknown status is 400":     `{"status": "done"}`,
		"a missing status is 400":      `{}`,
		"a bad final metric is 400": `{
			"status": "finished",
			"metrics": [{"metricKey": "accuracy", "scope": "no-such", "value": 1}]
		}`,
	} {
		t.Run(name, func(t *testing.T) {
			testee := handlers.CompleteRunHandler(
				dbauthmocks.New(), dbrunmocks.New(), dbmetricmocks.New(), "runId",
			)

			c, _ := httptestutil.Post(
				e, "/api/runs/run-1/complete", strings.NewReader(body),
				httptestutil.ContentType("application/json"), asActor("user-1"),
			)
			c.SetParamNames("runId")
			c.SetParamValues("run-1")

			if code := httpStatusOf(t, testee(c)); code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", code)
			}
		})
	}
}
