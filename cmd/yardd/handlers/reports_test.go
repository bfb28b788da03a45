package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/modelyard/modelyard/cmd/yardd/handlers"
	httptestutil "github.com/modelyard/modelyard/internal/testutils/http"
	apireports "github.com/modelyard/modelyard/pkg/api/types/reports"
	"github.com/modelyard/modelyard/pkg/domain"
	dbauthmocks "github.com/modelyard/modelyard/pkg/domain/auth/db/mock"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
	dbreportmocks "github.com/modelyard/modelyard/pkg/domain/report/db/mock"
	"github.com/modelyard/modelyard/pkg/utils/pointer"
	"github.com/modelyard/modelyard/pkg/utils/rfctime"
)

func experimentAt(projectID string) *dbreportmocks.Interface {
	mock := dbreportmocks.New()
	mock.Impl.Experiment = func(
		_ context.Context, experimentID string,
	) (domain.Experiment, error) {
		return domain.Experiment{Id: experimentID, ProjectId: projectID}, nil
	}
	return mock
}

func TestLeaderboardHandler(t *testing.T) {
	e := echo.New()

	recordedAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	entries := []domain.LeaderboardEntry{
		{RunId: "run-2", RunName: pointer.Ref("bigger lr"), Value: 0.9, RecordedAt: recordedAt},
		{RunId: "run-1", Value: 0.7, RecordedAt: recordedAt.Add(time.Minute)},
	}

	t.Run("the board is returned ranked", func(t *testing.T) {
		dbReport := experimentAt("prj-1")
		dbReport.Impl.Leaderboard = func(
			_ context.Context, experimentID string, metricKey string,
			scope domain.MetricScope, limit int,
		) ([]domain.LeaderboardEntry, error) {
			if limit != 20 {
				t.Errorf("limit: got %d, want the default 20", limit)
			}
			return entries, nil
		}

		testee := handlers.LeaderboardHandler(allowed(), dbReport, "id")

		c, resp := httptestutil.Get(
			e, "/api/reports/experiments/exp-1/leaderboard?metric_key=accuracy&scope=val",
			asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("exp-1")

		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", resp.Code)
		}

		got := apireports.Leaderboard{}
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		want := apireports.Leaderboard{
			ExperimentId: "exp-1", MetricKey: "accuracy", Scope: "val",
			Entries: []apireports.LeaderboardEntry{
				{
					RunId: "run-2", RunName: pointer.Ref("bigger lr"),
					Value: 0.9, RecordedAt: rfctime.RFC3339(recordedAt),
				},
				{
					RunId: "run-1", Value: 0.7,
					RecordedAt: rfctime.RFC3339(recordedAt.Add(time.Minute)),
				},
			},
		}
		if !got.Equal(&want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("an explicit limit is passed through", func(t *testing.T) {
		dbReport := experimentAt("prj-1")
		dbReport.Impl.Leaderboard = func(
			_ context.Context, _ string, _ string, _ domain.MetricScope, limit int,
		) ([]domain.LeaderboardEntry, error) {
			if limit != 3 {
				t.Errorf("limit: got %d, want 3", limit)
			}
			return []domain.LeaderboardEntry{}, nil
		}

		testee := handlers.LeaderboardHandler(allowed(), dbReport, "id")

		c, _ := httptestutil.Get(
			e, "/api/reports/experiments/exp-1/leaderboard?metric_key=accuracy&scope=val&limit=3",
			asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("exp-1")

		if err := testee(c); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("an absent experiment is 404 before any access decision", func(t *testing.T) {
		dbReport := dbreportmocks.New()
		dbReport.Impl.Experiment = func(context.Context, string) (domain.Experiment, error) {
			return domain.Experiment{}, kerr.ErrMissing
		}
		dbAuth := dbauthmocks.New()

		testee := handlers.LeaderboardHandler(dbAuth, dbReport, "id")

		c, _ := httptestutil.Get(
			e, "/api/reports/experiments/no-such/leaderboard?metric_key=accuracy&scope=val",
			asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("no-such")

		if code := httpStatusOf(t, testee(c)); code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", code)
		}
		if len(dbAuth.Calls.ResolveProject) != 0 {
			t.Error("authorization should not run for an absent experiment")
		}
	})

	t.Run("an insufficient rank is 403", func(t *testing.T) {
		testee := handlers.LeaderboardHandler(denied(), experimentAt("prj-1"), "id")

		c, _ := httptestutil.Get(
			e, "/api/reports/experiments/exp-1/leaderboard?metric_key=accuracy&scope=val",
			asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("exp-1")

		if code := httpStatusOf(t, testee(c)); code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", code)
		}
	})

	for name, query := range map[string]string{
		"a missing metric_key is 400": "scope=val",
		"an unknown scope is 400":     "metric_key=accuracy&scope=validation",
		"a missing scope is 400":      "metric_key=accuracy",
		"a negative limit is 400":     "metric_key=accuracy&scope=val&limit=-1",
		"a non-numeric limit is 400":  "metric_key=accuracy&scope=val&limit=many",
	} {
		t.Run(name, func(t *testing.T) {
			testee := handlers.LeaderboardHandler(dbauthmocks.New(), dbreportmocks.New(), "id")

			c, _ := httptestutil.Get(
				e, "/api/reports/experiments/exp-1/leaderboard?"+query,
				asActor("user-1"),
			)
			c.SetParamNames("id")
			c.SetParamValues("exp-1")

			if code := httpStatusOf(t, testee(c)); code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", code)
			}
		})
	}
}

func TestBestRunHandler(t *testing.T) {
	e := echo.New()

	recordedAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("the head of the board is returned", func(t *testing.T) {
		dbReport := experimentAt("prj-1")
		dbReport.Impl.BestRun = func(
			context.Context, string, string, domain.MetricScope,
		) (domain.LeaderboardEntry, error) {
			return domain.LeaderboardEntry{
				RunId: "run-2", Value: 0.9, RecordedAt: recordedAt,
			}, nil
		}

		testee := handlers.BestRunHandler(allowed(), dbReport, "id")

		c, resp := httptestutil.Get(
			e, "/api/reports/experiments/exp-1/best-run?metric_key=accuracy&scope=val",
			asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("exp-1")

		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", resp.Code)
		}

		got := apireports.LeaderboardEntry{}
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		want := apireports.LeaderboardEntry{
			RunId: "run-2", Value: 0.9, RecordedAt: rfctime.RFC3339(recordedAt),
		}
		if !got.Equal(&want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("no final sample at all is 404", func(t *testing.T) {
		dbReport := experimentAt("prj-1")
		dbReport.Impl.BestRun = func(
			context.Context, string, string, domain.MetricScope,
		) (domain.LeaderboardEntry, error) {
			return domain.LeaderboardEntry{}, kerr.ErrMissing
		}

		testee := handlers.BestRunHandler(allowed(), dbReport, "id")

		c, _ := httptestutil.Get(
			e, "/api/reports/experiments/exp-1/best-run?metric_key=accuracy&scope=val",
			asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("exp-1")

		if code := httpStatusOf(t, testee(c)); code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", code)
		}
	})
}

func TestProjectDashboardHandler(t *testing.T) {
	e := echo.New()

	updatedAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("the cached summaries are returned", func(t *testing.T) {
		dbReport := dbreportmocks.New()
		dbReport.Impl.ProjectDashboard = func(
			_ context.Context, projectID string,
		) ([]domain.MetricSummary, error) {
			return []domain.MetricSummary{
				{
					ProjectId: projectID, MetricId: "metric-1",
					MetricKey: "accuracy", Goal: domain.GoalMax, Scope: domain.ScopeVal,
					BestValue: pointer.Ref(0.9), BestRunId: pointer.Ref("run-2"),
					SampleSize: 4, UpdatedAt: updatedAt,
				},
				{
					ProjectId: projectID, MetricId: "metric-2",
					MetricKey: "loss", Goal: domain.GoalMin, Scope: domain.ScopeVal,
					SampleSize: 0, UpdatedAt: updatedAt,
				},
			}, nil
		}

		testee := handlers.ProjectDashboardHandler(allowed(), dbReport, "id")

		c, resp := httptestutil.Get(
			e, "/api/reports/projects/prj-1/dashboard", asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("prj-1")

		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", resp.Code)
		}

		got := apireports.Dashboard{}
		if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		want := apireports.Dashboard{
			ProjectId: "prj-1",
			Metrics: []apireports.MetricSummary{
				{
					MetricId: "metric-1", MetricKey: "accuracy", Goal: "max", Scope: "val",
					BestValue: pointer.Ref(0.9), BestRunId: pointer.Ref("run-2"),
					SampleSize: 4, UpdatedAt: rfctime.RFC3339(updatedAt),
				},
				{
					MetricId: "metric-2", MetricKey: "loss", Goal: "min", Scope: "val",
					UpdatedAt: rfctime.RFC3339(updatedAt),
				},
			},
		}
		if !got.Equal(&want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("an absent project is 404", func(t *testing.T) {
		dbAuth := dbauthmocks.New()
		dbAuth.Impl.ResolveProject = func(
			context.Context, string, string, domain.ProjectRole,
		) error {
			return kerr.ErrMissing
		}

		testee := handlers.ProjectDashboardHandler(dbAuth, dbreportmocks.New(), "id")

		c, _ := httptestutil.Get(
			e, "/api/reports/projects/no-such/dashboard", asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("no-such")

		if code := httpStatusOf(t, testee(c)); code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", code)
		}
	})

	t.Run("an insufficient rank is 403", func(t *testing.T) {
		testee := handlers.ProjectDashboardHandler(denied(), dbreportmocks.New(), "id")

		c, _ := httptestutil.Get(
			e, "/api/reports/projects/prj-1/dashboard", asActor("user-1"),
		)
		c.SetParamNames("id")
		c.SetParamValues("prj-1")

		if code := httpStatusOf(t, testee(c)); code != http.StatusForbidden {
			t.Errorf("status: got %d, want 403", code)
		}
	})
}
