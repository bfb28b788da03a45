package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	apireports "github.com/modelyard/modelyard/pkg/api/types/reports"
	"github.com/modelyard/modelyard/pkg/domain"
	kdbauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
	kdbreport "github.com/modelyard/modelyard/pkg/domain/report/db"
)

const defaultLeaderboardLimit = 20

// LeaderboardHandler ranks an experiment's runs by one metric.
//
// Requires the viewer rank on the experiment's project.
func LeaderboardHandler(
	dbAuth kdbauth.Interface,
	dbReport kdbreport.Interface,
	experimentIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		experimentID := c.Param(experimentIdParam)

		metricKey, scope, apiErr := metricQuery(c)
		if apiErr != nil {
			return apiErr
		}

		limit := defaultLeaderboardLimit
		if q := c.QueryParam("limit"); q != "" {
			l, err := strconv.Atoi(q)
			if err != nil || l < 0 {
				return apierr.BadRequest(`"limit" should be a non-negative integer`, err)
			}
			limit = l
		}

		exp, err := dbReport.Experiment(ctx, experimentID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		if apiErr := authorizeProject(ctx, dbAuth, exp.ProjectId, domain.ProjectViewer); apiErr != nil {
			return apiErr
		}

		entries, err := dbReport.Leaderboard(ctx, experimentID, metricKey, scope, limit)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apireports.ComposeLeaderboard(
			experimentID, metricKey, scope, entries,
		))
	}
}

// BestRunHandler returns the head of an experiment's leaderboard.
//
// Requires the viewer rank on the experiment's project. 404 when no run
// has a final sample for the metric.
func BestRunHandler(
	dbAuth kdbauth.Interface,
	dbReport kdbreport.Interface,
	experimentIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		experimentID := c.Param(experimentIdParam)

		metricKey, scope, apiErr := metricQuery(c)
		if apiErr != nil {
			return apiErr
		}

		exp, err := dbReport.Experiment(ctx, experimentID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		if apiErr := authorizeProject(ctx, dbAuth, exp.ProjectId, domain.ProjectViewer); apiErr != nil {
			return apiErr
		}

		best, err := dbReport.BestRun(ctx, experimentID, metricKey, scope)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apireports.ComposeEntry(best))
	}
}

// ProjectDashboardHandler returns a project's cached metric summaries.
//
// Requires the viewer rank on the project.
func ProjectDashboardHandler(
	dbAuth kdbauth.Interface,
	dbReport kdbreport.Interface,
	projectIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		projectID := c.Param(projectIdParam)

		if apiErr := authorizeProject(ctx, dbAuth, projectID, domain.ProjectViewer); apiErr != nil {
			return apiErr
		}

		summaries, err := dbReport.ProjectDashboard(ctx, projectID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apireports.ComposeDashboard(projectID, summaries))
	}
}

func metricQuery(c echo.Context) (string, domain.MetricScope, *echo.HTTPError) {
	metricKey := c.QueryParam("metric_key")
	if metricKey == "" {
		return "", "", apierr.BadRequest(`"metric_key" is required`, nil)
	}
	scope, err := domain.AsMetricScope(c.QueryParam("scope"))
	if err != nil {
		return "", "", apierr.BadRequest(
			`"scope" should be one of "train", "val" or "test"`, err,
		)
	}
	return metricKey, scope, nil
}
