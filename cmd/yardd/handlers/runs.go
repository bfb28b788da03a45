package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	apiruns "github.com/modelyard/modelyard/pkg/api/types/runs"
	"github.com/modelyard/modelyard/pkg/domain"
	kdbauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
	kdbmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
	kdbrun "github.com/modelyard/modelyard/pkg/domain/run/db"
)

// CompleteRunHandler moves a run into a terminal status, optionally
// writing its final metrics afterwards.
//
// Requires the editor rank on the run's project.
func CompleteRunHandler(
	dbAuth kdbauth.Interface,
	dbRun kdbrun.Interface,
	dbMetric kdbmetric.Interface,
	runIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		runID := c.Param(runIdParam)

		req := apiruns.CompleteRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest(`request body should be JSON with a "status"`, err)
		}

		status, err := domain.AsRunStatus(req.Status)
		if err != nil || !status.Terminal() {
			return apierr.BadRequest(
				`"status" should be one of "finished", "failed" or "killed"`, err,
			)
		}

		var samples []domain.NewMetricSample
		if 0 < len(req.Metrics) {
			var apiErr *echo.HTTPError
			if samples, apiErr = asNewSamples(req.Metrics); apiErr != nil {
				return apiErr
			}
		}

		run, err := dbRun.Get(ctx, runID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		if apiErr := authorizeProject(ctx, dbAuth, run.ProjectId, domain.ProjectEditor); apiErr != nil {
			return apiErr
		}

		var finishedAt *time.Time
		if req.FinishedAt != nil {
			t := req.FinishedAt.Time()
			finishedAt = &t
		}

		actor := domain.ActorFromContext(ctx)
		completed, err := dbRun.Complete(ctx, runID, status, finishedAt, actor)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if errors.Is(err, domain.ErrInvalidRunStateChanging) {
			return apierr.Conflict("the run is already closed", apierr.WithError(err))
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		// final metrics go in their own transaction, after the run is closed.
		if 0 < len(samples) {
			_, err := dbMetric.Register(ctx, runID, samples, actor)
			if errors.Is(err, kdbmetric.ErrUnknownMetricKey) {
				return apierr.BadRequest(err.Error(), err)
			} else if errors.Is(err, kerr.ErrConflict) {
				return apierr.Conflict("metric values are rejected", apierr.WithError(err))
			} else if err != nil {
				return apierr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusOK, apiruns.ComposeDetail(completed))
	}
}
