package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	apimetrics "github.com/modelyard/modelyard/pkg/api/types/metrics"
	"github.com/modelyard/modelyard/pkg/domain"
	kdbauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
	kdbmetric "github.com/modelyard/modelyard/pkg/domain/metric/db"
	kdbrun "github.com/modelyard/modelyard/pkg/domain/run/db"
	"github.com/modelyard/modelyard/pkg/utils/slices"
)

// PostRunMetricsHandler writes metric samples for a run.
//
// Requires the editor rank on the run's project.
func PostRunMetricsHandler(
	dbAuth kdbauth.Interface,
	dbRun kdbrun.Interface,
	dbMetric kdbmetric.Interface,
	runIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		runID := c.Param(runIdParam)

		req := apimetrics.RegisterRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest(`request body should be JSON with a "metrics" array`, err)
		}
		if len(req.Metrics) == 0 {
			return apierr.BadRequest(`"metrics" should not be empty`, nil)
		}

		samples, apiErr := asNewSamples(req.Metrics)
		if apiErr != nil {
			return apiErr
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

		written, err := dbMetric.Register(ctx, runID, samples, domain.ActorFromContext(ctx))
		if errors.Is(err, kdbmetric.ErrUnknownMetricKey) {
			return apierr.BadRequest(err.Error(), err)
		} else if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if errors.Is(err, kerr.ErrConflict) {
			return apierr.Conflict("metric values are rejected", apierr.WithError(err))
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apimetrics.RegisterResponse{
			Metrics: slices.Map(written, apimetrics.ComposeSample),
		})
	}
}

// DeleteMetricValueHandler removes one metric sample.
//
// Requires the editor rank on the project the sample belongs to.
func DeleteMetricValueHandler(
	dbAuth kdbauth.Interface,
	dbMetric kdbmetric.Interface,
	sampleIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sampleID := c.Param(sampleIdParam)

		_, projectID, err := dbMetric.Sample(ctx, sampleID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		if apiErr := authorizeProject(ctx, dbAuth, projectID, domain.ProjectEditor); apiErr != nil {
			return apiErr
		}

		err = dbMetric.Remove(ctx, sampleID, domain.ActorFromContext(ctx))
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// asNewSamples validates client samples and converts them to domain writes.
func asNewSamples(in []apimetrics.NewSample) ([]domain.NewMetricSample, *echo.HTTPError) {
	samples := make([]domain.NewMetricSample, 0, len(in))
	for _, m := range in {
		if m.MetricKey == "" {
			return nil, apierr.BadRequest(`"metricKey" is required`, nil)
		}
		scope, err := domain.AsMetricScope(m.Scope)
		if err != nil {
			return nil, apierr.BadRequest(
				`"scope" should be one of "train", "val" or "test"`, err,
			)
		}
		if m.Step != nil && *m.Step < 0 {
			return nil, apierr.BadRequest(`"step" should not be negative`, nil)
		}
		var recordedAt *time.Time
		if m.RecordedAt != nil {
			t := m.RecordedAt.Time()
			recordedAt = &t
		}
		samples = append(samples, domain.NewMetricSample{
			MetricKey:  m.MetricKey,
			Scope:      scope,
			Step:       m.Step,
			Value:      m.Value,
			RecordedAt: recordedAt,
		})
	}
	return samples, nil
}
