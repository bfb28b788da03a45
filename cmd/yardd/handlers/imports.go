package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	apiimports "github.com/modelyard/modelyard/pkg/api/types/imports"
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/domain/batchimport"
	kdbimport "github.com/modelyard/modelyard/pkg/domain/batchimport/db"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
)

// BatchImportHandler accepts a multipart upload and drives it through
// the import pipeline.
//
// The response is the job record in its terminal status, 200 even when
// the job failed: data failures are job state, not transport errors.
func BatchImportHandler(
	dbImport kdbimport.Interface,
	pipeline *batchimport.Pipeline,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()

		kind, err := domain.AsImportKind(c.FormValue("job_type"))
		if err != nil {
			return apierr.BadRequest(`"job_type" should be "metrics" or "datasets"`, err)
		}
		format, err := domain.AsImportFormat(c.FormValue("format"))
		if err != nil {
			return apierr.BadRequest(`"format" should be "csv" or "json"`, err)
		}

		file, err := c.FormFile("file")
		if err != nil {
			return apierr.BadRequest(`"file" part is required`, err)
		}
		src, err := file.Open()
		if err != nil {
			return apierr.BadRequest(`"file" part cannot be opened`, err)
		}
		defer src.Close()

		sourceURI := c.FormValue("source_uri")
		if sourceURI == "" {
			sourceURI = file.Filename
		}

		job, err := dbImport.New(ctx, kind, format, sourceURI, domain.ActorFromContext(ctx))
		if err != nil {
			return apierr.InternalServerError(err)
		}

		job, err = pipeline.Run(ctx, job, src)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiimports.ComposeDetail(job))
	}
}

// ListImportErrorsHandler returns the row errors of a job.
//
// Only the user who submitted the job may read them.
func ListImportErrorsHandler(dbImport kdbimport.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()

		jobID := c.QueryParam("job_id")
		if jobID == "" {
			return apierr.BadRequest(`"job_id" is required`, nil)
		}

		job, err := dbImport.Get(ctx, jobID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		actor := domain.ActorFromContext(ctx)
		if actor == nil {
			return apierr.Unauthorized("bearer token is required", nil)
		}
		if job.CreatedBy == nil || *job.CreatedBy != *actor {
			return apierr.Forbidden("only the job owner can read its errors", nil)
		}

		rowErrors, err := dbImport.ListErrors(ctx, jobID)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiimports.ComposeRowErrors(rowErrors))
	}
}
