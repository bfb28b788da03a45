package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	"github.com/modelyard/modelyard/pkg/domain"
	"github.com/modelyard/modelyard/pkg/domain/auth"
	kdbauth "github.com/modelyard/modelyard/pkg/domain/auth/db"
	kerr "github.com/modelyard/modelyard/pkg/domain/errors"
)

// authorizeProject tests the request's actor against a project rank and
// translates the outcome to HTTP errors.
//
// Absent projects come back as 404, before any access decision leaks
// whether the project exists.
func authorizeProject(
	ctx context.Context,
	dbAuth kdbauth.Interface,
	projectID string,
	required domain.ProjectRole,
) *echo.HTTPError {
	actor := domain.ActorFromContext(ctx)
	if actor == nil {
		return apierr.Unauthorized("bearer token is required", nil)
	}

	err := dbAuth.ResolveProject(ctx, *actor, projectID, required)
	if errors.Is(err, kerr.ErrMissing) {
		return apierr.NotFound()
	} else if errors.Is(err, auth.ErrDenied) {
		return apierr.Forbidden(
			fmt.Sprintf("%s role is required on the project", required), err,
		)
	} else if err != nil {
		return apierr.InternalServerError(err)
	}
	return nil
}
