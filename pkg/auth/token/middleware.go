package token

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	"github.com/modelyard/modelyard/pkg/domain"
)

// Middleware authenticates requests by their Authorization header and
// stores the verified user id as the request's actor.
//
// Requests without a valid bearer token are rejected with 401.
func Middleware(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			tok, found := strings.CutPrefix(header, "Bearer ")
			if !found || tok == "" {
				return apierr.Unauthorized("bearer token is required", nil)
			}

			userID, err := v.Verify(tok)
			if err != nil {
				if errors.Is(err, ErrInvalidToken) {
					return apierr.Unauthorized("invalid token", err)
				}
				return apierr.InternalServerError(err)
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithActor(req.Context(), userID)))
			return next(c)
		}
	}
}
