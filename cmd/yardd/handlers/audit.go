package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apiaudit "github.com/modelyard/modelyard/pkg/api/types/audit"
	apierr "github.com/modelyard/modelyard/pkg/api/types/errors"
	kdbaudit "github.com/modelyard/modelyard/pkg/domain/audit/db"
)

const defaultAuditLogLimit = 100

// AuditLogHandler lists audit records, newest first.
func AuditLogHandler(dbAudit kdbaudit.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()

		limit := defaultAuditLogLimit
		if q := c.QueryParam("limit"); q != "" {
			l, err := strconv.Atoi(q)
			if err != nil || l < 0 {
				return apierr.BadRequest(`"limit" should be a non-negative integer`, err)
			}
			limit = l
		}

		offset := 0
		if q := c.QueryParam("offset"); q != "" {
			o, err := strconv.Atoi(q)
			if err != nil || o < 0 {
				return apierr.BadRequest(`"offset" should be a non-negative integer`, err)
			}
			offset = o
		}

		records, err := dbAudit.List(ctx, limit, offset)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiaudit.ComposeRecords(records))
	}
}
