package middleware

import (
	"fmt"
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditMiddleware records mutating requests (POST, PUT, PATCH, DELETE)
// against the tenant's audit trail. Reads are not logged.
func AuditMiddleware(auditSvc services.AuditLogService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}

			ctx := c.Request().Context()
			tenantID, ok := common.GetTenantIDFromContext(ctx)
			if !ok {
				return err
			}

			var userPtr *uuid.UUID
			if userID, ok := common.GetUserIDFromContext(ctx); ok {
				userPtr = &userID
			}

			detail := fmt.Sprintf("%s %s -> %d", method, c.Path(), c.Response().Status)
			if err != nil {
				detail = fmt.Sprintf("%s (error: %v)", detail, err)
			}
			entityID := c.Param("id")
			var entityPtr *string
			if entityID != "" {
				entityPtr = &entityID
			}

			auditSvc.Record(ctx, tenantID, userPtr, method, c.Path(), entityPtr, &detail)
			return err
		}
	}
}
