package middleware

import (
	"log"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequirePermission gates a route on a named permission. The company
// admin wildcard "*" always passes.
func RequirePermission(rbacSvc services.RBACService, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			tenantID, ok := common.GetTenantIDFromContext(ctx)
			if !ok {
				return common.SendUnauthorizedError(c)
			}

			var roleID *uuid.UUID
			if id, ok := common.GetRoleIDFromContext(ctx); ok {
				roleID = &id
			}

			allowed, err := rbacSvc.HasPermission(ctx, tenantID, roleID, permission)
			if err != nil {
				log.Printf("permission check failed for %s: %v", permission, err)
				return common.SendServerError(c, "permission check failed")
			}
			if !allowed {
				return common.SendForbiddenError(c, "missing permission: "+permission)
			}

			return next(c)
		}
	}
}
