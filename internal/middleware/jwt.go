package middleware

import (
	"context"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// OrgHeader lets clients pin requests to an organization. It must match
// the tenant baked into the token; a mismatch is rejected rather than
// silently ignored.
const OrgHeader = "x-org-id"

// JWTMiddleware validates the bearer token signature and expiry.
// LoadIdentity must run after it to populate the request context.
func JWTMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendUnauthorizedError(c)
		},
	})
}

// LoadIdentity copies the verified token claims into the request context
// and enforces the organization header pin.
func LoadIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return common.SendUnauthorizedError(c)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return common.SendUnauthorizedError(c)
			}
			tenantID, err := uuid.Parse(claims.TenantID)
			if err != nil {
				return common.SendUnauthorizedError(c)
			}

			if orgHeader := c.Request().Header.Get(OrgHeader); orgHeader != "" {
				headerOrg, err := uuid.Parse(orgHeader)
				if err != nil {
					return common.SendClientError(c, "invalid "+OrgHeader+" header")
				}
				if headerOrg != tenantID {
					return common.SendForbiddenError(c, "organization mismatch")
				}
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.TenantIDKey, tenantID)
			if claims.RoleID != "" {
				if roleID, err := uuid.Parse(claims.RoleID); err == nil {
					ctx = context.WithValue(ctx, common.RoleIDKey, roleID)
				}
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
