package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
	RoleIDKey   contextKey = "role_id"
)

// GetTenantIDFromContext extracts the org id placed by the JWT middleware.
func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// GetUserIDFromContext extracts the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleIDFromContext extracts the authenticated user's role id, if any.
func GetRoleIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(uuid.UUID)
	return roleID, ok
}
