package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	TenantID            uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	Mobile              string      `json:"mobile" db:"mobile"`
	Email               *string     `json:"email" db:"email"`
	PasswordHash        string      `json:"-" db:"password_hash"`
	Name                string      `json:"name" db:"name"`
	AvatarURL           *string     `json:"avatar_url" db:"avatar_url"`
	RoleID              *uuid.UUID  `json:"role_id" db:"role_id"`
	AssignedCustomerIDs []uuid.UUID `json:"assigned_customer_ids" db:"assigned_customer_ids"`
	IsActive            bool        `json:"is_active" db:"is_active"`
	IsDeleted           bool        `json:"is_deleted" db:"is_deleted"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}
