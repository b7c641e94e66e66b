package models

import (
	"time"

	"github.com/google/uuid"
)

// Role types known to the permission layer. company_admin carries the "*"
// wildcard; salesman and b2b_customer are restricted to their assigned
// customer set.
const (
	RoleTypeCompanyAdmin = "company_admin"
	RoleTypeSalesman     = "salesman"
	RoleTypeB2BCustomer  = "b2b_customer"
)

type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	RoleType    string    `json:"role_type" db:"role_type"`
	Permissions []string  `json:"permissions" db:"permissions"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Restricted reports whether the role only sees its assigned customers.
func (r *Role) Restricted() bool {
	return r.RoleType == RoleTypeSalesman || r.RoleType == RoleTypeB2BCustomer
}
