package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPlan is a global catalog entry, not tenant-scoped.
type SubscriptionPlan struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Slug           string    `json:"slug" db:"slug"`
	ProductLimit   int       `json:"product_limit" db:"product_limit"`
	UserLimit      int       `json:"user_limit" db:"user_limit"`
	StorageLimitMB int       `json:"storage_limit_mb" db:"storage_limit_mb"`
	PriceMonthly   float64   `json:"price_monthly" db:"price_monthly"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
