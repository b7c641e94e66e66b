package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Slug               string     `json:"slug" db:"slug"`
	BusinessName       *string    `json:"business_name" db:"business_name"`
	GSTIN              *string    `json:"gstin" db:"gstin"`
	Address            *string    `json:"address" db:"address"`
	State              *string    `json:"state" db:"state"`
	StateCode          *string    `json:"state_code" db:"state_code"`
	LogoURL            *string    `json:"logo_url" db:"logo_url"`
	SubscriptionPlanID *uuid.UUID `json:"subscription_plan_id" db:"subscription_plan_id"`
	ProductLimit       int        `json:"product_limit" db:"product_limit"`
	UserLimit          int        `json:"user_limit" db:"user_limit"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	IsDeleted          bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}
