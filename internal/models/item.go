package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemSearchFilter holds search and filter criteria for item queries
type ItemSearchFilter struct {
	Query      string     `json:"query,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	MinPrice   *float64   `json:"min_price,omitempty"`
	MaxPrice   *float64   `json:"max_price,omitempty"`
	SortBy     string     `json:"sort_by,omitempty"`
	SortOrder  string     `json:"sort_order,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}

type Item struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	CategoryID   *uuid.UUID `json:"category_id" db:"category_id"`
	Name         string     `json:"name" db:"name"`
	SKU          string     `json:"sku" db:"sku"`
	Description  *string    `json:"description" db:"description"`
	Unit         string     `json:"unit" db:"unit"`
	Price        float64    `json:"price" db:"price"`
	GSTRate      float64    `json:"gst_rate" db:"gst_rate"`
	HSNCode      *string    `json:"hsn_code" db:"hsn_code"`
	ReorderLevel int        `json:"reorder_level" db:"reorder_level"`
	IsDeleted    bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
