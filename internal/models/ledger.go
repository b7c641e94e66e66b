package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types. Current stock for an (org, warehouse, item) tuple
// is always the signed sum of its ledger entries, never a stored total.
const (
	MovementIn     = "in"
	MovementOut    = "out"
	MovementAdjust = "adjust"
)

type LedgerEntry struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	WarehouseID  uuid.UUID  `json:"warehouse_id" db:"warehouse_id"`
	ItemID       uuid.UUID  `json:"item_id" db:"item_id"`
	Quantity     int        `json:"quantity" db:"quantity"`
	MovementType string     `json:"movement_type" db:"movement_type"`
	RefType      *string    `json:"ref_type" db:"ref_type"`
	RefID        *uuid.UUID `json:"ref_id" db:"ref_id"`
	Notes        *string    `json:"notes" db:"notes"`
	BatchNumber  *string    `json:"batch_number" db:"batch_number"`
	ExpiryDate   *time.Time `json:"expiry_date" db:"expiry_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
