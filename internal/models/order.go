package models

import (
	"time"

	"github.com/google/uuid"
)

// Order approval states. pending is the only non-terminal state.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// OrderLine is an immutable snapshot of an ordered item. Rate, name and
// GST rate are copied at creation time so later item edits do not change
// past orders.
type OrderLine struct {
	ID       uuid.UUID `json:"id" db:"id"`
	OrderID  uuid.UUID `json:"order_id" db:"order_id"`
	ItemID   uuid.UUID `json:"item_id" db:"item_id"`
	ItemName string    `json:"item_name" db:"item_name"`
	Quantity int       `json:"quantity" db:"quantity"`
	Unit     string    `json:"unit" db:"unit"`
	Rate     float64   `json:"rate" db:"rate"`
	Amount   float64   `json:"amount" db:"amount"`
	GSTRate  float64   `json:"gst_rate" db:"gst_rate"`
}

type Order struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	TenantID       uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	OrderNumber    string      `json:"order_number" db:"order_number"`
	CustomerID     uuid.UUID   `json:"customer_id" db:"customer_id"`
	SalesmanID     *uuid.UUID  `json:"salesman_id" db:"salesman_id"`
	OrderDate      time.Time   `json:"order_date" db:"order_date"`
	Status         string      `json:"status" db:"status"`
	ApprovalStatus string      `json:"approval_status" db:"approval_status"`
	ApprovedBy     *uuid.UUID  `json:"approved_by" db:"approved_by"`
	ApprovedAt     *time.Time  `json:"approved_at" db:"approved_at"`
	Subtotal       float64     `json:"subtotal" db:"subtotal"`
	TaxAmount      float64     `json:"tax_amount" db:"tax_amount"`
	GrandTotal     float64     `json:"grand_total" db:"grand_total"`
	InvoiceID      *uuid.UUID  `json:"invoice_id" db:"invoice_id"`
	Lines          []OrderLine `json:"lines" db:"-"`
	IsDeleted      bool        `json:"is_deleted" db:"is_deleted"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}
