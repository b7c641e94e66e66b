package models

import (
	"time"

	"github.com/google/uuid"
)

// GST types: intra-state sales split the tax across CGST and SGST,
// inter-state sales carry it entirely as IGST.
const (
	GSTTypeIntraState = "cgst_sgst"
	GSTTypeInterState = "igst"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type InvoiceLine struct {
	ID        uuid.UUID `json:"id" db:"id"`
	InvoiceID uuid.UUID `json:"invoice_id" db:"invoice_id"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	ItemName  string    `json:"item_name" db:"item_name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Unit      string    `json:"unit" db:"unit"`
	Rate      float64   `json:"rate" db:"rate"`
	Amount    float64   `json:"amount" db:"amount"`
	TaxAmount float64   `json:"tax_amount" db:"tax_amount"`
}

type Invoice struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	TenantID          uuid.UUID     `json:"tenant_id" db:"tenant_id"`
	InvoiceNumber     string        `json:"invoice_number" db:"invoice_number"`
	CustomerID        uuid.UUID     `json:"customer_id" db:"customer_id"`
	OrderID           *uuid.UUID    `json:"order_id" db:"order_id"`
	IssuedDate        time.Time     `json:"issued_date" db:"issued_date"`
	DueDate           time.Time     `json:"due_date" db:"due_date"`
	Status            string        `json:"status" db:"status"`
	PaymentStatus     string        `json:"payment_status" db:"payment_status"`
	PaymentReceivedAt *time.Time    `json:"payment_received_at" db:"payment_received_at"`
	MarkedByUserID    *uuid.UUID    `json:"marked_by_user_id" db:"marked_by_user_id"`
	MarkedByName      *string       `json:"marked_by_name" db:"marked_by_name"`
	GSTType           string        `json:"gst_type" db:"gst_type"`
	Subtotal          float64       `json:"subtotal" db:"subtotal"`
	CGST              float64       `json:"cgst" db:"cgst"`
	SGST              float64       `json:"sgst" db:"sgst"`
	IGST              float64       `json:"igst" db:"igst"`
	GrandTotal        float64       `json:"grand_total" db:"grand_total"`
	PDFObjectKey      *string       `json:"pdf_object_key" db:"pdf_object_key"`
	Lines             []InvoiceLine `json:"lines" db:"-"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// TotalTax returns the combined GST carried by the invoice.
func (i *Invoice) TotalTax() float64 {
	return i.CGST + i.SGST + i.IGST
}
