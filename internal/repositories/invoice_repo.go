package repositories

import (
	"context"
	"errors"
	"time"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error)
	GetByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	MarkPaid(ctx context.Context, tenantID, invoiceID, userID uuid.UUID, userName string) error
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error)
	SetPDFObjectKey(ctx context.Context, tenantID, invoiceID uuid.UUID, objectKey string) error
	UnpaidTotal(ctx context.Context, tenantID uuid.UUID) (float64, error)
}

type invoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

// CreateTx writes the invoice and its lines inside the caller's
// transaction. Both the direct-create path and the approval pipeline go
// through here so invoices and their stock movements commit together.
func (r *invoiceRepo) CreateTx(ctx context.Context, tx pgx.Tx, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, invoice_number, customer_id, order_id, issued_date, due_date, status, payment_status, gst_type, subtotal, cgst, sgst, igst, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := tx.Exec(ctx, query, invoice.ID, invoice.TenantID, invoice.InvoiceNumber, invoice.CustomerID,
		invoice.OrderID, invoice.IssuedDate, invoice.DueDate, invoice.Status, invoice.PaymentStatus,
		invoice.GSTType, invoice.Subtotal, invoice.CGST, invoice.SGST, invoice.IGST, invoice.GrandTotal)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO invoice_lines (id, invoice_id, item_id, item_name, quantity, unit, rate, amount, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range invoice.Lines {
		line := &invoice.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.InvoiceID = invoice.ID
		if _, err := tx.Exec(ctx, lineQuery, line.ID, line.InvoiceID, line.ItemID, line.ItemName,
			line.Quantity, line.Unit, line.Rate, line.Amount, line.TaxAmount); err != nil {
			return err
		}
	}
	return nil
}

const invoiceColumns = `id, tenant_id, invoice_number, customer_id, order_id, issued_date, due_date, status, payment_status, payment_received_at, marked_by_user_id, marked_by_name, gst_type, subtotal, cgst, sgst, igst, grand_total, pdf_object_key, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(&invoice.ID, &invoice.TenantID, &invoice.InvoiceNumber, &invoice.CustomerID, &invoice.OrderID,
		&invoice.IssuedDate, &invoice.DueDate, &invoice.Status, &invoice.PaymentStatus, &invoice.PaymentReceivedAt,
		&invoice.MarkedByUserID, &invoice.MarkedByName, &invoice.GSTType, &invoice.Subtotal, &invoice.CGST,
		&invoice.SGST, &invoice.IGST, &invoice.GrandTotal, &invoice.PDFObjectKey, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND id = $2`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	lines, err := r.linesForInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines
	return invoice, nil
}

func (r *invoiceRepo) GetByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND order_id = $2`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, tenantID, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) linesForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, item_id, item_name, quantity, unit, rate, amount, tax_amount
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY item_name
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.InvoiceLine
	for rows.Next() {
		var line models.InvoiceLine
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.ItemID, &line.ItemName, &line.Quantity,
			&line.Unit, &line.Rate, &line.Amount, &line.TaxAmount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *invoiceRepo) List(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1`
	args := []any{tenantID}
	if customerIDs != nil {
		query += ` AND customer_id = ANY($2) ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, customerIDs)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	}
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) MarkPaid(ctx context.Context, tenantID, invoiceID, userID uuid.UUID, userName string) error {
	query := `
		UPDATE invoices
		SET payment_status = $1, payment_received_at = NOW(), marked_by_user_id = $2, marked_by_name = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5 AND payment_status = $6
	`
	tag, err := r.db.Exec(ctx, query, models.PaymentPaid, userID, userName, tenantID, invoiceID, models.PaymentPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("invoice is not pending payment")
	}
	return nil
}

// MarkOverdue flips unpaid invoices past their due date to overdue status.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (int64, error) {
	query := `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE tenant_id = $1 AND payment_status = $2 AND due_date < $3 AND status <> 'overdue'
	`
	tag, err := r.db.Exec(ctx, query, tenantID, models.PaymentPending, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invoiceRepo) SetPDFObjectKey(ctx context.Context, tenantID, invoiceID uuid.UUID, objectKey string) error {
	query := `UPDATE invoices SET pdf_object_key = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, objectKey, tenantID, invoiceID)
	return err
}

func (r *invoiceRepo) UnpaidTotal(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE tenant_id = $1 AND payment_status = $2`
	if err := r.db.QueryRow(ctx, query, tenantID, models.PaymentPending).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
