package repositories

import (
	"context"
	"errors"
	"time"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID, limit, offset int) ([]*models.Order, error)
	MarkApprovedTx(ctx context.Context, tx pgx.Tx, tenantID, orderID, approverID, invoiceID uuid.UUID) error
	MarkRejected(ctx context.Context, tenantID, orderID uuid.UUID) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByTenantAndDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int, float64, error)
	SalesmanTotals(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]SalesmanTotal, error)
}

// SalesmanTotal aggregates order count and value per salesman.
type SalesmanTotal struct {
	Orders int
	Value  float64
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

// Create writes the order and its lines in one transaction so a partial
// order can never be read back.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (id, tenant_id, order_number, customer_id, salesman_id, order_date, status, approval_status, subtotal, tax_amount, grand_total, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, order.ID, order.TenantID, order.OrderNumber, order.CustomerID, order.SalesmanID,
		order.OrderDate, order.Status, order.ApprovalStatus, order.Subtotal, order.TaxAmount, order.GrandTotal)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO order_lines (id, order_id, item_id, item_name, quantity, unit, rate, amount, gst_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.OrderID = order.ID
		if _, err := tx.Exec(ctx, lineQuery, line.ID, line.OrderID, line.ItemID, line.ItemName,
			line.Quantity, line.Unit, line.Rate, line.Amount, line.GSTRate); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, tenant_id, order_number, customer_id, salesman_id, order_date, status, approval_status, approved_by, approved_at, subtotal, tax_amount, grand_total, invoice_id, is_deleted, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND id = $2 AND is_deleted = false
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&order.ID, &order.TenantID, &order.OrderNumber,
		&order.CustomerID, &order.SalesmanID, &order.OrderDate, &order.Status, &order.ApprovalStatus,
		&order.ApprovedBy, &order.ApprovedAt, &order.Subtotal, &order.TaxAmount, &order.GrandTotal,
		&order.InvoiceID, &order.IsDeleted, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	lines, err := r.linesForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

func (r *orderRepo) linesForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	query := `
		SELECT id, order_id, item_id, item_name, quantity, unit, rate, amount, gst_rate
		FROM order_lines
		WHERE order_id = $1
		ORDER BY item_name
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.ItemName, &line.Quantity,
			&line.Unit, &line.Rate, &line.Amount, &line.GSTRate); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// List returns orders newest first. A non-nil customerIDs set restricts
// the result to those customers (the assigned-customer scope for
// salesman/b2b roles); an empty non-nil set therefore returns nothing.
func (r *orderRepo) List(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, tenant_id, order_number, customer_id, salesman_id, order_date, status, approval_status, approved_by, approved_at, subtotal, tax_amount, grand_total, invoice_id, is_deleted, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1 AND is_deleted = false
	`
	args := []any{tenantID}
	if customerIDs != nil {
		query += ` AND customer_id = ANY($2)`
		args = append(args, customerIDs)
		query += ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	}
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.TenantID, &order.OrderNumber, &order.CustomerID, &order.SalesmanID,
			&order.OrderDate, &order.Status, &order.ApprovalStatus, &order.ApprovedBy, &order.ApprovedAt,
			&order.Subtotal, &order.TaxAmount, &order.GrandTotal, &order.InvoiceID, &order.IsDeleted,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// MarkApprovedTx flips the order to approved and links the invoice inside
// the caller's transaction.
func (r *orderRepo) MarkApprovedTx(ctx context.Context, tx pgx.Tx, tenantID, orderID, approverID, invoiceID uuid.UUID) error {
	query := `
		UPDATE orders
		SET approval_status = $1, status = $1, approved_by = $2, approved_at = NOW(), invoice_id = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5 AND approval_status = $6
	`
	tag, err := tx.Exec(ctx, query, models.ApprovalApproved, approverID, invoiceID, tenantID, orderID, models.ApprovalPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order is not pending approval")
	}
	return nil
}

func (r *orderRepo) MarkRejected(ctx context.Context, tenantID, orderID uuid.UUID) error {
	query := `
		UPDATE orders
		SET approval_status = $1, status = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND approval_status = $4
	`
	tag, err := r.db.Exec(ctx, query, models.ApprovalRejected, tenantID, orderID, models.ApprovalPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("order is not pending approval")
	}
	return nil
}

func (r *orderRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE orders SET is_deleted = true, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}

func (r *orderRepo) CountByTenantAndDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (int, float64, error) {
	var count int
	var value float64
	query := `
		SELECT COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM orders
		WHERE tenant_id = $1 AND is_deleted = false AND order_date BETWEEN $2 AND $3
	`
	if err := r.db.QueryRow(ctx, query, tenantID, start, end).Scan(&count, &value); err != nil {
		return 0, 0, err
	}
	return count, value, nil
}

func (r *orderRepo) SalesmanTotals(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]SalesmanTotal, error) {
	query := `
		SELECT salesman_id, COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM orders
		WHERE tenant_id = $1 AND is_deleted = false AND salesman_id IS NOT NULL
		GROUP BY salesman_id
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]SalesmanTotal)
	for rows.Next() {
		var salesmanID uuid.UUID
		var total SalesmanTotal
		if err := rows.Scan(&salesmanID, &total.Orders, &total.Value); err != nil {
			return nil, err
		}
		totals[salesmanID] = total
	}
	return totals, rows.Err()
}
