package repositories

import (
	"context"
	"errors"
	"time"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientStock is returned when a withdrawal would drive the
// aggregated stock for an (org, warehouse, item) tuple negative.
var ErrInsufficientStock = errors.New("insufficient stock")

type LedgerRepository interface {
	Insert(ctx context.Context, entry *models.LedgerEntry) error
	GetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) (int, error)
	ReduceStock(ctx context.Context, entry *models.LedgerEntry) error
	ReduceStockTx(ctx context.Context, tx pgx.Tx, entry *models.LedgerEntry) error
	ListByItem(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error)
}

type ledgerRepo struct {
	db DBTX
}

func NewLedgerRepo(db DBTX) LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Insert(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `
		INSERT INTO stock_ledger (id, tenant_id, warehouse_id, item_id, quantity, movement_type, ref_type, ref_id, notes, batch_number, expiry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
		entry.Quantity, entry.MovementType, entry.RefType, entry.RefID, entry.Notes, entry.BatchNumber, entry.ExpiryDate)
	return err
}

func (r *ledgerRepo) GetStock(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID) (int, error) {
	var stock int
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_ledger
		WHERE tenant_id = $1 AND warehouse_id = $2 AND item_id = $3
	`
	if err := r.db.QueryRow(ctx, query, tenantID, warehouseID, itemID).Scan(&stock); err != nil {
		return 0, err
	}
	return stock, nil
}

// reduceStockQuery writes the negative entry only when the current sum
// covers the withdrawal, in a single statement. Zero rows affected means
// the guard failed and nothing was written.
const reduceStockQuery = `
	INSERT INTO stock_ledger (id, tenant_id, warehouse_id, item_id, quantity, movement_type, ref_type, ref_id, notes, batch_number, expiry_date, created_at)
	SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
	WHERE (
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_ledger
		WHERE tenant_id = $2 AND warehouse_id = $3 AND item_id = $4
	) >= -$5::bigint
`

func (r *ledgerRepo) ReduceStock(ctx context.Context, entry *models.LedgerEntry) error {
	return reduceStock(ctx, r.db, entry)
}

func (r *ledgerRepo) ReduceStockTx(ctx context.Context, tx pgx.Tx, entry *models.LedgerEntry) error {
	return reduceStock(ctx, tx, entry)
}

func reduceStock(ctx context.Context, db DBTX, entry *models.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Quantity > 0 {
		entry.Quantity = -entry.Quantity
	}
	if entry.MovementType == "" {
		entry.MovementType = models.MovementOut
	}
	entry.CreatedAt = time.Now()

	tag, err := db.Exec(ctx, reduceStockQuery, entry.ID, entry.TenantID, entry.WarehouseID, entry.ItemID,
		entry.Quantity, entry.MovementType, entry.RefType, entry.RefID, entry.Notes, entry.BatchNumber, entry.ExpiryDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *ledgerRepo) ListByItem(ctx context.Context, tenantID, itemID uuid.UUID, limit, offset int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, tenant_id, warehouse_id, item_id, quantity, movement_type, ref_type, ref_id, notes, batch_number, expiry_date, created_at
		FROM stock_ledger
		WHERE tenant_id = $1 AND item_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.WarehouseID, &entry.ItemID, &entry.Quantity,
			&entry.MovementType, &entry.RefType, &entry.RefID, &entry.Notes, &entry.BatchNumber, &entry.ExpiryDate, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
