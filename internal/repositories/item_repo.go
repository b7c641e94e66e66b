package repositories

import (
	"context"
	"errors"
	"fmt"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LowStockItem pairs an item with its current ledger-derived stock when
// that stock has fallen to or below the item's reorder level.
type LowStockItem struct {
	Item  *models.Item `json:"item"`
	Stock int64        `json:"stock"`
}

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error)
	GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Item, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]*LowStockItem, error)
}

type itemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `id, tenant_id, category_id, name, sku, description, unit, price, gst_rate, hsn_code, reorder_level, is_deleted, created_at, updated_at`

func scanItem(row pgx.Row) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.Name, &item.SKU, &item.Description,
		&item.Unit, &item.Price, &item.GSTRate, &item.HSNCode, &item.ReorderLevel, &item.IsDeleted,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, tenant_id, category_id, name, sku, description, unit, price, gst_rate, hsn_code, reorder_level, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.TenantID, item.CategoryID, item.Name, item.SKU,
		item.Description, item.Unit, item.Price, item.GSTRate, item.HSNCode, item.ReorderLevel)
	return err
}

func (r *itemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND id = $2 AND is_deleted = false`
	item, err := scanItem(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

func (r *itemRepo) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND sku = $2 AND is_deleted = false`
	item, err := scanItem(r.db.QueryRow(ctx, query, tenantID, sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

func (r *itemRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ItemSearchFilter) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND is_deleted = false`
	args := []any{tenantID}
	argPos := 2

	if filter.Query != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d)`, argPos, argPos)
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}
	if filter.CategoryID != nil {
		query += fmt.Sprintf(` AND category_id = $%d`, argPos)
		args = append(args, *filter.CategoryID)
		argPos++
	}
	if filter.MinPrice != nil {
		query += fmt.Sprintf(` AND price >= $%d`, argPos)
		args = append(args, *filter.MinPrice)
		argPos++
	}
	if filter.MaxPrice != nil {
		query += fmt.Sprintf(` AND price <= $%d`, argPos)
		args = append(args, *filter.MaxPrice)
		argPos++
	}

	sortBy := "name"
	switch filter.SortBy {
	case "price":
		sortBy = "price"
	case "created_at":
		sortBy = "created_at"
	case "sku":
		sortBy = "sku"
	}
	order := "ASC"
	if filter.SortOrder == "desc" {
		order = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s LIMIT $%d OFFSET $%d`, sortBy, order, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET category_id = $1, name = $2, description = $3, unit = $4, price = $5, gst_rate = $6,
			hsn_code = $7, reorder_level = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10 AND is_deleted = false
	`
	tag, err := r.db.Exec(ctx, query, item.CategoryID, item.Name, item.Description, item.Unit, item.Price,
		item.GSTRate, item.HSNCode, item.ReorderLevel, item.TenantID, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("item not found")
	}
	return nil
}

func (r *itemRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE items SET is_deleted = true, updated_at = NOW() WHERE tenant_id = $1 AND id = $2 AND is_deleted = false`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("item not found")
	}
	return nil
}

func (r *itemRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM items WHERE tenant_id = $1 AND is_deleted = false`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}

// LowStock sums the ledger per item across all warehouses and returns items
// whose total is at or below their reorder level.
func (r *itemRepo) LowStock(ctx context.Context, tenantID uuid.UUID) ([]*LowStockItem, error) {
	query := `
		SELECT ` + itemColumns + `, COALESCE(s.stock, 0) AS stock
		FROM items
		LEFT JOIN (
			SELECT item_id, SUM(quantity) AS stock
			FROM stock_ledger
			WHERE tenant_id = $1
			GROUP BY item_id
		) s ON s.item_id = items.id
		WHERE tenant_id = $1 AND is_deleted = false AND COALESCE(s.stock, 0) <= reorder_level
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*LowStockItem
	for rows.Next() {
		item := &models.Item{}
		var stock int64
		if err := rows.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.Name, &item.SKU, &item.Description,
			&item.Unit, &item.Price, &item.GSTRate, &item.HSNCode, &item.ReorderLevel, &item.IsDeleted,
			&item.CreatedAt, &item.UpdatedAt, &stock); err != nil {
			return nil, err
		}
		results = append(results, &LowStockItem{Item: item, Stock: stock})
	}
	return results, rows.Err()
}
