package repositories

import (
	"context"
	"errors"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error)
	First(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error)
	Update(ctx context.Context, warehouse *models.Warehouse) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type warehouseRepo struct {
	db DBTX
}

func NewWarehouseRepo(db DBTX) WarehouseRepository {
	return &warehouseRepo{db: db}
}

const warehouseColumns = `id, tenant_id, name, code, address, created_at, updated_at`

func scanWarehouse(row pgx.Row) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{}
	err := row.Scan(&warehouse.ID, &warehouse.TenantID, &warehouse.Name, &warehouse.Code, &warehouse.Address,
		&warehouse.CreatedAt, &warehouse.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (r *warehouseRepo) Create(ctx context.Context, warehouse *models.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, tenant_id, name, code, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, warehouse.ID, warehouse.TenantID, warehouse.Name, warehouse.Code, warehouse.Address)
	return err
}

func (r *warehouseRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 AND id = $2`
	warehouse, err := scanWarehouse(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return warehouse, err
}

// First returns the tenant's oldest warehouse, the default target for
// stock movements when no warehouse is named.
func (r *warehouseRepo) First(ctx context.Context, tenantID uuid.UUID) (*models.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 ORDER BY created_at LIMIT 1`
	warehouse, err := scanWarehouse(r.db.QueryRow(ctx, query, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return warehouse, err
}

func (r *warehouseRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE tenant_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warehouses []*models.Warehouse
	for rows.Next() {
		warehouse, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		warehouses = append(warehouses, warehouse)
	}
	return warehouses, rows.Err()
}

func (r *warehouseRepo) Update(ctx context.Context, warehouse *models.Warehouse) error {
	query := `UPDATE warehouses SET name = $1, code = $2, address = $3, updated_at = NOW() WHERE tenant_id = $4 AND id = $5`
	_, err := r.db.Exec(ctx, query, warehouse.Name, warehouse.Code, warehouse.Address, warehouse.TenantID, warehouse.ID)
	return err
}

func (r *warehouseRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM warehouses WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}
