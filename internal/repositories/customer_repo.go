package repositories

import (
	"context"
	"errors"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type customerRepo struct {
	db DBTX
}

func NewCustomerRepo(db DBTX) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, tenant_id, name, mobile, email, gstin, address, avatar_url, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(&customer.ID, &customer.TenantID, &customer.Name, &customer.Mobile, &customer.Email,
		&customer.GSTIN, &customer.Address, &customer.AvatarURL, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, tenant_id, name, mobile, email, gstin, address, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.TenantID, customer.Name, customer.Mobile,
		customer.Email, customer.GSTIN, customer.Address, customer.AvatarURL)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1 AND id = $2`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return customer, err
}

// List returns customers by name. A non-nil ids set restricts the result
// to those customers; an empty non-nil set returns nothing.
func (r *customerRepo) List(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = $1`
	args := []any{tenantID}
	if ids != nil {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, mobile = $2, email = $3, gstin = $4, address = $5, avatar_url = $6, updated_at = NOW()
		WHERE tenant_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, customer.Name, customer.Mobile, customer.Email, customer.GSTIN,
		customer.Address, customer.AvatarURL, customer.TenantID, customer.ID)
	return err
}

func (r *customerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE tenant_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, tenantID, id)
	return err
}
