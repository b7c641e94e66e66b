package repositories

import (
	"context"
	"errors"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*models.Organization, error)
}

type organizationRepo struct {
	db DBTX
}

func NewOrganizationRepo(db DBTX) OrganizationRepository {
	return &organizationRepo{db: db}
}

const organizationColumns = `id, name, slug, business_name, gstin, address, state, state_code, logo_url, subscription_plan_id, product_limit, user_limit, is_active, is_deleted, created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	org := &models.Organization{}
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.BusinessName, &org.GSTIN, &org.Address, &org.State,
		&org.StateCode, &org.LogoURL, &org.SubscriptionPlanID, &org.ProductLimit, &org.UserLimit,
		&org.IsActive, &org.IsDeleted, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, business_name, gstin, address, state, state_code, logo_url, subscription_plan_id, product_limit, user_limit, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, true, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, org.ID, org.Name, org.Slug, org.BusinessName, org.GSTIN, org.Address,
		org.State, org.StateCode, org.LogoURL, org.SubscriptionPlanID, org.ProductLimit, org.UserLimit)
	return err
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1 AND is_deleted = false`
	org, err := scanOrganization(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return org, err
}

func (r *organizationRepo) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1 AND is_deleted = false`
	org, err := scanOrganization(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return org, err
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, business_name = $2, gstin = $3, address = $4, state = $5, state_code = $6, logo_url = $7, subscription_plan_id = $8, product_limit = $9, user_limit = $10, is_active = $11, updated_at = NOW()
		WHERE id = $12
	`
	_, err := r.db.Exec(ctx, query, org.Name, org.BusinessName, org.GSTIN, org.Address, org.State, org.StateCode,
		org.LogoURL, org.SubscriptionPlanID, org.ProductLimit, org.UserLimit, org.IsActive, org.ID)
	return err
}

func (r *organizationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE organizations SET is_deleted = true, is_active = false, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *organizationRepo) ListActive(ctx context.Context) ([]*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE is_active = true AND is_deleted = false`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}
