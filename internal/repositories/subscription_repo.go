package repositories

import (
	"context"
	"errors"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository interface {
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	GetPlanByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	GetPlanBySlug(ctx context.Context, slug string) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
}

type subscriptionRepo struct {
	db DBTX
}

func NewSubscriptionRepo(db DBTX) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const planColumns = `id, name, slug, product_limit, user_limit, storage_limit_mb, price_monthly, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{}
	err := row.Scan(&plan.ID, &plan.Name, &plan.Slug, &plan.ProductLimit, &plan.UserLimit,
		&plan.StorageLimitMB, &plan.PriceMonthly, &plan.IsActive, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *subscriptionRepo) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	query := `
		INSERT INTO subscription_plans (id, name, slug, product_limit, user_limit, storage_limit_mb, price_monthly, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, NOW(), NOW())
		ON CONFLICT (slug) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.Name, plan.Slug, plan.ProductLimit, plan.UserLimit,
		plan.StorageLimitMB, plan.PriceMonthly)
	return err
}

func (r *subscriptionRepo) GetPlanByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return plan, err
}

func (r *subscriptionRepo) GetPlanBySlug(ctx context.Context, slug string) (*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE slug = $1 AND is_active = true`
	plan, err := scanPlan(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return plan, err
}

func (r *subscriptionRepo) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE is_active = true ORDER BY price_monthly`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
