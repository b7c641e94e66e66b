package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type SubscriptionService interface {
	ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	// ChangePlan moves the organization onto a plan and copies its limits.
	// Downgrades below current usage are rejected.
	ChangePlan(ctx context.Context, tenantID uuid.UUID, planSlug string) (*models.Organization, error)
	SeedDefaultPlans(ctx context.Context) error
}

type subscriptionService struct {
	subRepo  repositories.SubscriptionRepository
	orgRepo  repositories.OrganizationRepository
	itemRepo repositories.ItemRepository
	userRepo repositories.UserRepository
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	orgRepo repositories.OrganizationRepository,
	itemRepo repositories.ItemRepository,
	userRepo repositories.UserRepository,
) SubscriptionService {
	return &subscriptionService{
		subRepo:  subRepo,
		orgRepo:  orgRepo,
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.subRepo.ListPlans(ctx)
}

func (s *subscriptionService) ChangePlan(ctx context.Context, tenantID uuid.UUID, planSlug string) (*models.Organization, error) {
	plan, err := s.subRepo.GetPlanBySlug(ctx, planSlug)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %q not found", planSlug)
	}

	org, err := s.orgRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("organization not found")
	}

	itemCount, err := s.itemRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if itemCount > plan.ProductLimit {
		return nil, fmt.Errorf("organization has %d products, plan allows %d", itemCount, plan.ProductLimit)
	}

	userCount, err := s.userRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if userCount > plan.UserLimit {
		return nil, fmt.Errorf("organization has %d users, plan allows %d", userCount, plan.UserLimit)
	}

	org.SubscriptionPlanID = &plan.ID
	org.ProductLimit = plan.ProductLimit
	org.UserLimit = plan.UserLimit
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// SeedDefaultPlans inserts the built-in plan catalog. Existing slugs are
// left untouched.
func (s *subscriptionService) SeedDefaultPlans(ctx context.Context) error {
	plans := []*models.SubscriptionPlan{
		{ID: uuid.New(), Name: "Free", Slug: "free", ProductLimit: 100, UserLimit: 5, StorageLimitMB: 256, PriceMonthly: 0},
		{ID: uuid.New(), Name: "Growth", Slug: "growth", ProductLimit: 1000, UserLimit: 25, StorageLimitMB: 2048, PriceMonthly: 1499},
		{ID: uuid.New(), Name: "Enterprise", Slug: "enterprise", ProductLimit: 10000, UserLimit: 200, StorageLimitMB: 20480, PriceMonthly: 7999},
	}
	for _, plan := range plans {
		if err := s.subRepo.CreatePlan(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}
