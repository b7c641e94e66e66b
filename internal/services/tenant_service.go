package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type TenantService interface {
	GetOrganization(ctx context.Context, tenantID uuid.UUID) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, org *models.Organization) error
	DeactivateOrganization(ctx context.Context, tenantID uuid.UUID) error
}

type tenantService struct {
	orgRepo repositories.OrganizationRepository
}

func NewTenantService(orgRepo repositories.OrganizationRepository) TenantService {
	return &tenantService{orgRepo: orgRepo}
}

func (s *tenantService) GetOrganization(ctx context.Context, tenantID uuid.UUID) (*models.Organization, error) {
	return s.orgRepo.GetByID(ctx, tenantID)
}

func (s *tenantService) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	existing, err := s.orgRepo.GetByID(ctx, org.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("organization not found")
	}

	// Plan-derived fields are managed by the subscription flow.
	org.Slug = existing.Slug
	org.SubscriptionPlanID = existing.SubscriptionPlanID
	org.ProductLimit = existing.ProductLimit
	org.UserLimit = existing.UserLimit
	org.IsActive = existing.IsActive
	return s.orgRepo.Update(ctx, org)
}

func (s *tenantService) DeactivateOrganization(ctx context.Context, tenantID uuid.UUID) error {
	return s.orgRepo.SoftDelete(ctx, tenantID)
}
