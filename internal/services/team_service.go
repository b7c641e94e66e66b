package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CreateMemberInput is the payload for adding a team member.
type CreateMemberInput struct {
	Name                string
	Mobile              string
	Email               *string
	Password            string
	RoleID              *uuid.UUID
	AssignedCustomerIDs []uuid.UUID
}

type TeamService interface {
	CreateMember(ctx context.Context, tenantID uuid.UUID, input *CreateMemberInput) (*models.User, error)
	GetMember(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error)
	ListMembers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	UpdateMember(ctx context.Context, tenantID uuid.UUID, user *models.User) error
	AssignCustomers(ctx context.Context, tenantID, userID uuid.UUID, customerIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error
}

type teamService struct {
	userRepo     repositories.UserRepository
	roleRepo     repositories.RoleRepository
	customerRepo repositories.CustomerRepository
	orgRepo      repositories.OrganizationRepository
}

func NewTeamService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository, customerRepo repositories.CustomerRepository, orgRepo repositories.OrganizationRepository) TeamService {
	return &teamService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		customerRepo: customerRepo,
		orgRepo:      orgRepo,
	}
}

func (s *teamService) CreateMember(ctx context.Context, tenantID uuid.UUID, input *CreateMemberInput) (*models.User, error) {
	if input.Name == "" || input.Mobile == "" {
		return nil, fmt.Errorf("name and mobile are required")
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	org, err := s.orgRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("organization not found")
	}

	count, err := s.userRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if count >= org.UserLimit {
		return nil, fmt.Errorf("user limit reached for current plan (%d)", org.UserLimit)
	}

	if existing, err := s.userRepo.GetByIdentifier(ctx, nil, input.Mobile); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("an account with this mobile already exists")
	}

	if input.RoleID != nil {
		role, err := s.roleRepo.GetByID(ctx, tenantID, *input.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("role not found")
		}
	}

	if err := s.validateCustomerIDs(ctx, tenantID, input.AssignedCustomerIDs); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		Mobile:              input.Mobile,
		Email:               input.Email,
		PasswordHash:        string(hash),
		Name:                input.Name,
		RoleID:              input.RoleID,
		AssignedCustomerIDs: input.AssignedCustomerIDs,
		IsActive:            true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *teamService) GetMember(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, tenantID, userID)
}

func (s *teamService) ListMembers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, tenantID, limit, offset)
}

func (s *teamService) UpdateMember(ctx context.Context, tenantID uuid.UUID, user *models.User) error {
	existing, err := s.userRepo.GetByID(ctx, tenantID, user.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("user not found")
	}

	if user.RoleID != nil {
		role, err := s.roleRepo.GetByID(ctx, tenantID, *user.RoleID)
		if err != nil {
			return err
		}
		if role == nil {
			return fmt.Errorf("role not found")
		}
	}
	if err := s.validateCustomerIDs(ctx, tenantID, user.AssignedCustomerIDs); err != nil {
		return err
	}

	user.TenantID = tenantID
	return s.userRepo.Update(ctx, user)
}

func (s *teamService) AssignCustomers(ctx context.Context, tenantID, userID uuid.UUID, customerIDs []uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := s.validateCustomerIDs(ctx, tenantID, customerIDs); err != nil {
		return err
	}

	user.AssignedCustomerIDs = customerIDs
	return s.userRepo.Update(ctx, user)
}

func (s *teamService) RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.userRepo.SoftDelete(ctx, tenantID, userID)
}

// validateCustomerIDs rejects assignments that reference customers outside
// the tenant.
func (s *teamService) validateCustomerIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		customer, err := s.customerRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("customer %s not found", id)
		}
	}
	return nil
}
