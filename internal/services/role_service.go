package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type RoleService interface {
	CreateRole(ctx context.Context, role *models.Role) error
	GetRole(ctx context.Context, tenantID, roleID uuid.UUID) (*models.Role, error)
	ListRoles(ctx context.Context, tenantID uuid.UUID) ([]*models.Role, error)
	UpdateRole(ctx context.Context, role *models.Role) error
	DeleteRole(ctx context.Context, tenantID, roleID uuid.UUID) error
}

type roleService struct {
	roleRepo repositories.RoleRepository
}

func NewRoleService(roleRepo repositories.RoleRepository) RoleService {
	return &roleService{roleRepo: roleRepo}
}

func validRoleType(roleType string) bool {
	switch roleType {
	case models.RoleTypeCompanyAdmin, models.RoleTypeSalesman, models.RoleTypeB2BCustomer:
		return true
	}
	return false
}

func (s *roleService) CreateRole(ctx context.Context, role *models.Role) error {
	if role.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if !validRoleType(role.RoleType) {
		return fmt.Errorf("unknown role type %q", role.RoleType)
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}
	return s.roleRepo.Create(ctx, role)
}

func (s *roleService) GetRole(ctx context.Context, tenantID, roleID uuid.UUID) (*models.Role, error) {
	return s.roleRepo.GetByID(ctx, tenantID, roleID)
}

func (s *roleService) ListRoles(ctx context.Context, tenantID uuid.UUID) ([]*models.Role, error) {
	return s.roleRepo.List(ctx, tenantID)
}

func (s *roleService) UpdateRole(ctx context.Context, role *models.Role) error {
	existing, err := s.roleRepo.GetByID(ctx, role.TenantID, role.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("role not found")
	}
	if !validRoleType(role.RoleType) {
		return fmt.Errorf("unknown role type %q", role.RoleType)
	}

	// The bootstrap admin role keeps its wildcard; locking every admin out
	// of their own org is not recoverable from the API.
	if existing.RoleType == models.RoleTypeCompanyAdmin {
		role.RoleType = models.RoleTypeCompanyAdmin
		role.Permissions = existing.Permissions
	}
	return s.roleRepo.Update(ctx, role)
}

func (s *roleService) DeleteRole(ctx context.Context, tenantID, roleID uuid.UUID) error {
	existing, err := s.roleRepo.GetByID(ctx, tenantID, roleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("role not found")
	}
	if existing.RoleType == models.RoleTypeCompanyAdmin {
		return fmt.Errorf("the company admin role cannot be deleted")
	}
	return s.roleRepo.Delete(ctx, tenantID, roleID)
}
