package services

import (
	"context"

	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type RBACService interface {
	HasPermission(ctx context.Context, tenantID uuid.UUID, roleID *uuid.UUID, permission string) (bool, error)
	// CustomerScope returns nil when the user may see every customer, or
	// the (possibly empty) set of customer ids the user is limited to.
	CustomerScope(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error)
}

type rbacService struct {
	roleRepo repositories.RoleRepository
	userRepo repositories.UserRepository
}

func NewRBACService(roleRepo repositories.RoleRepository, userRepo repositories.UserRepository) RBACService {
	return &rbacService{roleRepo: roleRepo, userRepo: userRepo}
}

func (s *rbacService) HasPermission(ctx context.Context, tenantID uuid.UUID, roleID *uuid.UUID, permission string) (bool, error) {
	if roleID == nil {
		return false, nil
	}

	role, err := s.roleRepo.GetByID(ctx, tenantID, *roleID)
	if err != nil {
		return false, err
	}
	if role == nil || !role.IsActive {
		return false, nil
	}

	for _, p := range role.Permissions {
		if p == "*" || p == permission {
			return true, nil
		}
	}
	return false, nil
}

func (s *rbacService) CustomerScope(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RoleID == nil {
		return nil, nil
	}

	role, err := s.roleRepo.GetByID(ctx, tenantID, *user.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil || !role.Restricted() {
		return nil, nil
	}

	// A restricted role with no assignments sees nothing, so an empty
	// non-nil slice is deliberate here.
	if user.AssignedCustomerIDs == nil {
		return []uuid.UUID{}, nil
	}
	return user.AssignedCustomerIDs, nil
}
