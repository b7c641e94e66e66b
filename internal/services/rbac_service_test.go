package services

import (
	"context"
	"testing"

	"stockbooks/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type RBACServiceTestSuite struct {
	suite.Suite
	roleRepo *MockRoleRepository
	userRepo *MockUserRepository
	service  RBACService

	tenantID uuid.UUID
	userID   uuid.UUID
	roleID   uuid.UUID
	ctx      context.Context
}

func (suite *RBACServiceTestSuite) SetupTest() {
	suite.roleRepo = &MockRoleRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.service = NewRBACService(suite.roleRepo, suite.userRepo)

	suite.tenantID = uuid.New()
	suite.userID = uuid.New()
	suite.roleID = uuid.New()
	suite.ctx = context.Background()
}

func TestRBACServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RBACServiceTestSuite))
}

func (suite *RBACServiceTestSuite) role(roleType string, permissions []string) *models.Role {
	return &models.Role{
		ID:          suite.roleID,
		TenantID:    suite.tenantID,
		Name:        "Test Role",
		RoleType:    roleType,
		Permissions: permissions,
		IsActive:    true,
	}
}

func (suite *RBACServiceTestSuite) TestHasPermission_Wildcard() {
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).
		Return(suite.role(models.RoleTypeCompanyAdmin, []string{"*"}), nil)

	allowed, err := suite.service.HasPermission(suite.ctx, suite.tenantID, &suite.roleID, "orders:approve")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), allowed)
}

func (suite *RBACServiceTestSuite) TestHasPermission_ExactMatch() {
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).
		Return(suite.role(models.RoleTypeSalesman, []string{"orders:read", "orders:write"}), nil)

	allowed, err := suite.service.HasPermission(suite.ctx, suite.tenantID, &suite.roleID, "orders:write")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), allowed)
}

func (suite *RBACServiceTestSuite) TestHasPermission_MissingPermission() {
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).
		Return(suite.role(models.RoleTypeSalesman, []string{"orders:read"}), nil)

	allowed, err := suite.service.HasPermission(suite.ctx, suite.tenantID, &suite.roleID, "orders:approve")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), allowed)
}

func (suite *RBACServiceTestSuite) TestHasPermission_NoRole() {
	allowed, err := suite.service.HasPermission(suite.ctx, suite.tenantID, nil, "orders:read")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), allowed)
}

func (suite *RBACServiceTestSuite) TestHasPermission_InactiveRole() {
	role := suite.role(models.RoleTypeSalesman, []string{"*"})
	role.IsActive = false
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).Return(role, nil)

	allowed, err := suite.service.HasPermission(suite.ctx, suite.tenantID, &suite.roleID, "orders:read")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), allowed)
}

func (suite *RBACServiceTestSuite) TestCustomerScope_AdminUnrestricted() {
	suite.userRepo.On("GetByID", suite.ctx, suite.tenantID, suite.userID).
		Return(&models.User{ID: suite.userID, TenantID: suite.tenantID, RoleID: &suite.roleID}, nil)
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).
		Return(suite.role(models.RoleTypeCompanyAdmin, []string{"*"}), nil)

	scope, err := suite.service.CustomerScope(suite.ctx, suite.tenantID, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), scope)
}

func (suite *RBACServiceTestSuite) TestCustomerScope_SalesmanGetsAssignments() {
	assigned := []uuid.UUID{uuid.New(), uuid.New()}
	suite.userRepo.On("GetByID", suite.ctx, suite.tenantID, suite.userID).
		Return(&models.User{ID: suite.userID, TenantID: suite.tenantID, RoleID: &suite.roleID, AssignedCustomerIDs: assigned}, nil)
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).
		Return(suite.role(models.RoleTypeSalesman, []string{"orders:read"}), nil)

	scope, err := suite.service.CustomerScope(suite.ctx, suite.tenantID, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), assigned, scope)
}

func (suite *RBACServiceTestSuite) TestCustomerScope_RestrictedWithoutAssignmentsSeesNothing() {
	suite.userRepo.On("GetByID", suite.ctx, suite.tenantID, suite.userID).
		Return(&models.User{ID: suite.userID, TenantID: suite.tenantID, RoleID: &suite.roleID}, nil)
	suite.roleRepo.On("GetByID", suite.ctx, suite.tenantID, suite.roleID).
		Return(suite.role(models.RoleTypeB2BCustomer, nil), nil)

	scope, err := suite.service.CustomerScope(suite.ctx, suite.tenantID, suite.userID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), scope)
	assert.Empty(suite.T(), scope)
}

func (suite *RBACServiceTestSuite) TestCustomerScope_UserWithoutRoleUnrestricted() {
	suite.userRepo.On("GetByID", suite.ctx, suite.tenantID, suite.userID).
		Return(&models.User{ID: suite.userID, TenantID: suite.tenantID}, nil)

	scope, err := suite.service.CustomerScope(suite.ctx, suite.tenantID, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), scope)
}
