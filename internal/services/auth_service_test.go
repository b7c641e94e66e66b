package services

import (
	"context"
	"testing"
	"time"

	"stockbooks/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-test-secret-12345678"

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo      *MockUserRepository
	orgRepo       *MockOrganizationRepository
	roleRepo      *MockRoleRepository
	warehouseRepo *MockWarehouseRepository
	subRepo       *MockSubscriptionRepository
	cacheSvc      *MockCacheService
	service       AuthService
	ctx           context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = &MockUserRepository{}
	suite.orgRepo = &MockOrganizationRepository{}
	suite.roleRepo = &MockRoleRepository{}
	suite.warehouseRepo = &MockWarehouseRepository{}
	suite.subRepo = &MockSubscriptionRepository{}
	suite.cacheSvc = &MockCacheService{}

	suite.service = NewAuthService(
		suite.userRepo, suite.orgRepo, suite.roleRepo, suite.warehouseRepo,
		suite.subRepo, suite.cacheSvc, testJWTSecret, 15*time.Minute, 30*24*time.Hour,
	)
	suite.ctx = context.Background()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func hashPassword(t assert.TestingT, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func (suite *AuthServiceTestSuite) activeUserAndOrg(password string) (*models.User, *models.Organization) {
	orgID := uuid.New()
	roleID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     orgID,
		Name:         "Priya",
		Mobile:       "9876543210",
		PasswordHash: hashPassword(suite.T(), password),
		RoleID:       &roleID,
		IsActive:     true,
	}
	org := &models.Organization{ID: orgID, Name: "Acme Spares", Slug: "acme-spares", IsActive: true}
	return user, org
}

func (suite *AuthServiceTestSuite) TestRegister_BootstrapsTenant() {
	suite.userRepo.On("GetByIdentifier", suite.ctx, (*uuid.UUID)(nil), "9876543210").Return(nil, nil)
	suite.orgRepo.On("GetBySlug", suite.ctx, "acme-spares").Return(nil, nil)
	suite.subRepo.On("GetPlanBySlug", suite.ctx, "free").Return(&models.SubscriptionPlan{
		ID: uuid.New(), Slug: "free", ProductLimit: 100, UserLimit: 5,
	}, nil)
	suite.orgRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Organization")).Return(nil)
	suite.roleRepo.On("Create", suite.ctx, mock.MatchedBy(func(r *models.Role) bool {
		return r.RoleType == models.RoleTypeCompanyAdmin && len(r.Permissions) == 1 && r.Permissions[0] == "*"
	})).Return(nil)
	suite.warehouseRepo.On("Create", suite.ctx, mock.MatchedBy(func(w *models.Warehouse) bool {
		return w.Name == "Main Warehouse"
	})).Return(nil)
	suite.userRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.User")).Return(nil)
	suite.cacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), 30*24*time.Hour).Return(nil)

	result, err := suite.service.Register(suite.ctx, &RegisterInput{
		OrgName:  "Acme Spares",
		Name:     "Priya",
		Mobile:   "9876543210",
		Password: "s3cret-pass",
	})

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), result.AccessToken)
	assert.NotEmpty(suite.T(), result.RefreshToken)
	assert.Equal(suite.T(), "acme-spares", result.Organization.Slug)

	// The access token must carry user and tenant identity.
	claims := &TokenClaims{}
	_, err = jwt.ParseWithClaims(result.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), result.User.ID.String(), claims.UserID)
	assert.Equal(suite.T(), result.Organization.ID.String(), claims.TenantID)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateMobile() {
	existing := &models.User{ID: uuid.New(), Mobile: "9876543210"}
	suite.userRepo.On("GetByIdentifier", suite.ctx, (*uuid.UUID)(nil), "9876543210").Return(existing, nil)

	_, err := suite.service.Register(suite.ctx, &RegisterInput{
		OrgName:  "Acme Spares",
		Name:     "Priya",
		Mobile:   "9876543210",
		Password: "s3cret-pass",
	})
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already exists")
	suite.orgRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestRegister_ShortPassword() {
	_, err := suite.service.Register(suite.ctx, &RegisterInput{
		OrgName:  "Acme Spares",
		Name:     "Priya",
		Mobile:   "9876543210",
		Password: "short",
	})
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	user, org := suite.activeUserAndOrg("s3cret-pass")

	suite.userRepo.On("GetByIdentifier", suite.ctx, (*uuid.UUID)(nil), user.Mobile).Return(user, nil)
	suite.orgRepo.On("GetByID", suite.ctx, org.ID).Return(org, nil)
	suite.cacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), user.ID.String(), 30*24*time.Hour).Return(nil)

	result, err := suite.service.Login(suite.ctx, user.Mobile, "s3cret-pass")
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), result.AccessToken)
	assert.Equal(suite.T(), user.ID, result.User.ID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	user, _ := suite.activeUserAndOrg("s3cret-pass")
	suite.userRepo.On("GetByIdentifier", suite.ctx, (*uuid.UUID)(nil), user.Mobile).Return(user, nil)

	_, err := suite.service.Login(suite.ctx, user.Mobile, "wrong-pass")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid credentials")
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveOrganization() {
	user, org := suite.activeUserAndOrg("s3cret-pass")
	org.IsActive = false

	suite.userRepo.On("GetByIdentifier", suite.ctx, (*uuid.UUID)(nil), user.Mobile).Return(user, nil)
	suite.orgRepo.On("GetByID", suite.ctx, org.ID).Return(org, nil)

	_, err := suite.service.Login(suite.ctx, user.Mobile, "s3cret-pass")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "inactive")
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	user, org := suite.activeUserAndOrg("s3cret-pass")
	token := "old-refresh-token"
	key := refreshTokenKey(token)

	suite.cacheSvc.On("GetString", suite.ctx, key).Return(user.ID.String(), nil)
	suite.userRepo.On("GetByIDAnyTenant", suite.ctx, user.ID).Return(user, nil)
	suite.orgRepo.On("GetByID", suite.ctx, org.ID).Return(org, nil)
	suite.cacheSvc.On("Delete", suite.ctx, key).Return(nil)
	suite.cacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), user.ID.String(), 30*24*time.Hour).Return(nil)

	result, err := suite.service.Refresh(suite.ctx, token)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), token, result.RefreshToken)
	suite.cacheSvc.AssertCalled(suite.T(), "Delete", suite.ctx, key)
}

func (suite *AuthServiceTestSuite) TestRefresh_UnknownToken() {
	suite.cacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return("", nil)

	_, err := suite.service.Refresh(suite.ctx, "bogus")
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestChangePassword_WrongCurrent() {
	user, _ := suite.activeUserAndOrg("s3cret-pass")
	suite.userRepo.On("GetByID", suite.ctx, user.TenantID, user.ID).Return(user, nil)

	err := suite.service.ChangePassword(suite.ctx, user.TenantID, user.ID, "wrong", "new-password-1")
	assert.Error(suite.T(), err)
	suite.userRepo.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
