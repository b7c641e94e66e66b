package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"stockbooks/internal/caching"
	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims carries the identity baked into every access token.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	RoleID   string `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int                  `json:"expires_in"`
	User         *models.User         `json:"user"`
	Organization *models.Organization `json:"organization"`
}

// RegisterInput is the self-service signup payload. Registration
// bootstraps the whole tenant: organization, default warehouse, admin
// role and the admin user itself.
type RegisterInput struct {
	OrgName  string
	Name     string
	Mobile   string
	Email    *string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, current, next string) error
}

type authService struct {
	userRepo      repositories.UserRepository
	orgRepo       repositories.OrganizationRepository
	roleRepo      repositories.RoleRepository
	warehouseRepo repositories.WarehouseRepository
	subRepo       repositories.SubscriptionRepository
	cacheSvc      caching.CacheService
	jwtSecret     []byte
	tokenTTL      time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	orgRepo repositories.OrganizationRepository,
	roleRepo repositories.RoleRepository,
	warehouseRepo repositories.WarehouseRepository,
	subRepo repositories.SubscriptionRepository,
	cacheSvc caching.CacheService,
	jwtSecret string,
	tokenTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		orgRepo:       orgRepo,
		roleRepo:      roleRepo,
		warehouseRepo: warehouseRepo,
		subRepo:       subRepo,
		cacheSvc:      cacheSvc,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *authService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	if input.OrgName == "" || input.Name == "" || input.Mobile == "" {
		return nil, fmt.Errorf("organization name, user name and mobile are required")
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if existing, err := s.userRepo.GetByIdentifier(ctx, nil, input.Mobile); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("an account with this mobile already exists")
	}

	slug := slugify(input.OrgName)
	if existing, err := s.orgRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("organization name already taken")
	}

	// New tenants start on the free plan when one is configured.
	productLimit, userLimit := 100, 5
	var planID *uuid.UUID
	if plan, err := s.subRepo.GetPlanBySlug(ctx, "free"); err == nil && plan != nil {
		productLimit = plan.ProductLimit
		userLimit = plan.UserLimit
		planID = &plan.ID
	}

	org := &models.Organization{
		ID:                 uuid.New(),
		Name:               input.OrgName,
		Slug:               slug,
		SubscriptionPlanID: planID,
		ProductLimit:       productLimit,
		UserLimit:          userLimit,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	adminRole := &models.Role{
		ID:          uuid.New(),
		TenantID:    org.ID,
		Name:        "Company Admin",
		RoleType:    models.RoleTypeCompanyAdmin,
		Permissions: []string{"*"},
	}
	if err := s.roleRepo.Create(ctx, adminRole); err != nil {
		return nil, fmt.Errorf("create admin role: %w", err)
	}

	warehouse := &models.Warehouse{
		ID:       uuid.New(),
		TenantID: org.ID,
		Name:     "Main Warehouse",
	}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("create default warehouse: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     org.ID,
		Mobile:       input.Mobile,
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		RoleID:       &adminRole.ID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user, org)
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, nil, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	org, err := s.orgRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if org == nil || !org.IsActive {
		return nil, fmt.Errorf("organization is inactive")
	}

	return s.issueTokens(ctx, user, org)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	key := refreshTokenKey(refreshToken)
	stored, err := s.cacheSvc.GetString(ctx, key)
	if err != nil || stored == "" {
		return nil, fmt.Errorf("invalid refresh token")
	}

	userID, err := uuid.Parse(stored)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	user, err := s.userRepo.GetByIDAnyTenant(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("invalid refresh token")
	}

	org, err := s.orgRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if org == nil || !org.IsActive {
		return nil, fmt.Errorf("organization is inactive")
	}

	// Rotate: the presented token is single-use.
	if err := s.cacheSvc.Delete(ctx, key); err != nil {
		log.Printf("WARN: failed to rotate refresh token: %v", err)
	}

	return s.issueTokens(ctx, user, org)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshTokenKey(refreshToken))
}

func (s *authService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if len(next) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, tenantID, userID, string(hash))
}

func (s *authService) issueTokens(ctx context.Context, user *models.User, org *models.Organization) (*AuthResult, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if user.RoleID != nil {
		claims.RoleID = user.RoleID.String()
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	refreshToken := random.String(64, random.Alphanumeric)
	if err := s.cacheSvc.SetString(ctx, refreshTokenKey(refreshToken), user.ID.String(), s.refreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		User:         user,
		Organization: org,
	}, nil
}

func refreshTokenKey(token string) string {
	return fmt.Sprintf("stockbooks:refresh:%s", token)
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
