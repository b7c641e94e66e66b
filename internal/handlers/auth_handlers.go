package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService  services.AuthService
	teamService  services.TeamService
	minioService services.MinioService
	assetBucket  string
}

func NewAuthHandlers(authService services.AuthService, teamService services.TeamService, minioService services.MinioService, assetBucket string) *AuthHandlers {
	return &AuthHandlers{authService: authService, teamService: teamService, minioService: minioService, assetBucket: assetBucket}
}

// Register handles POST /auth/register. Signup bootstraps a whole new
// organization with its default warehouse and admin role.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req struct {
		OrgName  string  `json:"org_name"`
		Name     string  `json:"name"`
		Mobile   string  `json:"mobile"`
		Email    *string `json:"email"`
		Password string  `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	result, err := h.authService.Register(c.Request().Context(), &services.RegisterInput{
		OrgName:  strings.TrimSpace(req.OrgName),
		Name:     strings.TrimSpace(req.Name),
		Mobile:   strings.TrimSpace(req.Mobile),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, result)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if req.Identifier == "" || req.Password == "" {
		return common.SendClientError(c, "identifier and password are required")
	}

	result, err := h.authService.Login(c.Request().Context(), strings.TrimSpace(req.Identifier), req.Password)
	if err != nil {
		log.Printf("login failed for %s: %v", req.Identifier, err)
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "refresh_token is required")
	}

	result, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "refresh_token is required")
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "logout failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /me/password
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if err := h.authService.ChangePassword(ctx, tenantID, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.teamService.GetMember(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to load user")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /me. Only the caller's own profile fields are
// editable here; role and customer assignments go through the team
// endpoints.
func (h *AuthHandlers) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.teamService.GetMember(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to load user")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}

	if err := h.teamService.UpdateMember(ctx, tenantID, user); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar handles POST /me/avatar. The file lands in object storage
// under a per-user key and the stored URL is refreshed.
func (h *AuthHandlers) UploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.teamService.GetMember(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to load user")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return common.SendClientError(c, "avatar file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "failed to read upload")
	}
	defer src.Close()

	objectName := fmt.Sprintf("avatars/users/%s%s", userID, filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.minioService.UploadObject(ctx, h.assetBucket, objectName, src, file.Size, contentType); err != nil {
		return common.SendServerError(c, "failed to store avatar")
	}

	url, err := h.minioService.GetPresignedURL(h.assetBucket, objectName, 7*24*time.Hour)
	if err != nil {
		return common.SendServerError(c, "failed to generate avatar url")
	}

	user.AvatarURL = &url
	if err := h.teamService.UpdateMember(ctx, tenantID, user); err != nil {
		return common.SendServerError(c, "failed to save avatar url")
	}
	return c.JSON(http.StatusOK, map[string]string{"avatar_url": url})
}
