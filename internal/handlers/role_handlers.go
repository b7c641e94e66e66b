package handlers

import (
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/models"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type RoleHandlers struct {
	roleService services.RoleService
}

func NewRoleHandlers(roleService services.RoleService) *RoleHandlers {
	return &RoleHandlers{roleService: roleService}
}

// CreateRole handles POST /roles
func (h *RoleHandlers) CreateRole(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name        string   `json:"name"`
		RoleType    string   `json:"role_type"`
		Permissions []string `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	role := &models.Role{
		TenantID:    tenantID,
		Name:        req.Name,
		RoleType:    req.RoleType,
		Permissions: req.Permissions,
		IsActive:    true,
	}
	if err := h.roleService.CreateRole(ctx, role); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, role)
}

// ListRoles handles GET /roles
func (h *RoleHandlers) ListRoles(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	roles, err := h.roleService.ListRoles(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to list roles")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"roles": roles})
}

// GetRole handles GET /roles/:id
func (h *RoleHandlers) GetRole(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	roleID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	role, err := h.roleService.GetRole(ctx, tenantID, roleID)
	if err != nil {
		return common.SendServerError(c, "failed to load role")
	}
	if role == nil {
		return common.SendNotFoundError(c, "role")
	}
	return c.JSON(http.StatusOK, role)
}

// UpdateRole handles PUT /roles/:id
func (h *RoleHandlers) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	roleID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	role, err := h.roleService.GetRole(ctx, tenantID, roleID)
	if err != nil {
		return common.SendServerError(c, "failed to load role")
	}
	if role == nil {
		return common.SendNotFoundError(c, "role")
	}

	var req struct {
		Name        *string  `json:"name"`
		RoleType    *string  `json:"role_type"`
		Permissions []string `json:"permissions"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		role.Name = *req.Name
	}
	if req.RoleType != nil && *req.RoleType != "" {
		role.RoleType = *req.RoleType
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}

	if err := h.roleService.UpdateRole(ctx, role); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /roles/:id
func (h *RoleHandlers) DeleteRole(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	roleID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.roleService.DeleteRole(ctx, tenantID, roleID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role deleted"})
}
