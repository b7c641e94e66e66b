package handlers

import (
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TeamHandlers struct {
	teamService services.TeamService
}

func NewTeamHandlers(teamService services.TeamService) *TeamHandlers {
	return &TeamHandlers{teamService: teamService}
}

// CreateMember handles POST /team-members
func (h *TeamHandlers) CreateMember(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name                string   `json:"name"`
		Mobile              string   `json:"mobile"`
		Email               *string  `json:"email"`
		Password            string   `json:"password"`
		RoleID              *string  `json:"role_id"`
		AssignedCustomerIDs []string `json:"assigned_customer_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	input := &services.CreateMemberInput{
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.RoleID != nil && *req.RoleID != "" {
		roleID, err := common.ValidateUUID(*req.RoleID, "role_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		input.RoleID = &roleID
	}
	for _, idStr := range req.AssignedCustomerIDs {
		id, err := common.ValidateUUID(idStr, "assigned_customer_ids")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		input.AssignedCustomerIDs = append(input.AssignedCustomerIDs, id)
	}

	user, err := h.teamService.CreateMember(ctx, tenantID, input)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// ListMembers handles GET /team-members
func (h *TeamHandlers) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	users, err := h.teamService.ListMembers(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list team members")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": users,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetMember handles GET /team-members/:id
func (h *TeamHandlers) GetMember(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	user, err := h.teamService.GetMember(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to load team member")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMember handles PUT /team-members/:id
func (h *TeamHandlers) UpdateMember(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	user, err := h.teamService.GetMember(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to load team member")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}

	var req struct {
		Name     *string `json:"name"`
		Mobile   *string `json:"mobile"`
		Email    *string `json:"email"`
		RoleID   *string `json:"role_id"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Mobile != nil && *req.Mobile != "" {
		user.Mobile = *req.Mobile
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.RoleID != nil {
		if *req.RoleID == "" {
			user.RoleID = nil
		} else {
			roleID, err := common.ValidateUUID(*req.RoleID, "role_id")
			if err != nil {
				return common.SendClientError(c, err.Error())
			}
			user.RoleID = &roleID
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.teamService.UpdateMember(ctx, tenantID, user); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// AssignCustomers handles PUT /team-members/:id/customers
func (h *TeamHandlers) AssignCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		CustomerIDs []string `json:"customer_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	customerIDs := make([]uuid.UUID, 0, len(req.CustomerIDs))
	for _, idStr := range req.CustomerIDs {
		id, err := common.ValidateUUID(idStr, "customer_ids")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		customerIDs = append(customerIDs, id)
	}

	if err := h.teamService.AssignCustomers(ctx, tenantID, userID, customerIDs); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "customers assigned"})
}

// RemoveMember handles DELETE /team-members/:id
func (h *TeamHandlers) RemoveMember(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	userID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	callerID, _ := common.GetUserIDFromContext(ctx)
	if callerID == userID {
		return common.SendClientError(c, "you cannot remove your own account")
	}

	if err := h.teamService.RemoveMember(ctx, tenantID, userID); err != nil {
		return common.SendServerError(c, "failed to remove team member")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "member removed"})
}
