package handlers

import (
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandlers(subscriptionService services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptionService: subscriptionService}
}

// ListPlans handles GET /subscription/plans
func (h *SubscriptionHandlers) ListPlans(c echo.Context) error {
	plans, err := h.subscriptionService.ListPlans(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "failed to list plans")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plans": plans})
}

// ChangePlan handles PUT /subscription. Downgrades below the current
// catalog or team size are refused.
func (h *SubscriptionHandlers) ChangePlan(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		PlanSlug string `json:"plan_slug"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if req.PlanSlug == "" {
		return common.SendClientError(c, "plan_slug is required")
	}

	org, err := h.subscriptionService.ChangePlan(ctx, tenantID, req.PlanSlug)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, org)
}
