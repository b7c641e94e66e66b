package handlers

import (
	"net/http"

	"stockbooks/internal/analytics"
	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type ReportHandlers struct {
	analyticsService *analytics.Service
	auditLogService  services.AuditLogService
}

func NewReportHandlers(analyticsService *analytics.Service, auditLogService services.AuditLogService) *ReportHandlers {
	return &ReportHandlers{analyticsService: analyticsService, auditLogService: auditLogService}
}

// Dashboard handles GET /reports/dashboard
func (h *ReportHandlers) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	dashboard, err := h.analyticsService.Dashboard(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to build dashboard")
	}
	return c.JSON(http.StatusOK, dashboard)
}

// SalesmanReport handles GET /reports/salesmen
func (h *ReportHandlers) SalesmanReport(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	report, err := h.analyticsService.SalesmanReport(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to build salesman report")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"salesmen": report})
}

// ListAuditLogs handles GET /audit-logs
func (h *ReportHandlers) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	logs, err := h.auditLogService.List(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list audit logs")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}
