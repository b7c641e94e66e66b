package handlers

import (
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/models"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type WarehouseHandlers struct {
	warehouseService services.WarehouseService
}

func NewWarehouseHandlers(warehouseService services.WarehouseService) *WarehouseHandlers {
	return &WarehouseHandlers{warehouseService: warehouseService}
}

// CreateWarehouse handles POST /warehouses
func (h *WarehouseHandlers) CreateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name    string  `json:"name"`
		Code    string  `json:"code"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	warehouse := &models.Warehouse{
		TenantID: tenantID,
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
	}
	if err := h.warehouseService.CreateWarehouse(ctx, warehouse); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, warehouse)
}

// ListWarehouses handles GET /warehouses
func (h *WarehouseHandlers) ListWarehouses(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	warehouses, err := h.warehouseService.ListWarehouses(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to list warehouses")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"warehouses": warehouses})
}

// GetWarehouse handles GET /warehouses/:id
func (h *WarehouseHandlers) GetWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	warehouseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	warehouse, err := h.warehouseService.GetWarehouse(ctx, tenantID, warehouseID)
	if err != nil {
		return common.SendServerError(c, "failed to load warehouse")
	}
	if warehouse == nil {
		return common.SendNotFoundError(c, "warehouse")
	}
	return c.JSON(http.StatusOK, warehouse)
}

// UpdateWarehouse handles PUT /warehouses/:id
func (h *WarehouseHandlers) UpdateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	warehouseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	warehouse, err := h.warehouseService.GetWarehouse(ctx, tenantID, warehouseID)
	if err != nil {
		return common.SendServerError(c, "failed to load warehouse")
	}
	if warehouse == nil {
		return common.SendNotFoundError(c, "warehouse")
	}

	var req struct {
		Name    *string `json:"name"`
		Code    *string `json:"code"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		warehouse.Name = *req.Name
	}
	if req.Code != nil {
		warehouse.Code = *req.Code
	}
	if req.Address != nil {
		warehouse.Address = req.Address
	}

	if err := h.warehouseService.UpdateWarehouse(ctx, warehouse); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, warehouse)
}

// DeleteWarehouse handles DELETE /warehouses/:id
func (h *WarehouseHandlers) DeleteWarehouse(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	warehouseID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.warehouseService.DeleteWarehouse(ctx, tenantID, warehouseID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "warehouse deleted"})
}
