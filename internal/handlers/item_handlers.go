package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stockbooks/internal/common"
	"stockbooks/internal/models"
	"stockbooks/internal/repositories"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type ItemHandlers struct {
	itemService   services.ItemService
	ledgerService services.LedgerService
}

func NewItemHandlers(itemService services.ItemService, ledgerService services.LedgerService) *ItemHandlers {
	return &ItemHandlers{itemService: itemService, ledgerService: ledgerService}
}

// CreateItem handles POST /items
func (h *ItemHandlers) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name         string   `json:"name"`
		SKU          *string  `json:"sku"`
		CategoryID   *string  `json:"category_id"`
		Description  *string  `json:"description"`
		Unit         string   `json:"unit"`
		Price        float64  `json:"price"`
		GSTRate      *float64 `json:"gst_rate"`
		HSNCode      *string  `json:"hsn_code"`
		ReorderLevel int      `json:"reorder_level"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	item := &models.Item{
		TenantID:     tenantID,
		Name:         req.Name,
		Description:  req.Description,
		Unit:         req.Unit,
		Price:        req.Price,
		HSNCode:      req.HSNCode,
		ReorderLevel: req.ReorderLevel,
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.GSTRate != nil {
		item.GSTRate = *req.GSTRate
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := common.ValidateUUID(*req.CategoryID, "category_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		item.CategoryID = &categoryID
	}

	if err := h.itemService.CreateItem(ctx, item); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

// SearchItems handles GET /items
func (h *ItemHandlers) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	filter := &models.ItemSearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Limit:     limit,
		Offset:    offset,
	}
	if v := c.QueryParam("category_id"); v != "" {
		categoryID, err := common.ValidateUUID(v, "category_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		filter.CategoryID = &categoryID
	}
	if v := c.QueryParam("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}

	items, err := h.itemService.SearchItems(ctx, tenantID, filter)
	if err != nil {
		return common.SendServerError(c, "failed to search items")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetItem handles GET /items/:id
func (h *ItemHandlers) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	item, err := h.itemService.GetItem(ctx, tenantID, itemID)
	if err != nil {
		return common.SendServerError(c, "failed to load item")
	}
	if item == nil {
		return common.SendNotFoundError(c, "item")
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /items/:id
func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	item, err := h.itemService.GetItem(ctx, tenantID, itemID)
	if err != nil {
		return common.SendServerError(c, "failed to load item")
	}
	if item == nil {
		return common.SendNotFoundError(c, "item")
	}

	var req struct {
		Name         *string  `json:"name"`
		CategoryID   *string  `json:"category_id"`
		Description  *string  `json:"description"`
		Unit         *string  `json:"unit"`
		Price        *float64 `json:"price"`
		GSTRate      *float64 `json:"gst_rate"`
		HSNCode      *string  `json:"hsn_code"`
		ReorderLevel *int     `json:"reorder_level"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		item.Name = *req.Name
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			item.CategoryID = nil
		} else {
			categoryID, err := common.ValidateUUID(*req.CategoryID, "category_id")
			if err != nil {
				return common.SendClientError(c, err.Error())
			}
			item.CategoryID = &categoryID
		}
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Unit != nil && *req.Unit != "" {
		item.Unit = *req.Unit
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.GSTRate != nil {
		item.GSTRate = *req.GSTRate
	}
	if req.HSNCode != nil {
		item.HSNCode = req.HSNCode
	}
	if req.ReorderLevel != nil {
		item.ReorderLevel = *req.ReorderLevel
	}

	if err := h.itemService.UpdateItem(ctx, item); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /items/:id
func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.itemService.DeleteItem(ctx, tenantID, itemID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item deleted"})
}

// LowStockItems handles GET /items/low-stock
func (h *ItemHandlers) LowStockItems(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	items, err := h.itemService.LowStockItems(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to load low stock items")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

// RecordStockMovement handles POST /items/:id/stock. The direction field
// selects add, reduce or adjust; reductions are refused rather than
// letting stock go negative.
func (h *ItemHandlers) RecordStockMovement(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Direction   string  `json:"direction"`
		Quantity    int     `json:"quantity"`
		WarehouseID *string `json:"warehouse_id"`
		Notes       *string `json:"notes"`
		BatchNumber *string `json:"batch_number"`
		ExpiryDate  *string `json:"expiry_date"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	input := &services.StockMovementInput{
		ItemID:      itemID,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		BatchNumber: req.BatchNumber,
	}
	if req.WarehouseID != nil && *req.WarehouseID != "" {
		warehouseID, err := common.ValidateUUID(*req.WarehouseID, "warehouse_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		input.WarehouseID = &warehouseID
	}
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		if err := common.ValidateDateFormat(*req.ExpiryDate, "expiry_date"); err != nil {
			return common.SendClientError(c, err.Error())
		}
		t, _ := time.Parse("2006-01-02", *req.ExpiryDate)
		input.ExpiryDate = &t
	}

	var entry *models.LedgerEntry
	switch req.Direction {
	case "in", "":
		entry, err = h.ledgerService.AddStock(ctx, tenantID, input)
	case "out":
		entry, err = h.ledgerService.ReduceStock(ctx, tenantID, input)
	case "adjust":
		entry, err = h.ledgerService.AdjustStock(ctx, tenantID, input)
	default:
		return common.SendClientError(c, "direction must be one of in, out, adjust")
	}
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, entry)
}

// GetStock handles GET /items/:id/stock
func (h *ItemHandlers) GetStock(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	warehouseID, err := common.ValidateUUID(c.QueryParam("warehouse_id"), "warehouse_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	stock, err := h.ledgerService.GetStock(ctx, tenantID, warehouseID, itemID)
	if err != nil {
		return common.SendServerError(c, "failed to load stock")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_id":      itemID,
		"warehouse_id": warehouseID,
		"stock":        stock,
	})
}

// GetItemLedger handles GET /items/:id/ledger
func (h *ItemHandlers) GetItemLedger(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	itemID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	entries, err := h.ledgerService.ItemLedger(ctx, tenantID, itemID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to load ledger")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}
