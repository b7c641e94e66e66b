package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"stockbooks/internal/common"
	"stockbooks/internal/repositories"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type OrderHandlers struct {
	orderService  services.OrderService
	exportService services.ExportService
}

func NewOrderHandlers(orderService services.OrderService, exportService services.ExportService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService, exportService: exportService}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
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
		CustomerID string `json:"customer_id"`
		OrderDate  string `json:"order_date"`
		Lines      []struct {
			ItemID   string   `json:"item_id"`
			Quantity int      `json:"quantity"`
			Rate     *float64 `json:"rate"`
		} `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	input := &services.CreateOrderInput{CustomerID: customerID}
	if req.OrderDate != "" {
		if err := common.ValidateDateFormat(req.OrderDate, "order_date"); err != nil {
			return common.SendClientError(c, err.Error())
		}
		input.OrderDate, _ = time.Parse("2006-01-02", req.OrderDate)
	}
	for i, line := range req.Lines {
		itemID, err := common.ValidateUUID(line.ItemID, fmt.Sprintf("lines[%d].item_id", i))
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		input.Lines = append(input.Lines, services.OrderLineInput{ItemID: itemID, Quantity: line.Quantity, Rate: line.Rate})
	}

	order, err := h.orderService.CreateOrder(ctx, tenantID, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrCustomerOutOfScope) {
			return common.SendForbiddenError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	orders, err := h.orderService.ListOrders(ctx, tenantID, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list orders")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetOrder(ctx, tenantID, userID, orderID)
	if err != nil {
		return common.SendServerError(c, "failed to load order")
	}
	if order == nil {
		return common.SendNotFoundError(c, "order")
	}
	return c.JSON(http.StatusOK, order)
}

// ApproveOrder handles POST /orders/:id/approve. On success the generated
// invoice is returned; retrying an already approved order is a conflict.
func (h *OrderHandlers) ApproveOrder(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.orderService.ApproveOrder(ctx, tenantID, orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyInvoiced):
			return common.SendConflictError(c, err.Error())
		case errors.Is(err, repositories.ErrInsufficientStock):
			return common.SendConflictError(c, err.Error())
		default:
			return common.SendClientError(c, err.Error())
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "order approved",
		"invoice": invoice,
	})
}

// RejectOrder handles POST /orders/:id/reject
func (h *OrderHandlers) RejectOrder(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.orderService.RejectOrder(ctx, tenantID, orderID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "order rejected"})
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.orderService.DeleteOrder(ctx, tenantID, orderID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "order deleted"})
}

// ExportOrders handles GET /orders/export
func (h *OrderHandlers) ExportOrders(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	data, err := h.exportService.ExportOrders(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to export orders")
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
