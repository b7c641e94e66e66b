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

type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	exportService  services.ExportService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, exportService services.ExportService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService, exportService: exportService}
}

// CreateInvoice handles POST /sales/invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		CustomerID string   `json:"customer_id"`
		DueDate    string   `json:"due_date"`
		GSTType    string   `json:"gst_type"`
		GSTRate    *float64 `json:"gst_rate"`
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

	input := &services.CreateInvoiceInput{
		CustomerID: customerID,
		GSTType:    req.GSTType,
		GSTRate:    req.GSTRate,
	}
	if req.DueDate != "" {
		if err := common.ValidateDateFormat(req.DueDate, "due_date"); err != nil {
			return common.SendClientError(c, err.Error())
		}
		due, _ := time.Parse("2006-01-02", req.DueDate)
		input.DueDate = &due
	}
	for i, line := range req.Lines {
		itemID, err := common.ValidateUUID(line.ItemID, fmt.Sprintf("lines[%d].item_id", i))
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		input.Lines = append(input.Lines, services.OrderLineInput{ItemID: itemID, Quantity: line.Quantity, Rate: line.Rate})
	}

	invoice, err := h.invoiceService.CreateInvoice(ctx, tenantID, input)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoices handles GET /sales/invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
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

	invoices, err := h.invoiceService.ListInvoices(ctx, tenantID, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list invoices")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetInvoice handles GET /sales/invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetInvoice(ctx, tenantID, userID, invoiceID)
	if err != nil {
		return common.SendServerError(c, "failed to load invoice")
	}
	if invoice == nil {
		return common.SendNotFoundError(c, "invoice")
	}
	return c.JSON(http.StatusOK, invoice)
}

// MarkPaid handles PUT /sales/invoices/:id/paid
func (h *InvoiceHandlers) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.MarkPaid(ctx, tenantID, invoiceID, userID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "invoice marked paid"})
}

// InvoicePDF handles GET /sales/invoices/:id/pdf. Responds with a short-lived
// download URL rather than streaming the object.
func (h *InvoiceHandlers) InvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	url, err := h.invoiceService.InvoicePDFURL(ctx, tenantID, userID, invoiceID)
	if err != nil {
		return common.SendServerError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// ExportInvoices handles GET /sales/invoices/export
func (h *InvoiceHandlers) ExportInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	data, err := h.exportService.ExportInvoices(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to export invoices")
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
