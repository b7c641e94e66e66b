package handlers

import (
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/models"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type SupplierHandlers struct {
	supplierService services.SupplierService
}

func NewSupplierHandlers(supplierService services.SupplierService) *SupplierHandlers {
	return &SupplierHandlers{supplierService: supplierService}
}

// CreateSupplier handles POST /suppliers
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name    string  `json:"name"`
		Mobile  *string `json:"mobile"`
		Email   *string `json:"email"`
		GSTIN   *string `json:"gstin"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	supplier := &models.Supplier{
		TenantID: tenantID,
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		GSTIN:    req.GSTIN,
		Address:  req.Address,
	}
	if err := h.supplierService.CreateSupplier(ctx, supplier); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, supplier)
}

// ListSuppliers handles GET /suppliers
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := pagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	suppliers, err := h.supplierService.ListSuppliers(ctx, tenantID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "failed to list suppliers")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetSupplier handles GET /suppliers/:id
func (h *SupplierHandlers) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	supplierID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	supplier, err := h.supplierService.GetSupplier(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendServerError(c, "failed to load supplier")
	}
	if supplier == nil {
		return common.SendNotFoundError(c, "supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier handles PUT /suppliers/:id
func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	supplierID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	supplier, err := h.supplierService.GetSupplier(ctx, tenantID, supplierID)
	if err != nil {
		return common.SendServerError(c, "failed to load supplier")
	}
	if supplier == nil {
		return common.SendNotFoundError(c, "supplier")
	}

	var req struct {
		Name    *string `json:"name"`
		Mobile  *string `json:"mobile"`
		Email   *string `json:"email"`
		GSTIN   *string `json:"gstin"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		supplier.Name = *req.Name
	}
	if req.Mobile != nil {
		supplier.Mobile = req.Mobile
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.GSTIN != nil {
		supplier.GSTIN = req.GSTIN
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}

	if err := h.supplierService.UpdateSupplier(ctx, supplier); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles DELETE /suppliers/:id
func (h *SupplierHandlers) DeleteSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	supplierID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.supplierService.DeleteSupplier(ctx, tenantID, supplierID); err != nil {
		return common.SendServerError(c, "failed to delete supplier")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "supplier deleted"})
}
