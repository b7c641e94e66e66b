package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"stockbooks/internal/common"
	"stockbooks/internal/models"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type CustomerHandlers struct {
	customerService services.CustomerService
	rbacService     services.RBACService
	minioService    services.MinioService
	assetBucket     string
}

func NewCustomerHandlers(customerService services.CustomerService, rbacService services.RBACService, minioService services.MinioService, assetBucket string) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService, rbacService: rbacService, minioService: minioService, assetBucket: assetBucket}
}

// CreateCustomer handles POST /sales/customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
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

	customer := &models.Customer{
		TenantID: tenantID,
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		GSTIN:    req.GSTIN,
		Address:  req.Address,
	}
	if err := h.customerService.CreateCustomer(ctx, customer); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, customer)
}

// ListCustomers handles GET /sales/customers. Restricted roles only see their
// assigned customers.
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	scope, err := h.rbacService.CustomerScope(ctx, tenantID, userID)
	if err != nil {
		return common.SendServerError(c, "failed to resolve customer scope")
	}

	customers, err := h.customerService.ListCustomers(ctx, tenantID, scope)
	if err != nil {
		return common.SendServerError(c, "failed to list customers")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"customers": customers})
}

// GetCustomer handles GET /sales/customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer, err := h.customerService.GetCustomer(ctx, tenantID, customerID)
	if err != nil {
		return common.SendServerError(c, "failed to load customer")
	}
	if customer == nil {
		return common.SendNotFoundError(c, "customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /sales/customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer, err := h.customerService.GetCustomer(ctx, tenantID, customerID)
	if err != nil {
		return common.SendServerError(c, "failed to load customer")
	}
	if customer == nil {
		return common.SendNotFoundError(c, "customer")
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
		customer.Name = *req.Name
	}
	if req.Mobile != nil {
		customer.Mobile = req.Mobile
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.GSTIN != nil {
		customer.GSTIN = req.GSTIN
	}
	if req.Address != nil {
		customer.Address = req.Address
	}

	if err := h.customerService.UpdateCustomer(ctx, customer); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, customer)
}

// UploadAvatar handles POST /sales/customers/:id/avatar. Works like the
// org logo upload: the file goes to object storage and the customer's
// avatar URL is refreshed.
func (h *CustomerHandlers) UploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer, err := h.customerService.GetCustomer(ctx, tenantID, customerID)
	if err != nil {
		return common.SendServerError(c, "failed to load customer")
	}
	if customer == nil {
		return common.SendNotFoundError(c, "customer")
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

	objectName := fmt.Sprintf("avatars/customers/%s%s", customerID, filepath.Ext(file.Filename))
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

	customer.AvatarURL = &url
	if err := h.customerService.UpdateCustomer(ctx, customer); err != nil {
		return common.SendServerError(c, "failed to save avatar url")
	}
	return c.JSON(http.StatusOK, map[string]string{"avatar_url": url})
}

// DeleteCustomer handles DELETE /sales/customers/:id
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.customerService.DeleteCustomer(ctx, tenantID, customerID); err != nil {
		return common.SendServerError(c, "failed to delete customer")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "customer deleted"})
}
