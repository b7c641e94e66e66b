package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"stockbooks/internal/common"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type TenantHandlers struct {
	tenantService services.TenantService
	minioService  services.MinioService
	assetBucket   string
}

func NewTenantHandlers(tenantService services.TenantService, minioService services.MinioService, assetBucket string) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService, minioService: minioService, assetBucket: assetBucket}
}

// GetOrganization handles GET /organization
func (h *TenantHandlers) GetOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	org, err := h.tenantService.GetOrganization(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to load organization")
	}
	if org == nil {
		return common.SendNotFoundError(c, "organization")
	}
	return c.JSON(http.StatusOK, org)
}

// UpdateOrganization handles PUT /organization
func (h *TenantHandlers) UpdateOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	org, err := h.tenantService.GetOrganization(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to load organization")
	}
	if org == nil {
		return common.SendNotFoundError(c, "organization")
	}

	var req struct {
		Name         *string `json:"name"`
		BusinessName *string `json:"business_name"`
		GSTIN        *string `json:"gstin"`
		Address      *string `json:"address"`
		State        *string `json:"state"`
		StateCode    *string `json:"state_code"`
		LogoURL      *string `json:"logo_url"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		org.Name = *req.Name
	}
	if req.BusinessName != nil {
		org.BusinessName = req.BusinessName
	}
	if req.GSTIN != nil {
		org.GSTIN = req.GSTIN
	}
	if req.Address != nil {
		org.Address = req.Address
	}
	if req.State != nil {
		org.State = req.State
	}
	if req.StateCode != nil {
		org.StateCode = req.StateCode
	}
	if req.LogoURL != nil {
		org.LogoURL = req.LogoURL
	}

	if err := h.tenantService.UpdateOrganization(ctx, org); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, org)
}

// UploadLogo handles POST /organization/logo. The file lands in object
// storage under a per-tenant key and the stored URL is refreshed.
func (h *TenantHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	org, err := h.tenantService.GetOrganization(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to load organization")
	}
	if org == nil {
		return common.SendNotFoundError(c, "organization")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return common.SendClientError(c, "logo file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "failed to read upload")
	}
	defer src.Close()

	objectName := fmt.Sprintf("logos/%s%s", tenantID, filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.minioService.UploadObject(ctx, h.assetBucket, objectName, src, file.Size, contentType); err != nil {
		return common.SendServerError(c, "failed to store logo")
	}

	url, err := h.minioService.GetPresignedURL(h.assetBucket, objectName, 7*24*time.Hour)
	if err != nil {
		return common.SendServerError(c, "failed to generate logo url")
	}

	org.LogoURL = &url
	if err := h.tenantService.UpdateOrganization(ctx, org); err != nil {
		return common.SendServerError(c, "failed to save logo url")
	}
	return c.JSON(http.StatusOK, map[string]string{"logo_url": url})
}

// DeactivateOrganization handles DELETE /organization. The tenant's data
// is retained; logins stop working.
func (h *TenantHandlers) DeactivateOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.tenantService.DeactivateOrganization(ctx, tenantID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "organization deactivated"})
}
