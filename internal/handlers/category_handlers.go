package handlers

import (
	"net/http"

	"stockbooks/internal/common"
	"stockbooks/internal/models"
	"stockbooks/internal/services"

	"github.com/labstack/echo/v4"
)

type CategoryHandlers struct {
	categoryService services.CategoryService
}

func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	category := &models.Category{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.categoryService.CreateCategory(ctx, category); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, category)
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categories, err := h.categoryService.ListCategories(ctx, tenantID)
	if err != nil {
		return common.SendServerError(c, "failed to list categories")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categoryID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	category, err := h.categoryService.GetCategory(ctx, tenantID, categoryID)
	if err != nil {
		return common.SendServerError(c, "failed to load category")
	}
	if category == nil {
		return common.SendNotFoundError(c, "category")
	}
	return c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categoryID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	category, err := h.categoryService.GetCategory(ctx, tenantID, categoryID)
	if err != nil {
		return common.SendServerError(c, "failed to load category")
	}
	if category == nil {
		return common.SendNotFoundError(c, "category")
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}

	if req.Name != nil && *req.Name != "" {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	if err := h.categoryService.UpdateCategory(ctx, category); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categoryID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.categoryService.DeleteCategory(ctx, tenantID, categoryID); err != nil {
		return common.SendServerError(c, "failed to delete category")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "category deleted"})
}
