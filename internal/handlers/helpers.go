package handlers

import (
	"strconv"

	"stockbooks/internal/common"

	"github.com/labstack/echo/v4"
)

// pagination reads limit/offset query params with the shared clamps.
func pagination(c echo.Context) (int, int, error) {
	limit := 50
	offset := 0

	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return common.ValidatePaginationParams(limit, offset)
}
