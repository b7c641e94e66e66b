package common

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the wire shape for every non-2xx reply.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func sendError(c echo.Context, status int, message string) error {
	return c.JSON(status, &ErrorResponse{StatusCode: status, Message: message})
}

// SendClientError sends a 400 with the given message.
func SendClientError(c echo.Context, message string) error {
	return sendError(c, http.StatusBadRequest, message)
}

// SendValidationError sends a 400 naming the offending field.
func SendValidationError(c echo.Context, field, message string) error {
	return sendError(c, http.StatusBadRequest, fmt.Sprintf("%s: %s", field, message))
}

// SendNotFoundError sends a 404 for the named resource.
func SendNotFoundError(c echo.Context, resource string) error {
	return sendError(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// SendConflictError sends a 409 with the given message.
func SendConflictError(c echo.Context, message string) error {
	return sendError(c, http.StatusConflict, message)
}

// SendUnauthorizedError sends a 401.
func SendUnauthorizedError(c echo.Context) error {
	return sendError(c, http.StatusUnauthorized, "Unauthorized")
}

// SendForbiddenError sends a 403 with the given message.
func SendForbiddenError(c echo.Context, message string) error {
	return sendError(c, http.StatusForbidden, message)
}

// SendServerError sends a 500. The detailed error stays on the server side;
// callers log it before reaching for this.
func SendServerError(c echo.Context, message string) error {
	return sendError(c, http.StatusInternalServerError, message)
}
