package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"stockbooks/internal/caching"
	"stockbooks/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimit caps requests per client IP and path over a sliding window.
// Redis failures fail open so an outage never locks everyone out.
func RateLimit(cacheSvc caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s", c.RealIP(), c.Path())

			limited, err := cacheSvc.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				log.Printf("WARN: rate limit check failed for %s: %v", key, err)
				return next(c)
			}
			if limited {
				return c.JSON(http.StatusTooManyRequests, &common.ErrorResponse{
					StatusCode: http.StatusTooManyRequests,
					Message:    "too many requests",
				})
			}
			return next(c)
		}
	}
}
