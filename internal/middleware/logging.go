// Package middleware holds the fiber middleware shared by every route.
package middleware

import (
	"time"

	"dinesight-backend/internal/audit"
	"dinesight-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Correlation tags the user context with the request id, so audit rows written
// while serving one request share a correlation id. Must run after requestid.
func Correlation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			c.SetUserContext(audit.WithCorrelationID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// StructuredLogging logs one line per request, at warn for 4xx and error for 5xx.
func StructuredLogging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := logger.Info(c.UserContext())
		if status >= 500 {
			ev = logger.Error(c.UserContext()).Err(err)
		} else if status >= 400 {
			ev = logger.Warn(c.UserContext())
		}
		ev.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("duration_ms", duration.Milliseconds()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request completed")

		return err
	}
}
