package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"productsvc/internal/logging"
	"productsvc/internal/telemetry"
)

// ErrorHandler renders errors that escape handlers as {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFromError(err)
	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled request error")
	}
	return ErrorResponse(c, code, err.Error())
}

// ErrorResponse writes a JSON error body with the given status.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorBody(c, message))
}

// ErrorBody is the {"error": ...} body, tagged with the trace id when one is active.
func ErrorBody(c *fiber.Ctx, message string) fiber.Map {
	body := fiber.Map{
		"error": message,
	}
	if traceID := telemetry.TraceID(c.UserContext()); traceID != "" {
		body["trace_id"] = traceID
	}
	return body
}

// StatusFromError returns the status code a handler error will be rendered with.
func StatusFromError(err error) int {
	var e *fiber.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return fiber.StatusInternalServerError
}
