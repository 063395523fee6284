package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"productsvc/internal/logging"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Driver() string
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	store   Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 2 * time.Second}
}

// RegisterRoutes registers the liveness and health routes.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
	router.Get("/health", h.HandleHealth)
}

// HandleRoot answers as long as the process is serving requests.
func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Products API is running!!"})
}

// HandleHealth pings the store.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.store.Ping(ctx); err != nil {
		logging.Warn().Err(err).Str("store", h.store.Driver()).Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"store":  h.store.Driver(),
			"error":  err.Error(),
			"time":   now,
		})
	}

	return c.JSON(fiber.Map{
		"status": "healthy",
		"store":  h.store.Driver(),
		"time":   now,
	})
}
