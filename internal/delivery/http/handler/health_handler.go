package handler

import (
	"context"
	"time"

	"jobpulse/internal/database"
	"jobpulse/internal/infrastructure/cache"
	"jobpulse/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db    database.DB
	redis *cache.Redis
}

func NewHealthHandler(db database.DB, redis *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/healthz", h.Healthz)
}

// Healthz reports liveness plus dependency status. A degraded cache does not
// fail the check; a dead database does.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := fiber.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		deps["database"] = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.redis == nil || h.redis.Ping(ctx) != nil {
		deps["cache"] = "degraded"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", deps)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, deps)
}
