package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthChecker - внешняя зависимость, доступность которой входит в /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	checks   map[string]HealthChecker
	sessions func() int
	logger   *zap.Logger
}

// NewHealthHandler: checks опрашиваются на каждый запрос
func NewHealthHandler(checks map[string]HealthChecker, sessions func() int, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks:   checks,
		sessions: sessions,
		logger:   logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	deps := fiber.Map{}
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "unavailable"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	resp := fiber.Map{
		"status":       status,
		"time":         time.Now(),
		"dependencies": deps,
	}
	if h.sessions != nil {
		resp["sessions"] = h.sessions()
	}
	return c.Status(code).JSON(resp)
}
