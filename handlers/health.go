package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	health := map[string]string{
		"status": "ok",
	}

	if err := h.catalog.Ping(c.UserContext()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		health["status"] = "unhealthy"
		health["database"] = "down"
		c.Status(fiber.StatusServiceUnavailable)
	} else {
		health["database"] = "up"
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return json.NewEncoder(c).Encode(health)
}
