package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts every estimator route on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/", h.HandleHome)
	r.Post("/", h.HandleEstimate)

	api := r.Group("/api")
	api.Get("/estimate", h.HandleAPIEstimate)
	api.Get("/models", h.HandleModels)

	r.Get("/health", h.HandleHealth)
}
