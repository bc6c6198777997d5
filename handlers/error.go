package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/parts-pile/carprice/ui"
)

// CustomErrorHandler renders errors returned by handlers as an HTML page
func (h *Handler) CustomErrorHandler(ctx *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if code >= fiber.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Error(err))
		if e == nil {
			message = "Something went wrong. Please try again later."
		}
	}

	ctx.Status(code)
	return render(ctx, ui.ErrorPage(code, message))
}
