package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	g "maragu.dev/gomponents"

	"github.com/parts-pile/carprice/ui"
)

func (h *Handler) HandleHome(c *fiber.Ctx) error {
	return render(c, ui.HomePage(ui.FormValues{}, h.makes(c), nil))
}

// HandleEstimate handles the form submission. htmx requests get only the
// result fragment.
func (h *Handler) HandleEstimate(c *fiber.Ctx) error {
	values := estimateForm(c)
	result := h.estimateView(c, values)

	if isHTMX(c) {
		return render(c, result)
	}
	return render(c, ui.HomePage(values, h.makes(c), result))
}

func (h *Handler) estimateView(c *fiber.Ctx, values ui.FormValues) g.Node {
	filter, err := ParseEstimateForm(values)
	if err != nil {
		return ui.ValidationError(MsgInvalidInput)
	}

	res := h.estimator.Estimate(c.UserContext(), filter)
	if !res.OK() {
		return ui.ValidationError(resultMessage(res.Status))
	}
	return ui.Results(res.Price, res.Listings)
}

// makes loads the autocomplete list. A failure only costs the suggestions.
func (h *Handler) makes(c *fiber.Ctx) []string {
	makes, err := h.catalog.Makes(c.UserContext())
	if err != nil {
		h.logger.Warn("failed to load makes", zap.Error(err))
		return nil
	}
	return makes
}
