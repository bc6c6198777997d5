package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/parts-pile/carprice/estimator"
	"github.com/parts-pile/carprice/listing"
	"github.com/parts-pile/carprice/ui"
)

type listingResponse struct {
	Year     int    `json:"year"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Mileage  *int   `json:"mileage"`
	Price    *int   `json:"price"`
	Location string `json:"location"`
}

type estimateResponse struct {
	Status         string            `json:"status"`
	EstimatedPrice *int              `json:"estimated_price"`
	Listings       []listingResponse `json:"listings"`
	Error          string            `json:"error,omitempty"`
}

func newEstimateResponse(res estimator.Result) estimateResponse {
	resp := estimateResponse{
		Status:   res.Status.String(),
		Listings: make([]listingResponse, 0, len(res.Listings)),
	}
	if !res.OK() {
		resp.Error = resultMessage(res.Status)
		return resp
	}

	price := res.Price
	resp.EstimatedPrice = &price
	for _, l := range res.Listings {
		resp.Listings = append(resp.Listings, toListingResponse(l))
	}
	return resp
}

func toListingResponse(l listing.Listing) listingResponse {
	return listingResponse{
		Year:     l.Year,
		Make:     l.Make,
		Model:    l.Model,
		Mileage:  l.Mileage,
		Price:    l.Price,
		Location: l.Location,
	}
}

// HandleAPIEstimate is the JSON form of HandleEstimate.
func (h *Handler) HandleAPIEstimate(c *fiber.Ctx) error {
	filter, err := ParseEstimateForm(estimateForm(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(estimateResponse{
			Status:   "invalid_input",
			Listings: []listingResponse{},
			Error:    MsgInvalidInput,
		})
	}

	res := h.estimator.Estimate(c.UserContext(), filter)
	if res.Status == estimator.StatusUnavailable {
		c.Status(fiber.StatusServiceUnavailable)
	}
	return c.JSON(newEstimateResponse(res))
}

// HandleModels returns datalist options for the models of a make.
func (h *Handler) HandleModels(c *fiber.Ctx) error {
	makeName := strings.TrimSpace(c.Query("make"))
	if makeName == "" {
		return render(c, ui.ModelOptions(nil))
	}

	models, err := h.catalog.Models(c.UserContext(), makeName)
	if err != nil {
		h.logger.Error("failed to load models", zap.String("make", makeName), zap.Error(err))
		return fiber.NewError(fiber.StatusServiceUnavailable, MsgUnavailable)
	}
	return render(c, ui.ModelOptions(models))
}
