package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parts-pile/carprice/listing"
	"github.com/parts-pile/carprice/ui"
)

// ErrInvalidInput is returned for a missing or malformed year, make or model.
var ErrInvalidInput = errors.New("invalid input")

// estimateForm reads the estimator fields from the query string or the form
// body, trimmed.
func estimateForm(c *fiber.Ctx) ui.FormValues {
	return ui.FormValues{
		Year:    strings.TrimSpace(getQueryParam(c, "year")),
		Make:    strings.TrimSpace(getQueryParam(c, "make")),
		Model:   strings.TrimSpace(getQueryParam(c, "model")),
		Mileage: strings.TrimSpace(getQueryParam(c, "mileage")),
	}
}

// ParseEstimateForm validates submitted values. Year must be a positive
// integer that fits the INT column and make and model must be present. A
// mileage that is not a non-negative INT is ignored.
func ParseEstimateForm(v ui.FormValues) (listing.Filter, error) {
	if !isDigits(v.Year) || v.Make == "" || v.Model == "" {
		return listing.Filter{}, ErrInvalidInput
	}
	year, err := strconv.ParseInt(v.Year, 10, 32)
	if err != nil || year <= 0 {
		return listing.Filter{}, ErrInvalidInput
	}

	f := listing.Filter{Year: int(year), Make: v.Make, Model: v.Model}
	if isDigits(v.Mileage) {
		if m, err := strconv.ParseInt(v.Mileage, 10, 32); err == nil {
			mileage := int(m)
			f.Mileage = &mileage
		}
	}
	return f, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
