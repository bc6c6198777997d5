package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/parts-pile/carprice/estimator"
	"github.com/parts-pile/carprice/listing"
)

// User-facing messages.
const (
	MsgInvalidInput = "Invalid input! Please enter valid values."
	MsgNoData       = "No data found for the given inputs."
	MsgUnavailable  = "Listings are unavailable right now. Please try again later."
)

// Estimator prices a filter.
type Estimator interface {
	Estimate(ctx context.Context, f listing.Filter) estimator.Result
}

// Catalog lists known makes and models and reports store health.
type Catalog interface {
	Makes(ctx context.Context) ([]string, error)
	Models(ctx context.Context, makeName string) ([]string, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	estimator Estimator
	catalog   Catalog
	logger    *zap.Logger
}

func New(est Estimator, catalog Catalog, logger *zap.Logger) *Handler {
	return &Handler{estimator: est, catalog: catalog, logger: logger}
}

// resultMessage maps a non-OK status to the message shown to the user.
func resultMessage(status estimator.Status) string {
	switch status {
	case estimator.StatusUnavailable:
		return MsgUnavailable
	default:
		return MsgNoData
	}
}
