// Package estimator predicts a car's market price from comparable listings.
package estimator

import (
	"context"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/parts-pile/carprice/listing"
)

// Status tells a caller which kind of answer Estimate produced.
type Status int

const (
	// StatusOK means Price holds an estimate.
	StatusOK Status = iota
	// StatusNoData means no comparable listing with a price was found.
	StatusNoData
	// StatusNoEstimate means listings matched but none could feed the
	// mileage regression, or the fit was degenerate.
	StatusNoEstimate
	// StatusUnavailable means the listings store could not be read.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no_data"
	case StatusNoEstimate:
		return "no_estimate"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single estimate. Price and Listings are only
// meaningful when Status is StatusOK.
type Result struct {
	Status   Status
	Price    int
	Listings []listing.Listing
	Err      error
}

// OK reports whether the result carries a price.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Comparables is the read side of the listings store.
type Comparables interface {
	FindComparables(ctx context.Context, f listing.Filter) ([]listing.Listing, error)
}

type Estimator struct {
	store  Comparables
	logger *zap.Logger
}

func New(store Comparables, logger *zap.Logger) *Estimator {
	return &Estimator{store: store, logger: logger}
}

// Estimate fetches comparable listings for q and prices them. Without a
// mileage the estimate is the mean listed price; with one it is a least
// squares fit of price on mileage evaluated at the target mileage.
func (e *Estimator) Estimate(ctx context.Context, q listing.Filter) Result {
	listings, err := e.store.FindComparables(ctx, q)
	if err != nil {
		e.logger.Error("error fetching comparable listings",
			zap.Int("year", q.Year), zap.String("make", q.Make), zap.String("model", q.Model),
			zap.Error(err))
		return Result{Status: StatusUnavailable, Err: err}
	}

	res := price(listings, q.Mileage)

	e.logger.Debug("estimate computed",
		zap.Int("year", q.Year), zap.String("make", q.Make), zap.String("model", q.Model),
		zap.Intp("mileage", q.Mileage),
		zap.Int("candidates", len(listings)),
		zap.Stringer("status", res.Status),
		zap.Int("price", res.Price))

	return res
}

func price(listings []listing.Listing, mileage *int) Result {
	if len(listings) == 0 {
		return Result{Status: StatusNoData}
	}
	if len(listings) > listing.MaxResults {
		listings = listings[:listing.MaxResults]
	}

	if mileage == nil {
		avg, ok := averagePrice(listings)
		if !ok {
			return Result{Status: StatusNoData}
		}
		return Result{Status: StatusOK, Price: RoundToHundred(avg), Listings: listings}
	}

	predicted, ok := regressPrice(listings, *mileage)
	if !ok {
		return Result{Status: StatusNoEstimate}
	}
	return Result{Status: StatusOK, Price: RoundToHundred(predicted), Listings: listings}
}

func averagePrice(listings []listing.Listing) (float64, bool) {
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		if l.Price != nil {
			prices = append(prices, float64(*l.Price))
		}
	}
	if len(prices) == 0 {
		return 0, false
	}
	return stat.Mean(prices, nil), true
}

// regressPrice fits price = alpha + beta*mileage over listings that have a
// positive mileage and a price, and evaluates it at target.
func regressPrice(listings []listing.Listing, target int) (float64, bool) {
	var xs, ys []float64
	for _, l := range listings {
		if l.Mileage == nil || *l.Mileage <= 0 || l.Price == nil {
			continue
		}
		xs = append(xs, float64(*l.Mileage))
		ys = append(ys, float64(*l.Price))
	}
	if len(xs) == 0 || !varies(xs) {
		return 0, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	predicted := alpha + beta*float64(target)
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		return 0, false
	}
	return predicted, true
}

func varies(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// RoundToHundred rounds v to the nearest multiple of 100, ties to even
// hundreds.
func RoundToHundred(v float64) int {
	return int(math.RoundToEven(v/100) * 100)
}
