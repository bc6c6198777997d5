// Package ingest loads the pipe-delimited inventory export into the listings
// table.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/parts-pile/carprice/listing"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Source columns, in the order Parse reads them.
const (
	colYear    = "year"
	colMake    = "make"
	colModel   = "model"
	colMileage = "listing_mileage"
	colPrice   = "listing_price"
	colCity    = "dealer_city"
	colState   = "dealer_state"
)

var requiredColumns = []string{colYear, colMake, colModel, colMileage, colPrice, colCity, colState}

// Stats counts what Parse saw.
type Stats struct {
	Rows    int
	Parsed  int
	Skipped int
}

// Parse reads a '|' delimited file with a header row. Malformed rows are
// skipped and counted; only a missing column or a read failure is an error.
func Parse(r io.Reader) ([]listing.Listing, Stats, error) {
	var stats Stats

	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, stats, fmt.Errorf("failed to read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, stats, err
	}

	var listings []listing.Listing
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Skipped++
			continue
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read line %d: %w", stats.Rows+1, err)
		}
		if len(record) != len(header) {
			stats.Skipped++
			continue
		}

		l, ok := parseRecord(record, idx)
		if !ok {
			stats.Skipped++
			continue
		}
		listings = append(listings, l)
		stats.Parsed++
	}

	return listings, stats, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(record []string, idx map[string]int) (listing.Listing, bool) {
	field := func(col string) string {
		return strings.TrimSpace(record[idx[col]])
	}

	year, err := strconv.Atoi(field(colYear))
	if err != nil || year <= 0 {
		return listing.Listing{}, false
	}

	makeName := truncate(field(colMake), listing.MaxMakeLen)
	model := truncate(field(colModel), listing.MaxModelLen)
	if makeName == "" || model == "" {
		return listing.Listing{}, false
	}

	mileage := coerceInt(field(colMileage))
	if mileage < 0 {
		mileage = 0
	}
	price := coerceInt(field(colPrice))

	return listing.Listing{
		Year:     year,
		Make:     makeName,
		Model:    model,
		Mileage:  &mileage,
		Price:    &price,
		Location: truncate(location(field(colCity), field(colState)), listing.MaxLocationLen),
	}, true
}

// coerceInt parses an integer or a decimal, truncating toward zero. Anything
// else, or a value outside the INT column range, becomes 0.
func coerceInt(s string) int {
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func location(city, state string) string {
	switch {
	case city == "":
		return state
	case state == "":
		return city
	default:
		return city + ", " + state
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// LoadFile opens path and parses it.
func LoadFile(path string) ([]listing.Listing, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Store is the part of the listings store the loader writes through.
type Store interface {
	Count(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, listings []listing.Listing) (int, error)
}

// Report describes one Bootstrap run.
type Report struct {
	Skipped  bool
	Existing int64
	Stats    Stats
	Inserted int
	Elapsed  time.Duration
}

type Loader struct {
	store  Store
	logger *zap.Logger
}

func NewLoader(store Store, logger *zap.Logger) *Loader {
	return &Loader{store: store, logger: logger}
}

// Bootstrap fills an empty listings table from the file at path. A table that
// already holds rows is left untouched.
func (l *Loader) Bootstrap(ctx context.Context, path string) (Report, error) {
	count, err := l.store.Count(ctx)
	if err != nil {
		return Report{}, err
	}
	if count > 0 {
		l.logger.Info("listings already loaded, skipping import", zap.Int64("records", count))
		return Report{Skipped: true, Existing: count}, nil
	}

	listings, stats, err := LoadFile(path)
	if err != nil {
		return Report{Stats: stats}, err
	}
	if stats.Skipped > 0 {
		l.logger.Warn("skipped malformed rows", zap.String("file", path), zap.Int("skipped", stats.Skipped))
	}
	if len(listings) == 0 {
		l.logger.Info("no data to insert", zap.String("file", path))
		return Report{Stats: stats}, nil
	}

	start := time.Now()
	inserted, err := l.store.InsertBatch(ctx, listings)
	if err != nil {
		return Report{Stats: stats}, err
	}
	elapsed := time.Since(start)

	l.logger.Info("records inserted",
		zap.Int("inserted", inserted),
		zap.Duration("elapsed", elapsed))

	return Report{Stats: stats, Inserted: inserted, Elapsed: elapsed}, nil
}
