package listing

import (
	"context"
	"database/sql"
	"fmt"
	"math"
)

// MaxResults caps every comparable-listings query.
const MaxResults = 100

// Column limits of the car_listings table.
const (
	MaxMakeLen     = 100
	MaxModelLen    = 100
	MaxLocationLen = 150
)

// Listing is one observed car-for-sale record.
type Listing struct {
	ID       int64
	Year     int
	Make     string
	Model    string
	Mileage  *int
	Price    *int
	Location string
}

// Filter selects comparable listings. A nil Mileage disables the mileage band.
type Filter struct {
	Year    int
	Make    string
	Model   string
	Mileage *int
}

// MileageBand returns the inclusive integer range [0.8m, 1.2m] around the
// target mileage m.
func (f Filter) MileageBand() (int, int) {
	if f.Mileage == nil {
		return 0, 0
	}
	m := *f.Mileage
	if m < 0 {
		m = 0
	}
	// m - floor(m/5) is ceil(4m/5) and m + floor(m/5) is floor(6m/5).
	delta := m / 5
	if m > math.MaxInt-delta {
		return m - delta, math.MaxInt
	}
	return m - delta, m + delta
}

// Store reads and writes car listings through a pooled *sql.DB.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `SELECT id, year, make, model, mileage, price, location FROM car_listings`

const findComparablesQuery = selectColumns + `
	WHERE year = $1 AND make = $2 AND model = $3
	ORDER BY id
	LIMIT $4`

const findComparablesByMileageQuery = selectColumns + `
	WHERE year = $1 AND make = $2 AND model = $3
	AND mileage BETWEEN $4 AND $5
	ORDER BY ABS(mileage - $6) ASC, id
	LIMIT $7`

// FindComparables returns at most MaxResults listings matching the exact
// year/make/model. With a target mileage, rows are restricted to the mileage
// band and ordered by distance from the target, closest first.
func (s *Store) FindComparables(ctx context.Context, f Filter) ([]Listing, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if f.Mileage != nil {
		lower, upper := f.MileageBand()
		rows, err = s.db.QueryContext(ctx, findComparablesByMileageQuery,
			f.Year, f.Make, f.Model, lower, upper, *f.Mileage, MaxResults)
	} else {
		rows, err = s.db.QueryContext(ctx, findComparablesQuery,
			f.Year, f.Make, f.Model, MaxResults)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}
	return listings, nil
}

func scanListing(rows *sql.Rows) (Listing, error) {
	var (
		l        Listing
		mileage  sql.NullInt64
		price    sql.NullInt64
		location sql.NullString
	)
	if err := rows.Scan(&l.ID, &l.Year, &l.Make, &l.Model, &mileage, &price, &location); err != nil {
		return Listing{}, fmt.Errorf("failed to scan listing: %w", err)
	}
	if mileage.Valid {
		v := int(mileage.Int64)
		l.Mileage = &v
	}
	if price.Valid {
		v := int(price.Int64)
		l.Price = &v
	}
	l.Location = location.String
	return l, nil
}

// Count returns the number of stored listings.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM car_listings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

const insertListingQuery = `INSERT INTO car_listings (year, make, model, mileage, price, location)
	VALUES ($1, $2, $3, $4, $5, $6)`

// InsertBatch inserts listings in a single transaction and returns how many
// rows were written. Nothing is written if any insert fails.
func (s *Store) InsertBatch(ctx context.Context, listings []Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertListingQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		if _, err := stmt.ExecContext(ctx, l.Year, l.Make, l.Model,
			nullableInt(l.Mileage), nullableInt(l.Price), l.Location); err != nil {
			return 0, fmt.Errorf("insert failed at row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit listings: %w", err)
	}
	return len(listings), nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

// Makes returns the distinct makes in the table, sorted.
func (s *Store) Makes(ctx context.Context) ([]string, error) {
	return s.selectStrings(ctx, `SELECT DISTINCT make FROM car_listings ORDER BY make`)
}

// Models returns the distinct models listed for makeName, sorted.
func (s *Store) Models(ctx context.Context, makeName string) ([]string, error) {
	return s.selectStrings(ctx, `SELECT DISTINCT model FROM car_listings WHERE make = $1 ORDER BY model`, makeName)
}

func (s *Store) selectStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
