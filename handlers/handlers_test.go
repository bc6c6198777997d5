package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parts-pile/carprice/estimator"
	"github.com/parts-pile/carprice/listing"
)

type fakeEstimator struct {
	result estimator.Result
	calls  int
	filter listing.Filter
}

func (f *fakeEstimator) Estimate(_ context.Context, filter listing.Filter) estimator.Result {
	f.calls++
	f.filter = filter
	return f.result
}

type fakeCatalog struct {
	makes   []string
	models  map[string][]string
	err     error
	pingErr error
}

func (f *fakeCatalog) Makes(context.Context) ([]string, error) {
	return f.makes, f.err
}

func (f *fakeCatalog) Models(_ context.Context, makeName string) ([]string, error) {
	return f.models[makeName], f.err
}

func (f *fakeCatalog) Ping(context.Context) error {
	return f.pingErr
}

func intPtr(v int) *int { return &v }

func okResult() estimator.Result {
	return estimator.Result{
		Status: estimator.StatusOK,
		Price:  20100,
		Listings: []listing.Listing{
			{ID: 1, Year: 2020, Make: "Toyota", Model: "Camry", Mileage: intPtr(30500), Price: intPtr(21000), Location: "Austin, TX"},
		},
	}
}

func newTestApp(est *fakeEstimator, catalog *fakeCatalog) *fiber.App {
	h := New(est, catalog, zap.NewNop())
	app := fiber.New(fiber.Config{ErrorHandler: h.CustomErrorHandler})
	h.Register(app)
	return app
}

func postForm(t *testing.T, app *fiber.App, values url.Values, htmx bool) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHandleHome(t *testing.T) {
	app := newTestApp(&fakeEstimator{}, &fakeCatalog{makes: []string{"Honda", "Toyota"}})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Car Price Estimator")
	assert.Contains(t, body, `<option value="Honda">`)
}

func TestHandleHome_MakesUnavailable(t *testing.T) {
	app := newTestApp(&fakeEstimator{}, &fakeCatalog{err: errors.New("connection refused")})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Car Price Estimator")
	assert.Contains(t, body, `<datalist id="makes"></datalist>`)
}

func TestHandleEstimate(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		result    estimator.Result
		wantCalls int
		contains  string
		mileage   *int
	}{
		{
			name:      "estimate with mileage",
			form:      url.Values{"year": {"2020"}, "make": {"Toyota"}, "model": {"Camry"}, "mileage": {"30000"}},
			result:    okResult(),
			wantCalls: 1,
			contains:  "$20,100",
			mileage:   intPtr(30000),
		},
		{
			name:      "values are trimmed",
			form:      url.Values{"year": {" 2020 "}, "make": {" Toyota"}, "model": {"Camry "}, "mileage": {""}},
			result:    okResult(),
			wantCalls: 1,
			contains:  "Estimated Price",
		},
		{
			name:      "non numeric mileage is ignored",
			form:      url.Values{"year": {"2020"}, "make": {"Toyota"}, "model": {"Camry"}, "mileage": {"lots"}},
			result:    okResult(),
			wantCalls: 1,
			contains:  "Estimated Price",
		},
		{
			name:      "mileage past the column range is ignored",
			form:      url.Values{"year": {"2020"}, "make": {"Toyota"}, "model": {"Camry"}, "mileage": {"3075000000000000000"}},
			result:    okResult(),
			wantCalls: 1,
			contains:  "Estimated Price",
		},
		{
			name:     "non numeric year",
			form:     url.Values{"year": {"abc"}, "make": {"Toyota"}, "model": {"Camry"}},
			contains: MsgInvalidInput,
		},
		{
			name:     "missing model",
			form:     url.Values{"year": {"2020"}, "make": {"Toyota"}},
			contains: MsgInvalidInput,
		},
		{
			name:      "no data",
			form:      url.Values{"year": {"1999"}, "make": {"Toyota"}, "model": {"Camry"}},
			result:    estimator.Result{Status: estimator.StatusNoData},
			wantCalls: 1,
			contains:  MsgNoData,
		},
		{
			name:      "no estimate",
			form:      url.Values{"year": {"2020"}, "make": {"Toyota"}, "model": {"Camry"}, "mileage": {"5"}},
			result:    estimator.Result{Status: estimator.StatusNoEstimate},
			wantCalls: 1,
			contains:  MsgNoData,
			mileage:   intPtr(5),
		},
		{
			name:      "store unavailable",
			form:      url.Values{"year": {"2020"}, "make": {"Toyota"}, "model": {"Camry"}},
			result:    estimator.Result{Status: estimator.StatusUnavailable, Err: errors.New("down")},
			wantCalls: 1,
			contains:  MsgUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := &fakeEstimator{result: tt.result}
			app := newTestApp(est, &fakeCatalog{})

			status, body := postForm(t, app, tt.form, false)

			assert.Equal(t, fiber.StatusOK, status)
			assert.Contains(t, body, tt.contains)
			assert.Contains(t, body, "<html")
			assert.Equal(t, tt.wantCalls, est.calls)
			if tt.wantCalls > 0 {
				assert.Equal(t, tt.mileage, est.filter.Mileage)
				assert.Equal(t, "Toyota", est.filter.Make)
			}
		})
	}
}

func TestHandleEstimate_HTMXFragment(t *testing.T) {
	est := &fakeEstimator{result: okResult()}
	app := newTestApp(est, &fakeCatalog{})

	status, body := postForm(t, app,
		url.Values{"year": {"2020"}, "make": {"Toyota"}, "model": {"Camry"}, "mileage": {"30000"}}, true)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Estimated Price")
	assert.Contains(t, body, "Austin, TX")
	assert.NotContains(t, body, "<html")
}

func TestHandleAPIEstimate(t *testing.T) {
	est := &fakeEstimator{result: okResult()}
	app := newTestApp(est, &fakeCatalog{})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet,
		"/api/estimate?year=2020&make=Toyota&model=Camry&mileage=30000", nil))

	require.Equal(t, fiber.StatusOK, status)

	var resp estimateResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.EstimatedPrice)
	assert.Equal(t, 20100, *resp.EstimatedPrice)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Austin, TX", resp.Listings[0].Location)
	assert.Equal(t, 30000, *est.filter.Mileage)
}

func TestHandleAPIEstimate_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		result     estimator.Result
		statusCode int
		status     string
	}{
		{name: "invalid", query: "year=&make=Toyota&model=Camry", statusCode: fiber.StatusBadRequest, status: "invalid_input"},
		{name: "no data", query: "year=2020&make=Toyota&model=Camry", result: estimator.Result{Status: estimator.StatusNoData}, statusCode: fiber.StatusOK, status: "no_data"},
		{name: "no estimate", query: "year=2020&make=Toyota&model=Camry&mileage=1", result: estimator.Result{Status: estimator.StatusNoEstimate}, statusCode: fiber.StatusOK, status: "no_estimate"},
		{name: "unavailable", query: "year=2020&make=Toyota&model=Camry", result: estimator.Result{Status: estimator.StatusUnavailable}, statusCode: fiber.StatusServiceUnavailable, status: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeEstimator{result: tt.result}, &fakeCatalog{})

			status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/estimate?"+tt.query, nil))

			assert.Equal(t, tt.statusCode, status)
			var resp estimateResponse
			require.NoError(t, json.Unmarshal([]byte(body), &resp))
			assert.Equal(t, tt.status, resp.Status)
			assert.Nil(t, resp.EstimatedPrice)
			assert.Empty(t, resp.Listings)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleModels(t *testing.T) {
	catalog := &fakeCatalog{models: map[string][]string{"Toyota": {"Camry", "Corolla"}}}
	app := newTestApp(&fakeEstimator{}, catalog)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/models?make=Toyota", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, `<option value="Camry"></option><option value="Corolla"></option>`, body)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/models?make=", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body)
}

func TestHandleModels_StoreError(t *testing.T) {
	app := newTestApp(&fakeEstimator{}, &fakeCatalog{err: errors.New("connection refused")})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/models?make=Toyota", nil))

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, MsgUnavailable)
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		statusCode int
		expected   map[string]string
	}{
		{name: "healthy", statusCode: fiber.StatusOK, expected: map[string]string{"status": "ok", "database": "up"}},
		{name: "database down", pingErr: errors.New("refused"), statusCode: fiber.StatusServiceUnavailable,
			expected: map[string]string{"status": "unhealthy", "database": "down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeEstimator{}, &fakeCatalog{pingErr: tt.pingErr})

			status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.statusCode, status)
			var got map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCustomErrorHandler_NotFound(t *testing.T) {
	app := newTestApp(&fakeEstimator{}, &fakeCatalog{})

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "Error 404")
}
