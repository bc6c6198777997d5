package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parts-pile/carprice/config"
	"github.com/parts-pile/carprice/estimator"
	"github.com/parts-pile/carprice/handlers"
	"github.com/parts-pile/carprice/listing"
)

type stubEstimator struct{}

func (stubEstimator) Estimate(context.Context, listing.Filter) estimator.Result {
	return estimator.Result{Status: estimator.StatusNoData}
}

type stubCatalog struct{}

func (stubCatalog) Makes(context.Context) ([]string, error)          { return nil, nil }
func (stubCatalog) Models(context.Context, string) ([]string, error) { return nil, nil }
func (stubCatalog) Ping(context.Context) error                       { return nil }

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:      "0",
		RateLimitMax:    2,
		RateLimitWindow: time.Minute,
	}
}

func newTestServer(cfg *config.Config) *fiber.App {
	return New(cfg, handlers.New(stubEstimator{}, stubCatalog{}, zap.NewNop()))
}

func TestNew_Routes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 100
	app := newTestServer(cfg)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", fiber.StatusOK},
		{http.MethodPost, "/", fiber.StatusOK},
		{http.MethodGet, "/api/estimate?year=2020&make=Toyota&model=Camry", fiber.StatusOK},
		{http.MethodGet, "/api/models?make=Toyota", fiber.StatusOK},
		{http.MethodGet, "/health", fiber.StatusOK},
		{http.MethodGet, "/missing", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestNew_RateLimit(t *testing.T) {
	app := newTestServer(testConfig())

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig()
	app := newTestServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, app, cfg, zap.NewNop())
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
