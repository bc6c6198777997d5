package server

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parts-pile/carprice/config"
	"github.com/parts-pile/carprice/handlers"
)

// New builds the fiber app with middleware and every route mounted.
func New(cfg *config.Config, h *handlers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "carprice",
		ErrorHandler:          h.CustomErrorHandler,
		ReadTimeout:           config.ServerReadTimeout,
		WriteTimeout:          config.ServerWriteTimeout,
		DisableStartupMessage: true,
	})

	app.Use(handlers.RateLimiter(cfg))
	app.Use(logger.New())

	h.Register(app)

	return app
}

// Run serves app on the configured port until ctx is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context, app *fiber.App, cfg *config.Config, log *zap.Logger) error {
	addr := net.JoinHostPort("", cfg.ServerPort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", addr))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		return app.ShutdownWithTimeout(config.ServerShutdownTimeout)
	})
	return g.Wait()
}
