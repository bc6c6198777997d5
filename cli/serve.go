package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parts-pile/carprice/estimator"
	"github.com/parts-pile/carprice/handlers"
	"github.com/parts-pile/carprice/ingest"
	"github.com/parts-pile/carprice/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load listings if needed and serve the estimator",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	// The form still works against whatever the table holds.
	if _, err := ingest.NewLoader(a.store, a.logger).Bootstrap(cmd.Context(), a.cfg.DataFile); err != nil {
		a.logger.Error("listings import failed", zap.String("file", a.cfg.DataFile), zap.Error(err))
	}

	h := handlers.New(estimator.New(a.store, a.logger), a.store, a.logger)
	app := server.New(a.cfg, h)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, app, a.cfg, a.logger)
}
