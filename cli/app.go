package cli

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/parts-pile/carprice/config"
	"github.com/parts-pile/carprice/db"
	"github.com/parts-pile/carprice/listing"
)

// app holds the resources every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	store  *listing.Store
}

// openApp opens the configured database and brings its schema up to date.
func openApp(ctx context.Context) (*app, error) {
	cfg := getConfig(ctx)
	logger := getLogger(ctx)

	database, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database, cfg.DBDriver, logger); err != nil {
		database.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		db:     database,
		store:  listing.NewStore(database),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
