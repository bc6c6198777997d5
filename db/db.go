package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/parts-pile/carprice/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	// MemoryPath opens a private in-memory SQLite database.
	MemoryPath = ":memory:"
)

//go:embed migrations
var migrations embed.FS

// DataSource returns the database/sql driver name and DSN for cfg.
func DataSource(cfg *config.Config) (string, string, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
			Host:   net.JoinHostPort(cfg.DBHost, cfg.DBPort),
			Path:   "/" + cfg.DBName,
		}
		q := url.Values{}
		q.Set("sslmode", cfg.DBSSLMode)
		u.RawQuery = q.Encode()
		return "pgx", u.String(), nil
	case DriverSQLite:
		if cfg.DBPath == MemoryPath {
			return "sqlite3", MemoryPath, nil
		}
		return "sqlite3", cfg.DBPath + "?_busy_timeout=5000", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Open opens and pings the configured database. The caller owns the returned
// handle and must Close it.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	driverName, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every new connection to :memory: is a fresh empty database.
	if cfg.DBDriver == DriverSQLite && cfg.DBPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded migrations for driver.
func Migrate(db *sql.DB, driver string, logger *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("database not opened")
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger.Sugar()})

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations/"+driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}
