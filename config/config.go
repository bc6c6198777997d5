package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is read from the working directory when no --config flag is given.
	DefaultConfigFile = "carprice.yaml"

	// EnvPrefix is the prefix for application settings that are not database settings.
	EnvPrefix = "CARPRICE_"

	// DataFilePath is the default ingestion source file.
	DataFilePath = "NEWTEST-inventory-listing-2022-08-17.txt"

	ServerReadTimeout  = 30 * time.Second
	ServerWriteTimeout = 30 * time.Second
	// ServerShutdownTimeout bounds how long in-flight requests may run after a
	// shutdown signal.
	ServerShutdownTimeout = 10 * time.Second

	TailwindCSSURL = "https://cdn.jsdelivr.net/npm/tailwindcss@2.2.19/dist/tailwind.min.css"
	HTMXURL        = "https://unpkg.com/htmx.org@1.9.10"
)

// Config holds every runtime setting. Keys are flat so that DB_NAME maps to db_name.
type Config struct {
	DBDriver   string `koanf:"db_driver"`
	DBName     string `koanf:"db_name"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBSSLMode  string `koanf:"db_sslmode"`
	DBPath     string `koanf:"db_path"`

	DataFile        string        `koanf:"data_file"`
	ServerPort      string        `koanf:"server_port"`
	LogLevel        string        `koanf:"log_level"`
	RateLimitMax    int           `koanf:"rate_limit_max"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"db_driver":         "postgres",
		"db_host":           "localhost",
		"db_port":           "5432",
		"db_sslmode":        "disable",
		"db_path":           "carprice.db",
		"data_file":         DataFilePath,
		"server_port":       "8080",
		"log_level":         "info",
		"rate_limit_max":    60,
		"rate_limit_window": "1m",
	}
}

// flagKeys maps command-line flag names onto config keys where they differ.
var flagKeys = map[string]string{
	"port": "server_port",
}

// Load builds a Config from defaults, an optional YAML file, environment
// variables and explicitly set flags, in increasing order of precedence.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// DB_NAME -> db_name
	if err := k.Load(env.Provider("DB_", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	// CARPRICE_SERVER_PORT -> server_port
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported db_driver %q (want postgres or sqlite3)", c.DBDriver)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("rate_limit_max must be positive, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive, got %s", c.RateLimitWindow)
	}
	return nil
}
