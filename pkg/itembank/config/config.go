// Package config assembles an item bank service from configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tendant/itembank/pkg/itembank/mediaurl"
)

// Database types.
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:           "8080",
		Environment:    "development",
		DatabaseType:   DatabaseSQLite,
		SQLitePath:     "itembank.db",
		DBMaxConns:     10,
		DBMinConns:     1,
		AutoMigrate:    true,
		FullTextSearch: true,
		Media:          mediaurl.Config{Strategy: mediaurl.StrategyPassthrough},
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// ServerConfig represents configuration of the item bank service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseType string // "sqlite", "postgres"
	DatabaseURL  string
	DBSchema     string // Postgres search_path (optional)
	SQLitePath   string
	DBMaxConns   int
	DBMinConns   int
	AutoMigrate  bool

	// FullTextSearch uses the store's full-text index for q on draft items
	FullTextSearch bool

	Media mediaurl.Config

	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case DatabaseSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite_path is required when using sqlite")
		}
	case DatabasePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return fmt.Errorf("database_type must be '%s' or '%s'", DatabaseSQLite, DatabasePostgres)
	}

	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("db_min_conns (%d) exceeds db_max_conns (%d)", c.DBMinConns, c.DBMaxConns)
	}

	switch c.Media.Strategy {
	case "", mediaurl.StrategyPassthrough:
	case mediaurl.StrategyCDN:
		if c.Media.CDNBaseURL == "" {
			return errors.New("media_cdn_base_url is required for the cdn strategy")
		}
	case mediaurl.StrategyS3:
		if c.Media.S3.Bucket == "" {
			return errors.New("aws_s3_bucket is required for the s3 strategy")
		}
	default:
		return fmt.Errorf("unknown media URL strategy %q", c.Media.Strategy)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", c.LogFormat)
	}
	return nil
}

// NewLogger builds the slog logger described by LogLevel and LogFormat
func (c *ServerConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// IsDevelopment reports whether the development environment is configured
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
