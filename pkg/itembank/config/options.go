package config

import (
	"fmt"

	"github.com/tendant/itembank/pkg/itembank/mediaurl"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithSQLite selects the SQLite backend at path (":memory:" allowed)
func WithSQLite(path string) Option {
	return func(c *ServerConfig) error {
		if path == "" {
			return fmt.Errorf("sqlite path cannot be empty")
		}
		c.DatabaseType = DatabaseSQLite
		c.SQLitePath = path
		return nil
	}
}

// WithPostgres selects the Postgres backend
func WithPostgres(url, schema string) Option {
	return func(c *ServerConfig) error {
		if url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = DatabasePostgres
		c.DatabaseURL = url
		c.DBSchema = schema
		return nil
	}
}

// WithAutoMigrate toggles schema creation on startup
func WithAutoMigrate(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.AutoMigrate = enabled
		return nil
	}
}

// WithFullTextSearch toggles use of the full-text index
func WithFullTextSearch(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.FullTextSearch = enabled
		return nil
	}
}

// WithCDNMedia serves media through a CDN
func WithCDNMedia(baseURL string) Option {
	return func(c *ServerConfig) error {
		if baseURL == "" {
			return fmt.Errorf("CDN base URL cannot be empty")
		}
		c.Media = mediaurl.Config{Strategy: mediaurl.StrategyCDN, CDNBaseURL: baseURL}
		return nil
	}
}

// WithS3Media serves media through presigned S3 URLs
func WithS3Media(s3 mediaurl.S3Config) Option {
	return func(c *ServerConfig) error {
		if s3.Bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		c.Media = mediaurl.Config{Strategy: mediaurl.StrategyS3, S3: s3}
		return nil
	}
}

// WithLogging sets log level and format
func WithLogging(level, format string) Option {
	return func(c *ServerConfig) error {
		c.LogLevel = level
		c.LogFormat = format
		return nil
	}
}
