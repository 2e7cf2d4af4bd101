package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/itembank/pkg/itembank/mediaurl"
)

// EnvConfig is the environment variable layout read by WithEnv.
type EnvConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseType string `env:"DATABASE_TYPE"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DBSchema     string `env:"DB_SCHEMA"`
	SQLitePath   string `env:"SQLITE_PATH" env-default:"itembank.db"`
	DBMaxConns   int    `env:"DB_MAX_CONNS" env-default:"10"`
	DBMinConns   int    `env:"DB_MIN_CONNS" env-default:"1"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE" env-default:"true"`

	FullTextSearch bool `env:"FULL_TEXT_SEARCH" env-default:"true"`

	MediaURLStrategy string `env:"MEDIA_URL_STRATEGY" env-default:"passthrough"`
	MediaCDNBaseURL  string `env:"MEDIA_CDN_BASE_URL"`
	S3               S3Env

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
}

type S3Env struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Bucket          string `env:"AWS_S3_BUCKET"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	PresignDuration int    `env:"AWS_S3_PRESIGN_DURATION" env-default:"3600"`
}

// WithEnv applies environment variable overrides.
//
// Database:
//
//	DATABASE_TYPE - "sqlite" or "postgres". When empty, a postgres:// or
//	                postgresql:// DATABASE_URL selects postgres, otherwise sqlite.
//	DATABASE_URL  - Postgres connection string
//	SQLITE_PATH   - SQLite file (default "itembank.db")
//
// Media:
//
//	MEDIA_URL_STRATEGY - passthrough, cdn or s3
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env EnvConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		return env.apply(c)
	}
}

func (e EnvConfig) apply(c *ServerConfig) error {
	c.Port = e.Port
	c.Environment = e.Environment

	dbType := e.DatabaseType
	if dbType == "" {
		if strings.HasPrefix(e.DatabaseURL, "postgres://") || strings.HasPrefix(e.DatabaseURL, "postgresql://") {
			dbType = DatabasePostgres
		} else {
			dbType = DatabaseSQLite
		}
	}
	c.DatabaseType = dbType
	c.DatabaseURL = e.DatabaseURL
	c.DBSchema = e.DBSchema
	c.SQLitePath = e.SQLitePath
	c.DBMaxConns = e.DBMaxConns
	c.DBMinConns = e.DBMinConns
	c.AutoMigrate = e.AutoMigrate
	c.FullTextSearch = e.FullTextSearch

	c.Media = mediaurl.Config{
		Strategy:   e.MediaURLStrategy,
		CDNBaseURL: e.MediaCDNBaseURL,
		S3: mediaurl.S3Config{
			Region:          e.S3.Region,
			Bucket:          e.S3.Bucket,
			AccessKeyID:     e.S3.AccessKeyID,
			SecretAccessKey: e.S3.SecretAccessKey,
			Endpoint:        e.S3.Endpoint,
			UsePathStyle:    e.S3.UsePathStyle,
			PresignDuration: e.S3.PresignDuration,
		},
	}

	c.LogLevel = e.LogLevel
	c.LogFormat = e.LogFormat
	return nil
}
