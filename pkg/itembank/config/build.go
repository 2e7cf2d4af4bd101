package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/itembank/pkg/itembank"
	"github.com/tendant/itembank/pkg/itembank/admin"
	"github.com/tendant/itembank/pkg/itembank/mediaurl"
	"github.com/tendant/itembank/pkg/itembank/repo/postgres"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlite"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

// Store is an opened backend.
type Store struct {
	DB      sqlstore.DB
	migrate func(context.Context) error
	close   func()
}

// Migrate applies the backend schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

// Close releases the backend.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore opens the configured backend, migrating it when AutoMigrate is set.
func (c *ServerConfig) OpenStore(ctx context.Context) (*Store, error) {
	var store *Store

	switch c.DatabaseType {
	case DatabasePostgres:
		pool, err := postgres.Open(ctx, postgres.PoolConfig{
			URL:      c.DatabaseURL,
			Schema:   c.DBSchema,
			MaxConns: c.DBMaxConns,
			MinConns: c.DBMinConns,
		})
		if err != nil {
			return nil, err
		}
		db := postgres.New(pool)
		store = &Store{DB: db, migrate: db.Migrate, close: pool.Close}
	case DatabaseSQLite:
		db, err := sqlite.Open(ctx, c.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = &Store{DB: db, migrate: db.Migrate, close: func() { db.Close() }}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	if c.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// BuildService creates a Service on top of an opened store
func (c *ServerConfig) BuildService(ctx context.Context, store *Store, logger *slog.Logger) (itembank.Service, error) {
	strategy, err := mediaurl.New(ctx, c.Media)
	if err != nil {
		return nil, fmt.Errorf("media URL strategy: %w", err)
	}
	repo := sqlstore.New(store.DB, sqlstore.WithFullTextSearch(c.FullTextSearch))
	return itembank.New(
		itembank.WithRepository(repo),
		itembank.WithMediaURLStrategy(strategy),
		itembank.WithLogger(logger),
	)
}

// BuildAdminService creates the admin service for an opened store
func (c *ServerConfig) BuildAdminService(store *Store) admin.AdminService {
	return admin.New(store.DB)
}
