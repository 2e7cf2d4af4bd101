// Package postgres runs the item store on PostgreSQL through pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PoolConfig configures Open.
type PoolConfig struct {
	URL      string
	Schema   string
	MaxConns int
	MinConns int
}

// Open creates a connection pool and verifies it with a ping. When Schema is
// set every session gets it as search_path.
func Open(ctx context.Context, c PoolConfig) (*pgxpool.Pool, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	cfg, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	if c.MaxConns > 0 {
		cfg.MaxConns = int32(c.MaxConns)
	}
	if c.MinConns > 0 {
		cfg.MinConns = int32(c.MinConns)
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	if schema := strings.TrimSpace(c.Schema); schema != "" {
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// DB adapts a pgx handle to sqlstore.DB. @name placeholders are bound with
// pgx.NamedArgs.
type DB struct {
	db DBTX
}

// New wraps a pool, connection or transaction.
func New(db DBTX) *DB {
	return &DB{db: db}
}

// Migrate applies the embedded schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.Exec(ctx, schemaSQL); err != nil {
		return handlePostgresError("migrate", err)
	}
	return nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args sqlstore.Args) sqlstore.Row {
	return row{d.db.QueryRow(ctx, query, argv(args)...)}
}

func (d *DB) Query(ctx context.Context, query string, args sqlstore.Args, fn func(sqlstore.Row) error) error {
	rows, err := d.db.Query(ctx, query, argv(args)...)
	if err != nil {
		return handlePostgresError("query", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return handlePostgresError("query", err)
	}
	return nil
}

func (d *DB) Exec(ctx context.Context, query string, args sqlstore.Args) error {
	if _, err := d.db.Exec(ctx, query, argv(args)...); err != nil {
		return handlePostgresError("exec", err)
	}
	return nil
}

func (d *DB) Dialect() sqlstore.Dialect {
	return dialect{}
}

func argv(args sqlstore.Args) []any {
	if len(args) == 0 {
		return nil
	}
	return []any{pgx.NamedArgs(args)}
}

type row struct {
	r pgx.Row
}

func (r row) Scan(dest ...any) error {
	err := r.r.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlstore.ErrNoRows
	}
	if err != nil {
		return handlePostgresError("query row", err)
	}
	return nil
}

// handlePostgresError turns server errors into readable ones.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry for %s: %w", pgErr.ConstraintName, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found (%s): %w", pgErr.ConstraintName, err)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing: %w", pgErr.ColumnName, err)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required: %w", err)
		case "42703": // undefined_column
			return fmt.Errorf("column does not exist - database migration required: %w", err)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s): %w", operation, pgErr.Message, pgErr.Code, err)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

type dialect struct{}

func (dialect) Name() string { return "postgres" }

func (dialect) TextSearch(index, alias string) (string, bool) {
	if index != "items_draft" {
		return "", false
	}
	return alias + ".search_tsv @@ plainto_tsquery('simple', @q)", true
}

func (dialect) TextSearchArg(q string) string { return q }

func (dialect) Timestamp(t time.Time) any { return t.UTC() }
