// Package sqlite runs the item store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var placeholder = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// DB adapts *sql.DB to sqlstore.DB.
type DB struct {
	db *sql.DB
}

// Open opens the database at path. An in-memory database is pinned to a
// single connection so every query sees the same data.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if path != MemoryPath {
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// New wraps an already opened database.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

// Migrate creates missing tables, indexes and the full-text index.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) QueryRow(ctx context.Context, query string, args sqlstore.Args) sqlstore.Row {
	return row{d.db.QueryRowContext(ctx, query, bind(query, args)...)}
}

func (d *DB) Query(ctx context.Context, query string, args sqlstore.Args, fn func(sqlstore.Row) error) error {
	rows, err := d.db.QueryContext(ctx, query, bind(query, args)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (d *DB) Exec(ctx context.Context, query string, args sqlstore.Args) error {
	_, err := d.db.ExecContext(ctx, query, bind(query, args)...)
	return err
}

func (d *DB) Dialect() sqlstore.Dialect {
	return dialect{}
}

// bind passes only the arguments the statement references.
func bind(query string, args sqlstore.Args) []any {
	var out []any
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(query, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if v, ok := args[name]; ok {
			out = append(out, sql.Named(name, v))
		}
	}
	return out
}

type row struct {
	r *sql.Row
}

func (r row) Scan(dest ...any) error {
	err := r.r.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return sqlstore.ErrNoRows
	}
	return err
}

type dialect struct{}

func (dialect) Name() string { return "sqlite" }

func (dialect) TextSearch(index, alias string) (string, bool) {
	if index != "items_draft" {
		return "", false
	}
	return alias + ".id IN (SELECT item_id FROM items_draft_fts WHERE items_draft_fts MATCH @q)", true
}

// TextSearchArg quotes q as a single FTS5 phrase so operators in user input
// are matched literally.
func (dialect) TextSearchArg(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
}

func (dialect) Timestamp(t time.Time) any {
	return t.UTC().Format(sqlstore.TimeLayout)
}
