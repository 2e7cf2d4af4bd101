// Package sqlstore implements itembank.Repository over any SQL store that
// accepts @name placeholders. Backends provide a DB and a Dialect; see the
// postgres and sqlite packages.
package sqlstore

import (
	"context"
	"errors"
	"time"
)

// ErrNoRows is returned by Row.Scan when QueryRow matched nothing.
var ErrNoRows = errors.New("sqlstore: no rows in result set")

// Args binds @name placeholders.
type Args map[string]any

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
}

// DB is the store handle the repository runs against.
type DB interface {
	// QueryRow runs a query expected to return at most one row.
	QueryRow(ctx context.Context, query string, args Args) Row
	// Query runs a query and calls fn for every row.
	Query(ctx context.Context, query string, args Args, fn func(Row) error) error
	Exec(ctx context.Context, query string, args Args) error
	Dialect() Dialect
}

// Dialect covers the few places where backends disagree.
type Dialect interface {
	Name() string
	// TextSearch returns a predicate matching @q against the full-text index
	// of the table aliased as alias. ok is false when index is not supported.
	TextSearch(index, alias string) (clause string, ok bool)
	// TextSearchArg converts the user query into the value bound to @q.
	TextSearchArg(q string) string
	// Timestamp converts t into the value stored in timestamp columns.
	Timestamp(t time.Time) any
}
