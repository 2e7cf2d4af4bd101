package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// fakeDialect mimics a backend without full-text support unless fts is set.
type fakeDialect struct {
	fts bool
}

func (fakeDialect) Name() string { return "fake" }

func (d fakeDialect) TextSearch(index, alias string) (string, bool) {
	if !d.fts {
		return "", false
	}
	return "fts(" + alias + ", @q)", true
}

func (fakeDialect) TextSearchArg(q string) string { return "<" + q + ">" }

func (fakeDialect) Timestamp(t time.Time) any { return t.UTC().Format(TimeLayout) }

type call struct {
	query string
	args  Args
}

// fakeDB answers queries from canned rows keyed by the table after FROM.
type fakeDB struct {
	rows  map[string][][]any
	calls []call
}

func (f *fakeDB) table(query string) string {
	i := strings.Index(query, "FROM ")
	if i < 0 {
		return ""
	}
	return strings.Fields(query[i+len("FROM "):])[0]
}

func (f *fakeDB) QueryRow(ctx context.Context, query string, args Args) Row {
	f.calls = append(f.calls, call{query, args})
	rows := f.rows[f.table(query)]
	if len(rows) == 0 {
		return fakeRow{err: ErrNoRows}
	}
	return fakeRow{values: rows[0]}
}

func (f *fakeDB) Query(ctx context.Context, query string, args Args, fn func(Row) error) error {
	f.calls = append(f.calls, call{query, args})
	for _, values := range f.rows[f.table(query)] {
		if err := fn(fakeRow{values: values}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDB) Exec(ctx context.Context, query string, args Args) error {
	f.calls = append(f.calls, call{query, args})
	return nil
}

func (f *fakeDB) Dialect() Dialect { return fakeDialect{} }

type fakeRow struct {
	values []any
	err    error
}

// Scan assigns values by reflection, converting between compatible kinds and
// allocating pointer destinations the way database drivers do.
func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, d := range dest {
		v := r.values[i]
		if s, ok := d.(sql.Scanner); ok {
			if err := s.Scan(v); err != nil {
				return err
			}
			continue
		}
		target := reflect.ValueOf(d).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		src := reflect.ValueOf(v)
		if target.Kind() == reflect.Pointer && src.Type() != target.Type() {
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(src.Convert(target.Type().Elem()))
			target.Set(p)
			continue
		}
		target.Set(src.Convert(target.Type()))
	}
	return nil
}
