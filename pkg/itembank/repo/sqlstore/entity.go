package sqlstore

import (
	"context"
	"errors"
	"strings"

	"github.com/tendant/itembank/pkg/itembank"
)

// Entity describes how one listing is read: the source relation, the
// projected columns, a total order and the accepted filters.
type Entity[T any] struct {
	// Name is the entity label used in not-found errors.
	Name     string
	From     string
	Columns  []string
	IDColumn string
	// OrderBy must end with the id column so pages are stable.
	OrderBy string
	Where   WhereSpec
	Scan    func(Row) (T, error)
}

func (e *Entity[T]) selectList() string {
	return joinColumns(e.Columns)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// countQuery and pageQuery share one WHERE clause.
func (e *Entity[T]) countQuery(where Where) string {
	return "SELECT COUNT(1) FROM " + e.From + " " + where.Clause
}

func (e *Entity[T]) pageQuery(where Where) string {
	return "SELECT " + e.selectList() + " FROM " + e.From + " " + where.Clause +
		" ORDER BY " + e.OrderBy + " LIMIT @limit OFFSET @offset"
}

// fetchPage returns one page of rows and the total match count.
func (e *Entity[T]) fetchPage(ctx context.Context, db DB, q itembank.ListQuery, fullText bool) ([]T, int64, error) {
	if q.Page.PageSize == 0 {
		q.Page = itembank.ResolvePage("", "")
	}
	where, err := BuildWhere(e.Where, q.Filters, db.Dialect(), fullText)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.QueryRow(ctx, e.countQuery(where), where.Args).Scan(&total); err != nil {
		return nil, 0, &itembank.QueryError{Op: "count " + e.Name, Err: err}
	}

	args := where.Args.merge(Args{"limit": q.Page.Limit, "offset": q.Page.Offset})
	rows := make([]T, 0, q.Page.Limit)
	err = db.Query(ctx, e.pageQuery(where), args, func(r Row) error {
		v, err := e.Scan(r)
		if err != nil {
			return err
		}
		rows = append(rows, v)
		return nil
	})
	if err != nil {
		return nil, 0, wrapQueryError("list "+e.Name, err)
	}
	return rows, total, nil
}

// getByID returns the row with the given id or a NotFoundError.
func (e *Entity[T]) getByID(ctx context.Context, db DB, id string) (*T, error) {
	query := "SELECT " + e.selectList() + " FROM " + e.From + " WHERE " + e.IDColumn + " = @id"
	v, err := e.Scan(db.QueryRow(ctx, query, Args{"id": id}))
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, &itembank.NotFoundError{Entity: e.Name, ID: id}
		}
		return nil, wrapQueryError("get "+e.Name, err)
	}
	return &v, nil
}

// wrapQueryError leaves domain errors intact and wraps store failures.
func wrapQueryError(op string, err error) error {
	var decodeErr *itembank.DecodeError
	var integrityErr *itembank.IntegrityError
	var queryErr *itembank.QueryError
	if errors.As(err, &decodeErr) || errors.As(err, &integrityErr) || errors.As(err, &queryErr) {
		return err
	}
	return &itembank.QueryError{Op: op, Err: err}
}
