package sqlstore

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tendant/itembank/pkg/itembank"
)

// SearchParam is the query parameter carrying free text.
const SearchParam = "q"

// likeEscaper makes the bound search text match literally under LIKE ... ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var errInvalidText = errors.New("value must be valid UTF-8 without NUL bytes")

// validText reports whether s can be bound as a text parameter on every backend.
func validText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// Filter maps one query parameter onto one SQL predicate. Clause references
// the value as @Param. Parse, when set, converts the raw value first.
type Filter struct {
	Param  string
	Clause string
	Parse  func(string) (any, error)
}

// TextColumn is one column searched by substring.
type TextColumn struct {
	Expr     string
	Nullable bool
}

// TextFilter describes the free-text search of an entity.
type TextFilter struct {
	Columns []TextColumn
	// Index names the full-text index of the table aliased as Alias. Empty
	// means substring search only.
	Index string
	Alias string
}

// WhereSpec lists the filters an entity accepts, in emission order.
type WhereSpec struct {
	Filters []Filter
	Text    *TextFilter
}

// Where is a built WHERE clause and the arguments it references.
type Where struct {
	Clause string
	Args   Args
}

// BuildWhere assembles the WHERE clause for the given filter values. Empty
// values are ignored. The text filter uses the full-text index when fullText
// is set and the dialect supports it, and substring matching otherwise.
func BuildWhere(spec WhereSpec, filters itembank.Filters, d Dialect, fullText bool) (Where, error) {
	var conditions []string
	args := Args{}

	for _, f := range spec.Filters {
		raw := filters.Get(f.Param)
		if raw == "" {
			continue
		}
		if !validText(raw) {
			return Where{}, &itembank.FilterError{Param: f.Param, Value: raw, Err: errInvalidText}
		}
		var value any = raw
		if f.Parse != nil {
			v, err := f.Parse(raw)
			if err != nil {
				return Where{}, &itembank.FilterError{Param: f.Param, Value: raw, Err: err}
			}
			value = v
		}
		conditions = append(conditions, f.Clause)
		args[f.Param] = value
	}

	if spec.Text != nil {
		if q := strings.TrimSpace(filters.Get(SearchParam)); q != "" {
			if !validText(q) {
				return Where{}, &itembank.FilterError{Param: SearchParam, Value: q, Err: errInvalidText}
			}
			clause, value := textCondition(spec.Text, q, d, fullText)
			if clause != "" {
				conditions = append(conditions, clause)
				args[SearchParam] = value
			}
		}
	}

	if len(conditions) == 0 {
		return Where{Args: args}, nil
	}
	return Where{Clause: "WHERE " + strings.Join(conditions, " AND "), Args: args}, nil
}

func textCondition(t *TextFilter, q string, d Dialect, fullText bool) (string, any) {
	if fullText && t.Index != "" && d != nil {
		if clause, ok := d.TextSearch(t.Index, t.Alias); ok {
			return clause, d.TextSearchArg(q)
		}
	}
	if len(t.Columns) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		expr := c.Expr
		if c.Nullable {
			expr = "COALESCE(" + expr + ", '')"
		}
		parts = append(parts, "LOWER("+expr+") LIKE '%' || LOWER(@"+SearchParam+") || '%' ESCAPE '\\'")
	}
	value := likeEscaper.Replace(q)
	if len(parts) == 1 {
		return parts[0], value
	}
	return "(" + strings.Join(parts, " OR ") + ")", value
}

// merge returns a copy of a with b's entries added.
func (a Args) merge(b Args) Args {
	out := make(Args, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// inList renders @prefix0, @prefix1, ... for ids and binds them.
func inList(prefix string, ids []string) (string, Args) {
	names := make([]string, len(ids))
	args := make(Args, len(ids))
	for i, id := range ids {
		name := prefix + strconv.Itoa(i)
		names[i] = "@" + name
		args[name] = id
	}
	return strings.Join(names, ", "), args
}
