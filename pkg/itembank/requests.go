package itembank

import (
	"math"
	"strconv"
	"strings"
)

// Paging bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps the computed offset well inside int range.
	MaxPage = 1_000_000
)

// PageParams is a resolved, clamped page window.
type PageParams struct {
	Page     int
	PageSize int
	Limit    int
	Offset   int
}

// ResolvePage turns raw page and pageSize values into a bounded window.
// Missing or non-numeric values fall back to the defaults; fractional values
// are floored. It never fails.
func ResolvePage(rawPage, rawPageSize string) PageParams {
	page := clamp(parseNumber(rawPage, DefaultPage), 1, MaxPage)
	size := clamp(parseNumber(rawPageSize, DefaultPageSize), 1, MaxPageSize)
	return PageParams{
		Page:     page,
		PageSize: size,
		Limit:    size,
		Offset:   (page - 1) * size,
	}
}

func parseNumber(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	f = math.Floor(f)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Filters holds raw filter values keyed by query parameter name.
type Filters map[string]string

// Get returns the value of name, or "" when absent.
func (f Filters) Get(name string) string {
	if f == nil {
		return ""
	}
	return f[name]
}

// ListQuery describes one listing request.
type ListQuery struct {
	Page    PageParams
	Filters Filters
	Include RelationSet
}

// NewListQuery resolves the page window from raw values.
func NewListQuery(rawPage, rawPageSize string, filters Filters, include RelationSet) ListQuery {
	return ListQuery{
		Page:    ResolvePage(rawPage, rawPageSize),
		Filters: filters,
		Include: include,
	}
}
