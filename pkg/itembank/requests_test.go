package itembank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name         string
		page         string
		pageSize     string
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults", "", "", 1, 20, 0},
		{"explicit values", "3", "10", 3, 10, 20},
		{"zero page clamps to one", "0", "10", 1, 10, 0},
		{"negative page clamps to one", "-4", "10", 1, 10, 0},
		{"oversized page size clamps", "1", "1000", 1, 100, 0},
		{"zero page size clamps to one", "2", "0", 2, 1, 1},
		{"fractional values floor", "2.9", "10.7", 2, 10, 10},
		{"non-numeric falls back", "abc", "xyz", 1, 20, 0},
		{"NaN falls back", "NaN", "NaN", 1, 20, 0},
		{"infinity falls back", "Inf", "-Inf", 1, 20, 0},
		{"surrounding whitespace", " 2 ", " 5 ", 2, 5, 5},
		{"huge page clamps", "1e18", "10", MaxPage, 10, (MaxPage - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePage(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
			assert.Equal(t, tt.wantPageSize, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestFiltersGet(t *testing.T) {
	var nilFilters Filters
	assert.Equal(t, "", nilFilters.Get("status"))

	f := Filters{"status": "in_review"}
	assert.Equal(t, "in_review", f.Get("status"))
	assert.Equal(t, "", f.Get("item_type"))
}

func TestNewPage(t *testing.T) {
	p := NewPage[DraftItem](nil, PageParams{}, 0)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	tags := NewPage([]Tag{{ID: "t1"}}, ResolvePage("2", "5"), 6)
	assert.Len(t, tags.Data, 1)
	assert.Equal(t, 2, tags.Page)
	assert.Equal(t, 5, tags.PageSize)
	assert.EqualValues(t, 6, tags.Total)
}
