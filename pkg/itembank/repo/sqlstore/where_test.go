package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank"
)

func TestBuildWhere(t *testing.T) {
	spec := draftItems.Where

	t.Run("no filters yields empty clause", func(t *testing.T) {
		w, err := BuildWhere(spec, nil, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Empty(t, w.Clause)
		assert.Empty(t, w.Args)
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"status": "", "q": "   "}, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Empty(t, w.Clause)
	})

	t.Run("unknown parameters are ignored", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"owner": "x"}, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Empty(t, w.Clause)
	})

	t.Run("filters are AND-joined in declaration order", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"item_type": "mcq", "status": "in_review"}, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Equal(t, "WHERE d.status = @status AND d.item_type = @item_type", w.Clause)
		assert.Equal(t, Args{"status": "in_review", "item_type": "mcq"}, w.Args)
	})

	t.Run("substring search without full-text support", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"q": " Fractions "}, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Contains(t, w.Clause, "LOWER(d.stem_ar) LIKE '%' || LOWER(@q) || '%'")
		assert.Contains(t, w.Clause, "LOWER(COALESCE(d.latex, '')) LIKE")
		assert.Contains(t, w.Clause, " OR ")
		assert.Equal(t, "Fractions", w.Args["q"])
	})

	t.Run("full-text search replaces substring matching", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"q": "fractions"}, fakeDialect{fts: true}, true)
		require.NoError(t, err)
		assert.Equal(t, "WHERE fts(d, @q)", w.Clause)
		assert.NotContains(t, w.Clause, "LIKE")
		assert.Equal(t, "<fractions>", w.Args["q"])
	})

	t.Run("full-text disabled falls back to substring", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"q": "fractions"}, fakeDialect{fts: true}, false)
		require.NoError(t, err)
		assert.Contains(t, w.Clause, "LIKE")
		assert.Equal(t, "fractions", w.Args["q"])
	})

	t.Run("parse failure is a filter error", func(t *testing.T) {
		_, err := BuildWhere(concepts.Where, itembank.Filters{"grade": "fifth"}, fakeDialect{}, true)
		assert.ErrorIs(t, err, itembank.ErrInvalidFilter)

		var fe *itembank.FilterError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "grade", fe.Param)
	})

	t.Run("substring wildcards match literally", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"q": `50%_off\`}, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Contains(t, w.Clause, `LIKE '%' || LOWER(@q) || '%' ESCAPE '\'`)
		assert.Equal(t, `50\%\_off\\`, w.Args["q"])
	})

	t.Run("full-text argument is not LIKE-escaped", func(t *testing.T) {
		w, err := BuildWhere(spec, itembank.Filters{"q": "50%"}, fakeDialect{fts: true}, true)
		require.NoError(t, err)
		assert.Equal(t, "<50%>", w.Args["q"])
	})

	t.Run("text that cannot be bound is a filter error", func(t *testing.T) {
		cases := []struct {
			name    string
			filters itembank.Filters
			param   string
		}{
			{"nul in q", itembank.Filters{"q": "a\x00b"}, "q"},
			{"bare nul q", itembank.Filters{"q": "\x00"}, "q"},
			{"invalid utf-8 in q", itembank.Filters{"q": "frac\xfftion"}, "q"},
			{"nul in equality filter", itembank.Filters{"status": "draft\x00"}, "status"},
			{"invalid utf-8 in equality filter", itembank.Filters{"item_type": "\xc3"}, "item_type"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := BuildWhere(spec, tc.filters, fakeDialect{fts: true}, true)
				assert.ErrorIs(t, err, itembank.ErrInvalidFilter)

				var fe *itembank.FilterError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tc.param, fe.Param)
			})
		}
	})

	t.Run("parsed values are bound", func(t *testing.T) {
		w, err := BuildWhere(concepts.Where, itembank.Filters{"grade": "5"}, fakeDialect{}, true)
		require.NoError(t, err)
		assert.Equal(t, "WHERE c.grade = @grade", w.Clause)
		assert.Equal(t, 5, w.Args["grade"])
	})
}

func TestInList(t *testing.T) {
	list, args := inList("id", []string{"a", "b", "c"})
	assert.Equal(t, "@id0, @id1, @id2", list)
	assert.Equal(t, Args{"id0": "a", "id1": "b", "id2": "c"}, args)
}
