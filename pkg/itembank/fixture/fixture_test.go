package fixture_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank/fixture"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlite"
)

func TestLoadFile(t *testing.T) {
	b, err := fixture.LoadFile("testdata/sample.yaml")
	require.NoError(t, err)

	assert.Equal(t, fixture.Counts{Users: 2, Concepts: 3, Tags: 2, Media: 2, Drafts: 2, Published: 1}, b.Counts())

	d := b.Drafts[0]
	assert.Equal(t, "item-1", d.ID)
	require.Len(t, d.Options, 4)
	assert.True(t, d.Options[0].IsCorrect)
	assert.False(t, d.Options[3].IsCorrect)
	require.NotNil(t, d.Solution)
	require.Len(t, d.Solution.Steps, 2)
	assert.Equal(t, `\frac{1}{3} = \frac{2}{6}`, *d.Solution.Steps[0].ExprLatex)
	assert.Equal(t, []string{"t-word", "t-visual"}, d.Tags)
	assert.Equal(t, 0.5, *d.Concepts[1].Weight)
	assert.Nil(t, d.Concepts[0].Weight)
	assert.Equal(t, 2024, d.UpdatedAt.Year())

	assert.Equal(t, 1.1, b.Published[0].DifficultyParams["a"])
}

func TestParse_Invalid(t *testing.T) {
	_, err := fixture.Parse([]byte("drafts: [unterminated"))
	assert.Error(t, err)

	_, err = fixture.LoadFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	b, err := fixture.LoadFile("testdata/sample.yaml")
	require.NoError(t, err)
	require.NoError(t, fixture.Apply(ctx, db, b, fixture.ApplyOptions{}))

	// a second load collides on primary keys unless reset
	again, err := fixture.LoadFile("testdata/sample.yaml")
	require.NoError(t, err)
	assert.Error(t, fixture.Apply(ctx, db, again, fixture.ApplyOptions{}))
	require.NoError(t, fixture.Apply(ctx, db, again, fixture.ApplyOptions{Reset: true}))

	var drafts int
	require.NoError(t, db.QueryRow(ctx, "SELECT COUNT(1) FROM items_draft", nil).Scan(&drafts))
	assert.Equal(t, 2, drafts)
}

func TestApply_GeneratesIDs(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	b, err := fixture.Parse([]byte(`
drafts:
  - status: draft
    item_type: short_text
    stem_ar: عرّف المثلث
    options:
      - text_ar: first
      - text_ar: second
`))
	require.NoError(t, err)
	require.NoError(t, fixture.Apply(ctx, db, b, fixture.ApplyOptions{}))

	assert.NotEmpty(t, b.Drafts[0].ID)
	assert.NotEmpty(t, b.Drafts[0].Options[0].ID)
	assert.NotEqual(t, b.Drafts[0].Options[0].ID, b.Drafts[0].Options[1].ID)
}
