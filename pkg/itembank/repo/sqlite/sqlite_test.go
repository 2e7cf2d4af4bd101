package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlite"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
	"github.com/tendant/itembank/pkg/itembank/repo/storetest"
)

func openMemory(t *testing.T) sqlstore.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestRepository(t *testing.T) {
	storetest.Run(t, openMemory)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "itembank.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openMemory(t)
	err := db.Exec(context.Background(),
		`INSERT INTO item_tags (item_id, tag_id) VALUES (@item_id, @tag_id)`,
		sqlstore.Args{"item_id": "missing", "tag_id": "missing"})
	assert.Error(t, err)
}

func TestFullTextQueryIsLiteral(t *testing.T) {
	db := openMemory(t)
	b := storetest.ManyDrafts(2)
	b.Drafts[0].StemAr = "solve x AND y"
	storetest.Seed(t, db, b)

	repo := sqlstore.New(db)
	// FTS5 operators and quotes in user input must not cause syntax errors
	for _, q := range []string{`x AND`, `"unbalanced`, `NEAR(`, `*`} {
		_, err := repo.ListDraftItems(context.Background(), itembank.NewListQuery("", "", itembank.Filters{"q": q}, nil))
		assert.NoError(t, err, q)
	}
}

func TestFullTextIndexFollowsUpdates(t *testing.T) {
	db := openMemory(t)
	storetest.Seed(t, db, storetest.ManyDrafts(1))
	ctx := context.Background()

	require.NoError(t, db.Exec(ctx, `UPDATE items_draft SET stem_ar = @stem WHERE id = @id`,
		sqlstore.Args{"stem": "perimeter of a square", "id": "draft-000"}))

	repo := sqlstore.New(db)
	page, err := repo.ListDraftItems(ctx, itembank.NewListQuery("", "", itembank.Filters{"q": "perimeter"}, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}
