package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank/admin"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlite"
	"github.com/tendant/itembank/pkg/itembank/repo/storetest"
)

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	svc := admin.New(db)

	t.Run("empty store", func(t *testing.T) {
		stats, err := svc.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Drafts.TotalCount)
		assert.Empty(t, stats.Drafts.ByStatus)
		assert.Nil(t, stats.Drafts.NewestUpdate)
		assert.Nil(t, stats.Published.NewestPublished)
	})

	t.Run("sample data", func(t *testing.T) {
		storetest.SeedSample(t, db)

		stats, err := svc.GetStatistics(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 2, stats.Drafts.TotalCount)
		assert.Equal(t, map[string]int64{"in_review": 1, "draft": 1}, stats.Drafts.ByStatus)
		assert.Equal(t, map[string]int64{"mcq": 1, "numeric": 1}, stats.Drafts.ByItemType)
		require.NotNil(t, stats.Drafts.NewestUpdate)
		assert.True(t, stats.Drafts.NewestUpdate.Equal(time.Date(2024, 2, 4, 11, 0, 0, 0, time.UTC)))

		assert.EqualValues(t, 1, stats.Published.TotalCount)
		require.NotNil(t, stats.Published.NewestPublished)

		assert.EqualValues(t, 3, stats.Concepts)
		assert.EqualValues(t, 2, stats.Tags)
		assert.EqualValues(t, 2, stats.MediaAssets)
		assert.EqualValues(t, 2, stats.Users)
	})
}
