// Package storetest holds the repository behaviour every backend must pass.
package storetest

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank"
	"github.com/tendant/itembank/pkg/itembank/fixture"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

// Counting wraps a DB and counts the statements that read rows.
type Counting struct {
	sqlstore.DB
	Queries int
}

func (c *Counting) QueryRow(ctx context.Context, query string, args sqlstore.Args) sqlstore.Row {
	c.Queries++
	return c.DB.QueryRow(ctx, query, args)
}

func (c *Counting) Query(ctx context.Context, query string, args sqlstore.Args, fn func(sqlstore.Row) error) error {
	c.Queries++
	return c.DB.Query(ctx, query, args, fn)
}

// SamplePath is the shared sample bundle.
func SamplePath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "fixture", "testdata", "sample.yaml")
}

// Seed replaces the contents of db with b.
func Seed(t *testing.T, db sqlstore.DB, b *fixture.Bundle) {
	t.Helper()
	err := fixture.Apply(context.Background(), db, b, fixture.ApplyOptions{Reset: true})
	require.NoError(t, err)
}

// SeedSample loads the sample bundle.
func SeedSample(t *testing.T, db sqlstore.DB) {
	t.Helper()
	b, err := fixture.LoadFile(SamplePath())
	require.NoError(t, err)
	Seed(t, db, b)
}

// ManyDrafts builds n drafts, one minute apart, where every third one is
// in_review. Draft i is named draft-%03d.
func ManyDrafts(n int) *fixture.Bundle {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	b := &fixture.Bundle{}
	for i := 0; i < n; i++ {
		status := "draft"
		if i%3 == 0 {
			status = "in_review"
		}
		b.Drafts = append(b.Drafts, fixture.DraftItem{
			ID:        fmt.Sprintf("draft-%03d", i),
			Status:    status,
			ItemType:  "mcq",
			StemAr:    fmt.Sprintf("سؤال رقم %d", i),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return b
}

func list(page, pageSize string, filters itembank.Filters, include itembank.RelationSet) itembank.ListQuery {
	return itembank.NewListQuery(page, pageSize, filters, include)
}

func ids[T any](rows []T, id func(T) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = id(r)
	}
	return out
}

// Run exercises a Repository built on the DB returned by open. open must
// return a migrated database; each subtest reseeds it.
func Run(t *testing.T, open func(t *testing.T) sqlstore.DB) {
	ctx := context.Background()

	t.Run("filtered page of drafts", func(t *testing.T) {
		db := open(t)
		Seed(t, db, ManyDrafts(60))
		repo := sqlstore.New(db)

		page, err := repo.ListDraftItems(ctx, list("2", "10", itembank.Filters{"status": "in_review"}, nil))
		require.NoError(t, err)

		assert.EqualValues(t, 20, page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 10, page.PageSize)

		var want []string
		for k := 10; k < 20; k++ {
			want = append(want, fmt.Sprintf("draft-%03d", 57-3*k))
		}
		assert.Equal(t, want, ids(page.Data, func(d itembank.DraftItem) string { return d.ID }))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		db := open(t)
		Seed(t, db, ManyDrafts(5))
		repo := sqlstore.New(db)

		page, err := repo.ListDraftItems(ctx, list("3", "10", nil, nil))
		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
		assert.EqualValues(t, 5, page.Total)
	})

	t.Run("include loads one query per relation", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		counting := &Counting{DB: db}
		repo := sqlstore.New(counting)

		include := itembank.ParseInclude("options,solution", itembank.OwnerDraft)
		page, err := repo.ListDraftItems(ctx, list("", "", nil, include))
		require.NoError(t, err)

		// count + page + options + solution
		assert.Equal(t, 4, counting.Queries)
		require.Len(t, page.Data, 2)

		item1, item2 := page.Data[1], page.Data[0]
		require.Equal(t, "item-1", item1.ID)
		require.Equal(t, "item-2", item2.ID)

		assert.Equal(t, []string{"opt-d1-a", "opt-d1-b", "opt-d1-c", "opt-d1-d"}, ids(item1.Options, func(o itembank.AnswerOption) string { return o.ID }))
		assert.True(t, item1.Options[0].IsCorrect)
		for _, o := range item1.Options[1:] {
			assert.False(t, o.IsCorrect, o.ID)
		}
		require.NotNil(t, item1.Solution)
		assert.Len(t, item1.Solution.Steps, 2)
		assert.Nil(t, item1.Hints)

		assert.Empty(t, item2.Options)
		assert.Nil(t, item2.Solution)
	})

	t.Run("no include issues no child queries", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		counting := &Counting{DB: db}
		repo := sqlstore.New(counting)

		_, err := repo.ListDraftItems(ctx, list("", "", nil, nil))
		require.NoError(t, err)
		assert.Equal(t, 2, counting.Queries)
	})

	t.Run("draft and published ids do not share children", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		all := itembank.RelationSet{itembank.RelOptions, itembank.RelHints, itembank.RelSolution}

		draft, err := repo.GetDraftItem(ctx, "item-1", all)
		require.NoError(t, err)
		prod, err := repo.GetPublishedItem(ctx, "item-1", all)
		require.NoError(t, err)

		assert.Equal(t, []string{"opt-d1-a", "opt-d1-b", "opt-d1-c", "opt-d1-d"}, ids(draft.Options, func(o itembank.AnswerOption) string { return o.ID }))
		assert.Equal(t, []string{"opt-p1-a", "opt-p1-b"}, ids(prod.Options, func(o itembank.AnswerOption) string { return o.ID }))
		assert.Equal(t, "sol-d1", draft.Solution.ID)
		assert.Equal(t, "sol-p1", prod.Solution.ID)
		for _, o := range prod.Options {
			assert.Equal(t, itembank.OwnerProd, o.OwnerType)
		}
		assert.Len(t, draft.Hints, 1)
		assert.Len(t, prod.Hints, 1)
		assert.Equal(t, 1.1, prod.DifficultyParams["a"])
	})

	t.Run("draft-only relations", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		item, err := repo.GetDraftItem(ctx, "item-1", itembank.ParseInclude("media,tags,concepts", itembank.OwnerDraft))
		require.NoError(t, err)

		require.Len(t, item.Media, 1)
		require.NotNil(t, item.Media[0].Asset)
		assert.Equal(t, "s3://itembank-media/images/pizza.png", item.Media[0].Asset.S3URL)
		assert.Equal(t, 640, *item.Media[0].Asset.Width)

		assert.Equal(t, []string{"visual", "word-problem"}, ids(item.Tags, func(t itembank.ItemTag) string { return t.Code }))
		require.Len(t, item.Concepts, 2)
		assert.Equal(t, "G5.NUM.FRAC", item.Concepts[0].Code)
		assert.Equal(t, 0.5, item.Concepts[0].Weight)
		assert.Equal(t, 1.0, item.Concepts[1].Weight)
	})

	t.Run("missing ids are not found", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		_, err := repo.GetDraftItem(ctx, "nope", nil)
		assert.ErrorIs(t, err, itembank.ErrNotFound)
		_, err = repo.GetPublishedItem(ctx, "nope", nil)
		assert.ErrorIs(t, err, itembank.ErrNotFound)
		_, err = repo.GetConcept(ctx, "nope")
		assert.ErrorIs(t, err, itembank.ErrNotFound)
		_, err = repo.GetUser(ctx, "nope")
		assert.ErrorIs(t, err, itembank.ErrNotFound)
		_, err = repo.ListItemVersions(ctx, "nope", list("", "", nil, nil))
		assert.ErrorIs(t, err, itembank.ErrNotFound)
	})

	t.Run("decoded columns", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		item, err := repo.GetDraftItem(ctx, "item-1", nil)
		require.NoError(t, err)
		assert.Equal(t, "workbook", item.Meta["source"])
		assert.Equal(t, 0.4, *item.DifficultyEst)
		assert.Equal(t, itembank.ItemStatus("in_review"), item.Status)
		assert.True(t, item.UpdatedAt.Equal(time.Date(2024, 2, 3, 9, 30, 0, 0, time.UTC)))

		other, err := repo.GetDraftItem(ctx, "item-2", nil)
		require.NoError(t, err)
		assert.Nil(t, other.Meta)
		assert.Nil(t, other.Latex)
	})

	t.Run("empty q matches no q", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		none, err := repo.ListDraftItems(ctx, list("", "", nil, nil))
		require.NoError(t, err)
		empty, err := repo.ListDraftItems(ctx, list("", "", itembank.Filters{"q": ""}, nil))
		require.NoError(t, err)
		assert.Equal(t, none.Total, empty.Total)
	})

	t.Run("full-text and substring search", func(t *testing.T) {
		db := open(t)
		b := ManyDrafts(3)
		b.Drafts[0].StemAr = "add the fractions"
		b.Drafts[1].StemAr = "measure the angle"
		Seed(t, db, b)

		fts := sqlstore.New(db)
		like := sqlstore.New(db, sqlstore.WithFullTextSearch(false))

		page, err := fts.ListDraftItems(ctx, list("", "", itembank.Filters{"q": "fractions"}, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"draft-000"}, ids(page.Data, func(d itembank.DraftItem) string { return d.ID }))

		// whole-word index does not match a fragment
		page, err = fts.ListDraftItems(ctx, list("", "", itembank.Filters{"q": "fract"}, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 0, page.Total)

		page, err = like.ListDraftItems(ctx, list("", "", itembank.Filters{"q": "FRACT"}, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"draft-000"}, ids(page.Data, func(d itembank.DraftItem) string { return d.ID }))
	})

	t.Run("substring search treats wildcards literally", func(t *testing.T) {
		db := open(t)
		b := ManyDrafts(3)
		b.Drafts[2].StemAr = "shade 50% of a 10_cm strip"
		Seed(t, db, b)

		like := sqlstore.New(db, sqlstore.WithFullTextSearch(false))
		for _, q := range []string{"%", "_", "0%", `\`} {
			page, err := like.ListDraftItems(ctx, list("", "", itembank.Filters{"q": q}, nil))
			require.NoError(t, err, q)
			want := []string{"draft-002"}
			if q == `\` {
				want = []string{}
			}
			assert.Equal(t, want, ids(page.Data, func(d itembank.DraftItem) string { return d.ID }), q)
		}
	})

	t.Run("unbindable text is rejected before querying", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		counting := &Counting{DB: db}
		repo := sqlstore.New(counting)

		_, err := repo.ListDraftItems(ctx, list("", "", itembank.Filters{"q": "a\x00b"}, nil))
		assert.ErrorIs(t, err, itembank.ErrInvalidFilter)
		_, err = repo.SearchDraftDocs(ctx, list("", "", itembank.Filters{"q": "\xff"}, nil))
		assert.ErrorIs(t, err, itembank.ErrInvalidFilter)
		_, err = repo.ListUsers(ctx, list("", "", itembank.Filters{"role": "admin\x00"}, nil))
		assert.ErrorIs(t, err, itembank.ErrInvalidFilter)
		assert.Zero(t, counting.Queries)
	})

	t.Run("concept filters", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		drafts, err := repo.ListDraftItems(ctx, list("", "", itembank.Filters{"concept_id": "c-angles"}, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"item-2"}, ids(drafts.Data, func(d itembank.DraftItem) string { return d.ID }))

		prod, err := repo.ListPublishedItems(ctx, list("", "", itembank.Filters{"concept_id": "c-angles"}, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 1, prod.Total)

		concepts, err := repo.ListConcepts(ctx, list("", "", itembank.Filters{"grade": "5"}, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"c-fractions", "c-fractions-add"}, ids(concepts.Data, func(c itembank.Concept) string { return c.ID }))
		assert.Equal(t, "c-fractions", *concepts.Data[1].ParentID)

		_, err = repo.ListConcepts(ctx, list("", "", itembank.Filters{"grade": "five"}, nil))
		assert.ErrorIs(t, err, itembank.ErrInvalidFilter)
	})

	t.Run("history", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		versions, err := repo.ListItemVersions(ctx, "item-1", list("", "", nil, nil))
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, []int{versions.Data[0].Ver, versions.Data[1].Ver})
		assert.NotNil(t, versions.Data[0].Snapshot)

		// an item_id query parameter cannot widen the scope
		reviews, err := repo.ListItemReviews(ctx, "item-2", list("", "", itembank.Filters{"item_id": "item-1"}, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 0, reviews.Total)

		reviews, err = repo.ListItemReviews(ctx, "item-1", list("", "", itembank.Filters{"decision": "changes_requested"}, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 1, reviews.Total)
	})

	t.Run("reference data", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		tags, err := repo.ListTags(ctx, list("", "", itembank.Filters{"kind": "format"}, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 1, tags.Total)

		media, err := repo.ListMediaAssets(ctx, list("", "", itembank.Filters{"kind": "svg"}, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"m-angle"}, ids(media.Data, func(m itembank.MediaAsset) string { return m.ID }))

		users, err := repo.ListUsers(ctx, list("", "", itembank.Filters{"role": "reviewer"}, nil))
		require.NoError(t, err)
		require.Len(t, users.Data, 1)
		assert.Equal(t, "en", users.Data[0].Locale)

		user, err := repo.GetUser(ctx, "u-author")
		require.NoError(t, err)
		assert.Equal(t, "ar", user.Locale)
	})

	t.Run("search documents", func(t *testing.T) {
		db := open(t)
		SeedSample(t, db)
		repo := sqlstore.New(db)

		docs, err := repo.SearchDraftDocs(ctx, list("", "", nil, nil))
		require.NoError(t, err)
		require.Len(t, docs.Data, 2)
		byID := map[string]itembank.DraftDoc{}
		for _, d := range docs.Data {
			byID[d.ID] = d
		}
		assert.Equal(t, []string{"G5.NUM.FRAC", "G5.NUM.FRAC.ADD"}, byID["item-1"].ConceptCodes)
		assert.Equal(t, []string{"visual", "word-problem"}, byID["item-1"].TagCodes)
		assert.Equal(t, []string{"G7.GEO.ANG"}, byID["item-2"].ConceptCodes)
		assert.NotNil(t, byID["item-2"].TagCodes)
		assert.Empty(t, byID["item-2"].TagCodes)

		filtered, err := repo.SearchDraftDocs(ctx, list("", "", itembank.Filters{"concept": "G7.GEO.ANG"}, nil))
		require.NoError(t, err)
		assert.EqualValues(t, 1, filtered.Total)

		concepts, err := repo.SearchConceptDocs(ctx, list("", "", itembank.Filters{"strand": "geometry"}, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"c-angles"}, ids(concepts.Data, func(c itembank.ConceptDoc) string { return c.ID }))

		prod, err := repo.SearchPublishedDocs(ctx, list("", "", itembank.Filters{"concept": "G7.GEO.ANG"}, nil))
		require.NoError(t, err)
		require.Len(t, prod.Data, 1)
		assert.Equal(t, "G7.GEO.ANG", *prod.Data[0].ConceptMainCode)
		assert.Equal(t, 3, prod.Data[0].PublishedVer)
	})
}
