package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank"
)

func optionRow(id, owner string, order int, correct int64) []any {
	return []any{id, owner, "draft", order, "text " + id, nil, correct, nil, nil}
}

func draftSet(ids ...string) itembank.OwnerSet {
	return itembank.OwnerSet{Type: itembank.OwnerDraft, IDs: ids}
}

func TestLoader_NoQueryWithoutIDsOrRelations(t *testing.T) {
	db := &fakeDB{}
	l := loader{db: db}

	ch, err := l.load(context.Background(), draftSet(), itembank.RelationSet{itembank.RelOptions})
	require.NoError(t, err)
	assert.Empty(t, ch.options)

	ch, err = l.load(context.Background(), draftSet("d1"), nil)
	require.NoError(t, err)
	assert.Empty(t, ch.options)

	assert.Empty(t, db.calls)
}

func TestLoader_OneQueryPerRelation(t *testing.T) {
	db := &fakeDB{}
	l := loader{db: db}

	rels := itembank.RelationSet{itembank.RelOptions, itembank.RelSolution, itembank.RelTags}
	_, err := l.load(context.Background(), draftSet("d1", "d2", "d1"), rels)
	require.NoError(t, err)
	require.Len(t, db.calls, 3)

	options := db.calls[0]
	assert.Contains(t, options.query, "o.owner_type = @owner_type AND o.owner_id IN (@id0, @id1)")
	assert.Equal(t, Args{"id0": "d1", "id1": "d2", "owner_type": "draft"}, options.args)

	assert.Contains(t, db.calls[1].query, "FROM item_solutions")

	tags := db.calls[2]
	assert.Contains(t, tags.query, "it.item_id IN (@id0, @id1)")
	assert.NotContains(t, tags.args, "owner_type")
}

func TestLoader_RejectsBadOwners(t *testing.T) {
	db := &fakeDB{}
	l := loader{db: db}

	_, err := l.load(context.Background(), itembank.OwnerSet{Type: "archive", IDs: []string{"x"}}, itembank.RelationSet{itembank.RelOptions})
	assert.Error(t, err)

	_, err = l.load(context.Background(), itembank.OwnerSet{Type: itembank.OwnerProd, IDs: []string{"p1"}}, itembank.RelationSet{itembank.RelTags})
	var ie *itembank.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, itembank.RelTags, ie.Relation)

	assert.Empty(t, db.calls)
}

func TestLoader_GroupsOptionsByOwner(t *testing.T) {
	db := &fakeDB{rows: map[string][][]any{
		"item_options": {
			optionRow("o1", "d1", 0, 1),
			optionRow("o2", "d1", 1, 0),
			optionRow("o3", "d2", 0, 0),
		},
	}}
	l := loader{db: db}

	ch, err := l.load(context.Background(), draftSet("d1", "d2", "d3"), itembank.RelationSet{itembank.RelOptions})
	require.NoError(t, err)

	require.Len(t, ch.options["d1"], 2)
	assert.True(t, ch.options["d1"][0].IsCorrect)
	assert.False(t, ch.options["d1"][1].IsCorrect)
	assert.Equal(t, itembank.OwnerDraft, ch.options["d1"][0].OwnerType)
	assert.Len(t, ch.options["d2"], 1)
	assert.Empty(t, ch.options["d3"])
}

func TestLoader_OrphanChildIsIntegrityError(t *testing.T) {
	db := &fakeDB{rows: map[string][][]any{
		"item_options": {optionRow("o1", "someone-else", 0, 0)},
	}}
	l := loader{db: db}

	_, err := l.load(context.Background(), draftSet("d1"), itembank.RelationSet{itembank.RelOptions})
	var ie *itembank.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "someone-else", ie.OwnerID)
}

func TestLoader_DuplicateSolution(t *testing.T) {
	db := &fakeDB{rows: map[string][][]any{
		"item_solutions": {
			{"s1", "d1", "draft", `[{"text_ar":"خطوة"}]`, "4", nil, nil},
			{"s2", "d1", "draft", `[]`, nil, nil, nil},
		},
	}}
	l := loader{db: db}

	_, err := l.load(context.Background(), draftSet("d1"), itembank.RelationSet{itembank.RelSolution})
	var ie *itembank.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, itembank.RelSolution, ie.Relation)
}

func TestLoader_SolutionStepsDecode(t *testing.T) {
	db := &fakeDB{rows: map[string][][]any{
		"item_solutions": {{"s1", "d1", "draft", `[{"text_ar":"خطوة","expr_latex":"x=2"}]`, "2", nil, `{"source":"book"}`}},
	}}
	l := loader{db: db}

	ch, err := l.load(context.Background(), draftSet("d1"), itembank.RelationSet{itembank.RelSolution})
	require.NoError(t, err)

	s := ch.solutions["d1"]
	require.NotNil(t, s)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, "x=2", *s.Steps[0].ExprLatex)
	assert.Equal(t, "2", *s.FinalAnswer)
	assert.Equal(t, "book", s.Meta["source"])
}

func TestLoader_BadJSONIsDecodeError(t *testing.T) {
	db := &fakeDB{rows: map[string][][]any{
		"item_hints": {{"h1", "d1", "draft", 0, "hint", nil, `{not json`}},
	}}
	l := loader{db: db}

	_, err := l.load(context.Background(), draftSet("d1"), itembank.RelationSet{itembank.RelHints})
	var de *itembank.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "item_hints", de.Table)
	assert.Equal(t, "h1", de.RowID)
}

func TestLoader_MediaWithoutAsset(t *testing.T) {
	db := &fakeDB{rows: map[string][][]any{
		"item_media": {
			{"im1", "d1", "draft", "m1", "stem", 0, "m1", "s3://b/k.png", "image", nil, 10, 20, nil, "2024-01-01T00:00:00.000000Z"},
			{"im2", "d1", "draft", "m2", nil, 1, nil, nil, nil, nil, nil, nil, nil, nil},
		},
	}}
	l := loader{db: db}

	ch, err := l.load(context.Background(), draftSet("d1"), itembank.RelationSet{itembank.RelMedia})
	require.NoError(t, err)

	media := ch.media["d1"]
	require.Len(t, media, 2)
	require.NotNil(t, media[0].Asset)
	assert.Equal(t, "s3://b/k.png", media[0].Asset.S3URL)
	assert.Equal(t, 10, *media[0].Asset.Width)
	assert.Equal(t, 2024, media[0].Asset.CreatedAt.Year())
	assert.Nil(t, media[1].Asset)
}

func TestAttach(t *testing.T) {
	items := []itembank.DraftItem{{ID: "d1"}, {ID: "d2"}}
	ch := &children{
		options: map[string][]itembank.AnswerOption{"d2": {{ID: "o1"}}},
	}
	require.NoError(t, attachDraft(items, ch))
	assert.Empty(t, items[0].Options)
	assert.Len(t, items[1].Options, 1)

	ch = &children{hints: map[string][]itembank.Hint{"d9": {{ID: "h1"}}}}
	var ie *itembank.IntegrityError
	require.ErrorAs(t, attachDraft(items, ch), &ie)
	assert.Equal(t, "d9", ie.OwnerID)

	published := []itembank.PublishedItem{{ID: "d1"}}
	ch = &children{tags: map[string][]itembank.ItemTag{"d1": {{ItemID: "d1"}}}}
	assert.Error(t, attachPublished(published, ch))
}
