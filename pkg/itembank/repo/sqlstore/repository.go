package sqlstore

import (
	"context"
	"errors"

	"github.com/tendant/itembank/pkg/itembank"
)

// Repository implements itembank.Repository on a DB.
type Repository struct {
	db       DB
	loader   loader
	fullText bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithFullTextSearch toggles use of the dialect's full-text index for q.
// Substring matching is used when it is off or unsupported.
func WithFullTextSearch(enabled bool) Option {
	return func(r *Repository) {
		r.fullText = enabled
	}
}

// New creates a repository. Full-text search is on by default.
func New(db DB, opts ...Option) *Repository {
	r := &Repository{db: db, loader: loader{db: db}, fullText: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ itembank.Repository = (*Repository)(nil)

// Draft items

func (r *Repository) ListDraftItems(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.DraftItem], error) {
	items, total, err := draftItems.fetchPage(ctx, r.db, q, r.fullText)
	if err != nil {
		return nil, err
	}
	ch, err := r.loader.load(ctx, itembank.OwnerSet{Type: itembank.OwnerDraft, IDs: draftIDs(items)}, q.Include)
	if err != nil {
		return nil, err
	}
	if err := attachDraft(items, ch); err != nil {
		return nil, err
	}
	return itembank.NewPage(items, q.Page, total), nil
}

func (r *Repository) GetDraftItem(ctx context.Context, id string, include itembank.RelationSet) (*itembank.DraftItem, error) {
	item, err := draftItems.getByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	ch, err := r.loader.load(ctx, itembank.OwnerSet{Type: itembank.OwnerDraft, IDs: []string{item.ID}}, include)
	if err != nil {
		return nil, err
	}
	items := []itembank.DraftItem{*item}
	if err := attachDraft(items, ch); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *Repository) ListItemVersions(ctx context.Context, itemID string, q itembank.ListQuery) (*itembank.Page[itembank.ItemVersion], error) {
	if err := r.requireDraft(ctx, itemID); err != nil {
		return nil, err
	}
	q.Filters = scoped(q.Filters, itemIDParam, itemID)
	rows, total, err := itemVersions.fetchPage(ctx, r.db, q, false)
	if err != nil {
		return nil, err
	}
	return itembank.NewPage(rows, q.Page, total), nil
}

func (r *Repository) ListItemReviews(ctx context.Context, itemID string, q itembank.ListQuery) (*itembank.Page[itembank.ItemReview], error) {
	if err := r.requireDraft(ctx, itemID); err != nil {
		return nil, err
	}
	q.Filters = scoped(q.Filters, itemIDParam, itemID)
	rows, total, err := itemReviews.fetchPage(ctx, r.db, q, false)
	if err != nil {
		return nil, err
	}
	return itembank.NewPage(rows, q.Page, total), nil
}

func (r *Repository) requireDraft(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRow(ctx, "SELECT 1 FROM items_draft WHERE id = @id", Args{"id": id}).Scan(&one)
	if errors.Is(err, ErrNoRows) {
		return &itembank.NotFoundError{Entity: draftItems.Name, ID: id}
	}
	if err != nil {
		return &itembank.QueryError{Op: "get " + draftItems.Name, Err: err}
	}
	return nil
}

// scoped returns a copy of f with name forced to value.
func scoped(f itembank.Filters, name, value string) itembank.Filters {
	out := make(itembank.Filters, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[name] = value
	return out
}

// Published items

func (r *Repository) ListPublishedItems(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.PublishedItem], error) {
	items, total, err := publishedItems.fetchPage(ctx, r.db, q, r.fullText)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	ch, err := r.loader.load(ctx, itembank.OwnerSet{Type: itembank.OwnerProd, IDs: ids}, q.Include)
	if err != nil {
		return nil, err
	}
	if err := attachPublished(items, ch); err != nil {
		return nil, err
	}
	return itembank.NewPage(items, q.Page, total), nil
}

func (r *Repository) GetPublishedItem(ctx context.Context, id string, include itembank.RelationSet) (*itembank.PublishedItem, error) {
	item, err := publishedItems.getByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	ch, err := r.loader.load(ctx, itembank.OwnerSet{Type: itembank.OwnerProd, IDs: []string{item.ID}}, include)
	if err != nil {
		return nil, err
	}
	items := []itembank.PublishedItem{*item}
	if err := attachPublished(items, ch); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Reference data

func (r *Repository) ListConcepts(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.Concept], error) {
	return listPage(ctx, r.db, concepts, q, r.fullText)
}

func (r *Repository) GetConcept(ctx context.Context, id string) (*itembank.Concept, error) {
	return concepts.getByID(ctx, r.db, id)
}

func (r *Repository) ListTags(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.Tag], error) {
	return listPage(ctx, r.db, tags, q, r.fullText)
}

func (r *Repository) ListMediaAssets(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.MediaAsset], error) {
	return listPage(ctx, r.db, mediaAssets, q, r.fullText)
}

func (r *Repository) ListUsers(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.User], error) {
	return listPage(ctx, r.db, users, q, r.fullText)
}

func (r *Repository) GetUser(ctx context.Context, id string) (*itembank.User, error) {
	return users.getByID(ctx, r.db, id)
}

// Search documents

// SearchDraftDocs denormalizes concept and tag codes with two batch queries.
func (r *Repository) SearchDraftDocs(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.DraftDoc], error) {
	docs, total, err := draftDocs.fetchPage(ctx, r.db, q, r.fullText)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
	}
	ch, err := r.loader.load(ctx, itembank.OwnerSet{Type: itembank.OwnerDraft, IDs: ids},
		itembank.RelationSet{itembank.RelConcepts, itembank.RelTags})
	if err != nil {
		return nil, err
	}
	for i := range docs {
		for _, c := range ch.concepts[docs[i].ID] {
			docs[i].ConceptCodes = append(docs[i].ConceptCodes, c.Code)
		}
		for _, t := range ch.tags[docs[i].ID] {
			docs[i].TagCodes = append(docs[i].TagCodes, t.Code)
		}
	}
	return itembank.NewPage(docs, q.Page, total), nil
}

func (r *Repository) SearchConceptDocs(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.ConceptDoc], error) {
	return listPage(ctx, r.db, conceptDocs, q, r.fullText)
}

func (r *Repository) SearchPublishedDocs(ctx context.Context, q itembank.ListQuery) (*itembank.Page[itembank.PublishedDoc], error) {
	return listPage(ctx, r.db, publishedDocs, q, r.fullText)
}

func listPage[T any](ctx context.Context, db DB, e *Entity[T], q itembank.ListQuery, fullText bool) (*itembank.Page[T], error) {
	rows, total, err := e.fetchPage(ctx, db, q, fullText)
	if err != nil {
		return nil, err
	}
	return itembank.NewPage(rows, q.Page, total), nil
}

func draftIDs(items []itembank.DraftItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}
