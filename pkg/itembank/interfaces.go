package itembank

import "context"

// Repository defines the read operations of the item store.
type Repository interface {
	ListDraftItems(ctx context.Context, q ListQuery) (*Page[DraftItem], error)
	GetDraftItem(ctx context.Context, id string, include RelationSet) (*DraftItem, error)
	ListPublishedItems(ctx context.Context, q ListQuery) (*Page[PublishedItem], error)
	GetPublishedItem(ctx context.Context, id string, include RelationSet) (*PublishedItem, error)

	ListConcepts(ctx context.Context, q ListQuery) (*Page[Concept], error)
	GetConcept(ctx context.Context, id string) (*Concept, error)
	ListTags(ctx context.Context, q ListQuery) (*Page[Tag], error)
	ListMediaAssets(ctx context.Context, q ListQuery) (*Page[MediaAsset], error)
	ListUsers(ctx context.Context, q ListQuery) (*Page[User], error)
	GetUser(ctx context.Context, id string) (*User, error)

	ListItemVersions(ctx context.Context, itemID string, q ListQuery) (*Page[ItemVersion], error)
	ListItemReviews(ctx context.Context, itemID string, q ListQuery) (*Page[ItemReview], error)

	SearchDraftDocs(ctx context.Context, q ListQuery) (*Page[DraftDoc], error)
	SearchConceptDocs(ctx context.Context, q ListQuery) (*Page[ConceptDoc], error)
	SearchPublishedDocs(ctx context.Context, q ListQuery) (*Page[PublishedDoc], error)
}

// MediaURLStrategy turns a stored media location into a URL clients can fetch.
type MediaURLStrategy interface {
	DownloadURL(ctx context.Context, asset *MediaAsset) (string, error)
}
