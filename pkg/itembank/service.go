package itembank

import "context"

// Service defines the main interface of the item bank
type Service interface {
	// Draft items
	ListDraftItems(ctx context.Context, q ListQuery) (*Page[DraftItem], error)
	GetDraftItem(ctx context.Context, id string, include RelationSet) (*DraftItem, error)
	ListItemVersions(ctx context.Context, itemID string, q ListQuery) (*Page[ItemVersion], error)
	ListItemReviews(ctx context.Context, itemID string, q ListQuery) (*Page[ItemReview], error)

	// Published items
	ListPublishedItems(ctx context.Context, q ListQuery) (*Page[PublishedItem], error)
	GetPublishedItem(ctx context.Context, id string, include RelationSet) (*PublishedItem, error)

	// Reference data
	ListConcepts(ctx context.Context, q ListQuery) (*Page[Concept], error)
	GetConcept(ctx context.Context, id string) (*Concept, error)
	ListTags(ctx context.Context, q ListQuery) (*Page[Tag], error)
	ListMediaAssets(ctx context.Context, q ListQuery) (*Page[MediaAsset], error)
	ListUsers(ctx context.Context, q ListQuery) (*Page[User], error)
	GetUser(ctx context.Context, id string) (*User, error)

	// Search documents
	SearchDraftDocs(ctx context.Context, q ListQuery) (*Page[DraftDoc], error)
	SearchConceptDocs(ctx context.Context, q ListQuery) (*Page[ConceptDoc], error)
	SearchPublishedDocs(ctx context.Context, q ListQuery) (*Page[PublishedDoc], error)
}
