package itembank

import (
	"context"
	"log/slog"
)

// service implements the Service interface
type service struct {
	repository Repository
	mediaURLs  MediaURLStrategy
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithMediaURLStrategy sets how media download URLs are produced
func WithMediaURLStrategy(strategy MediaURLStrategy) Option {
	return func(s *service) {
		s.mediaURLs = strategy
	}
}

// WithLogger sets the logger used for non-fatal problems
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}
	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, ErrRepositoryRequired
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Draft items

func (s *service) ListDraftItems(ctx context.Context, q ListQuery) (*Page[DraftItem], error) {
	page, err := s.repository.ListDraftItems(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		s.decorateItemMedia(ctx, page.Data[i].Media)
	}
	return page, nil
}

func (s *service) GetDraftItem(ctx context.Context, id string, include RelationSet) (*DraftItem, error) {
	item, err := s.repository.GetDraftItem(ctx, id, include)
	if err != nil {
		return nil, err
	}
	s.decorateItemMedia(ctx, item.Media)
	return item, nil
}

func (s *service) ListItemVersions(ctx context.Context, itemID string, q ListQuery) (*Page[ItemVersion], error) {
	return s.repository.ListItemVersions(ctx, itemID, q)
}

func (s *service) ListItemReviews(ctx context.Context, itemID string, q ListQuery) (*Page[ItemReview], error) {
	return s.repository.ListItemReviews(ctx, itemID, q)
}

// Published items

func (s *service) ListPublishedItems(ctx context.Context, q ListQuery) (*Page[PublishedItem], error) {
	return s.repository.ListPublishedItems(ctx, q)
}

func (s *service) GetPublishedItem(ctx context.Context, id string, include RelationSet) (*PublishedItem, error) {
	return s.repository.GetPublishedItem(ctx, id, include)
}

// Reference data

func (s *service) ListConcepts(ctx context.Context, q ListQuery) (*Page[Concept], error) {
	return s.repository.ListConcepts(ctx, q)
}

func (s *service) GetConcept(ctx context.Context, id string) (*Concept, error) {
	return s.repository.GetConcept(ctx, id)
}

func (s *service) ListTags(ctx context.Context, q ListQuery) (*Page[Tag], error) {
	return s.repository.ListTags(ctx, q)
}

func (s *service) ListMediaAssets(ctx context.Context, q ListQuery) (*Page[MediaAsset], error) {
	page, err := s.repository.ListMediaAssets(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		s.decorateAsset(ctx, &page.Data[i])
	}
	return page, nil
}

func (s *service) ListUsers(ctx context.Context, q ListQuery) (*Page[User], error) {
	return s.repository.ListUsers(ctx, q)
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repository.GetUser(ctx, id)
}

// Search documents

func (s *service) SearchDraftDocs(ctx context.Context, q ListQuery) (*Page[DraftDoc], error) {
	return s.repository.SearchDraftDocs(ctx, q)
}

func (s *service) SearchConceptDocs(ctx context.Context, q ListQuery) (*Page[ConceptDoc], error) {
	return s.repository.SearchConceptDocs(ctx, q)
}

func (s *service) SearchPublishedDocs(ctx context.Context, q ListQuery) (*Page[PublishedDoc], error) {
	return s.repository.SearchPublishedDocs(ctx, q)
}

// Media URL helpers

func (s *service) decorateItemMedia(ctx context.Context, media []ItemMedia) {
	for i := range media {
		if media[i].Asset != nil {
			s.decorateAsset(ctx, media[i].Asset)
		}
	}
}

// decorateAsset fills DownloadURL. A failing strategy leaves it empty.
func (s *service) decorateAsset(ctx context.Context, asset *MediaAsset) {
	if s.mediaURLs == nil {
		return
	}
	url, err := s.mediaURLs.DownloadURL(ctx, asset)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build media download URL", "media_id", asset.ID, "error", err)
		return
	}
	asset.DownloadURL = url
}
