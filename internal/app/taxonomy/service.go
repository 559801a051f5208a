// Package taxonomy manages the shared song vocabulary: artists,
// composers, lyricists, tags, languages and urls. Entries carry no
// ownership; any authenticated identity may add to them.
package taxonomy

import (
	"context"

	"lyriclib/internal/models"
	"lyriclib/internal/policy"
)

// Store describes the persistence operations required by the service.
type Store interface {
	CreateEntry(ctx context.Context, vocabulary, name string) (*models.TaxonomyEntry, error)
	UpdateEntry(ctx context.Context, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error)
	EntryByID(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error)
	ListEntries(ctx context.Context, vocabulary string) ([]*models.TaxonomyEntry, error)
	DeleteEntry(ctx context.Context, vocabulary string, id int64) error
	CreateURL(ctx context.Context, url string) (*models.URL, error)
	ListURLs(ctx context.Context) ([]*models.URL, error)
	DeleteURL(ctx context.Context, id int64) error
}

// Service exposes vocabulary management.
type Service interface {
	Create(ctx context.Context, viewer policy.Viewer, vocabulary, name string) (*models.TaxonomyEntry, error)
	Update(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error)
	Get(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error)
	List(ctx context.Context, vocabulary string) ([]*models.TaxonomyEntry, error)
	Delete(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64) error
	CreateURL(ctx context.Context, viewer policy.Viewer, url string) (*models.URL, error)
	ListURLs(ctx context.Context) ([]*models.URL, error)
	DeleteURL(ctx context.Context, viewer policy.Viewer, id int64) error
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, viewer policy.Viewer, vocabulary, name string) (*models.TaxonomyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindTaxonomy}); err != nil {
		return nil, err
	}
	return s.store.CreateEntry(ctx, vocabulary, name)
}

func (s *service) Update(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionUpdate, policy.Resource{Kind: policy.KindTaxonomy}); err != nil {
		return nil, err
	}
	return s.store.UpdateEntry(ctx, vocabulary, id, name)
}

func (s *service) Get(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.EntryByID(ctx, vocabulary, id)
}

func (s *service) List(ctx context.Context, vocabulary string) ([]*models.TaxonomyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, vocabulary)
}

func (s *service) Delete(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindTaxonomy}); err != nil {
		return err
	}
	return s.store.DeleteEntry(ctx, vocabulary, id)
}

func (s *service) CreateURL(ctx context.Context, viewer policy.Viewer, url string) (*models.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindURL}); err != nil {
		return nil, err
	}
	return s.store.CreateURL(ctx, url)
}

func (s *service) ListURLs(ctx context.Context) ([]*models.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListURLs(ctx)
}

func (s *service) DeleteURL(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindURL}); err != nil {
		return err
	}
	return s.store.DeleteURL(ctx, id)
}
