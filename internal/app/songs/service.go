package songs

import (
	"context"

	"lyriclib/internal/models"
	"lyriclib/internal/policy"
	"lyriclib/internal/store"
)

// Store describes the persistence operations required by the song service.
type Store interface {
	CreateSong(ctx context.Context, userID int64, input models.SongInput) (*models.Song, error)
	SongByID(ctx context.Context, id int64) (*models.Song, error)
	ListSongs(ctx context.Context, filter store.SongFilter) ([]*models.Song, error)
	UpdateSong(ctx context.Context, id int64, input models.SongInput) (*models.Song, error)
	DeleteSong(ctx context.Context, id int64) error
}

// Service exposes the song authoring workflow. Reads are open; writes go
// through the ownership policy, and the owner is always stamped from the
// viewer, never taken from the input.
type Service interface {
	Create(ctx context.Context, viewer policy.Viewer, input models.SongInput) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	List(ctx context.Context, filter store.SongFilter) ([]*models.Song, error)
	Update(ctx context.Context, viewer policy.Viewer, id int64, input models.SongInput) (*models.Song, error)
	Delete(ctx context.Context, viewer policy.Viewer, id int64) error
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, viewer policy.Viewer, input models.SongInput) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindSong}); err != nil {
		return nil, err
	}
	return s.store.CreateSong(ctx, viewer.UserID, input)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SongByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter store.SongFilter) ([]*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, filter)
}

func (s *service) Update(ctx context.Context, viewer policy.Viewer, id int64, input models.SongInput) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	song, err := s.store.SongByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionUpdate, policy.Resource{Kind: policy.KindSong, OwnerID: song.CreatedBy}); err != nil {
		return nil, err
	}
	return s.store.UpdateSong(ctx, id, input)
}

func (s *service) Delete(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	song, err := s.store.SongByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindSong, OwnerID: song.CreatedBy}); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}
