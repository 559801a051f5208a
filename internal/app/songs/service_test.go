package songs

import (
	"context"
	"errors"
	"testing"

	"lyriclib/internal/models"
	"lyriclib/internal/policy"
	"lyriclib/internal/store"
)

type stubStore struct {
	songs   map[int64]*models.Song
	nextID  int64
	updated map[int64]models.SongInput
	deleted []int64
}

func newStubStore() *stubStore {
	return &stubStore{songs: map[int64]*models.Song{}, nextID: 1, updated: map[int64]models.SongInput{}}
}

func (s *stubStore) CreateSong(ctx context.Context, userID int64, input models.SongInput) (*models.Song, error) {
	song := &models.Song{ID: s.nextID, Title: input.Title, Lyric: input.Lyric, Tempo: input.Tempo, CreatedBy: userID}
	s.songs[song.ID] = song
	s.nextID++
	return song, nil
}

func (s *stubStore) SongByID(ctx context.Context, id int64) (*models.Song, error) {
	song, ok := s.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	return song, nil
}

func (s *stubStore) ListSongs(ctx context.Context, filter store.SongFilter) ([]*models.Song, error) {
	var out []*models.Song
	for _, song := range s.songs {
		out = append(out, song)
	}
	return out, nil
}

func (s *stubStore) UpdateSong(ctx context.Context, id int64, input models.SongInput) (*models.Song, error) {
	song, ok := s.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	song.Title = input.Title
	s.updated[id] = input
	return song, nil
}

func (s *stubStore) DeleteSong(ctx context.Context, id int64) error {
	if _, ok := s.songs[id]; !ok {
		return store.ErrSongNotFound
	}
	delete(s.songs, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func TestOnlyOwnerMayEditSong(t *testing.T) {
	st := newStubStore()
	svc := New(st)
	ctx := context.Background()

	owner := policy.Viewer{UserID: 1}
	other := policy.Viewer{UserID: 2}

	song, err := svc.Create(ctx, owner, models.SongInput{Title: "First", Lyric: "la", Tempo: models.TempoFast})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if song.CreatedBy != 1 {
		t.Fatalf("owner not stamped from viewer, got %d", song.CreatedBy)
	}

	if _, err := svc.Update(ctx, other, song.ID, models.SongInput{Title: "Hijacked", Lyric: "la", Tempo: models.TempoFast}); !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("non-owner update = %v, want ErrForbidden", err)
	}
	if _, touched := st.updated[song.ID]; touched {
		t.Fatal("store mutated despite denied update")
	}

	updated, err := svc.Update(ctx, owner, song.ID, models.SongInput{Title: "Renamed", Lyric: "la", Tempo: models.TempoFast})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title not persisted, got %q", updated.Title)
	}
}

func TestAnonymousCannotCreateSong(t *testing.T) {
	svc := New(newStubStore())

	_, err := svc.Create(context.Background(), policy.Viewer{}, models.SongInput{Title: "x", Lyric: "y"})
	if !errors.Is(err, policy.ErrUnauthenticated) {
		t.Fatalf("anonymous create = %v, want ErrUnauthenticated", err)
	}
}

func TestDeleteSongOwnerOnly(t *testing.T) {
	st := newStubStore()
	svc := New(st)
	ctx := context.Background()

	song, err := svc.Create(ctx, policy.Viewer{UserID: 1}, models.SongInput{Title: "t", Lyric: "l"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, policy.Viewer{UserID: 2}, song.ID); !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("non-owner delete = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, policy.Viewer{UserID: 1}, song.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(st.deleted) != 1 || st.deleted[0] != song.ID {
		t.Fatalf("unexpected deletions %v", st.deleted)
	}
}
