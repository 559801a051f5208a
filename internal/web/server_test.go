package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lyriclib/internal/app/songs"
	"lyriclib/internal/auth"
	"lyriclib/internal/models"
	"lyriclib/internal/policy"
	"lyriclib/internal/store"
)

type stubTokens struct {
	users map[string]int64
}

func (s stubTokens) VerifyAccess(token string) (int64, error) {
	id, ok := s.users[token]
	if !ok {
		return 0, auth.ErrInvalidToken
	}
	return id, nil
}

type stubUserService struct {
	pair     auth.TokenPair
	loginErr error
	profile  *models.Profile
}

func (s *stubUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return &models.User{ID: 1, Email: email}, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	if s.loginErr != nil {
		return auth.TokenPair{}, s.loginErr
	}
	return s.pair, nil
}

func (s *stubUserService) Profile(ctx context.Context, viewer policy.Viewer, userID int64) (*models.Profile, error) {
	return s.profile, nil
}

func (s *stubUserService) UpdateProfile(context.Context, policy.Viewer, int64, models.ProfileInput) error {
	return nil
}

type stubTaxonomy struct{}

func (stubTaxonomy) Create(ctx context.Context, viewer policy.Viewer, vocabulary, name string) (*models.TaxonomyEntry, error) {
	if vocabulary != "artists" {
		return nil, store.ErrUnknownVocabulary
	}
	return &models.TaxonomyEntry{ID: 1, Name: name}, nil
}

func (stubTaxonomy) Update(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error) {
	return &models.TaxonomyEntry{ID: id, Name: name}, nil
}

func (stubTaxonomy) Get(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error) {
	return &models.TaxonomyEntry{ID: id, Name: "x"}, nil
}

type memSongStore struct {
	songs  map[int64]*models.Song
	nextID int64
}

func newMemSongStore() *memSongStore {
	return &memSongStore{songs: map[int64]*models.Song{}, nextID: 1}
}

func (m *memSongStore) CreateSong(ctx context.Context, userID int64, input models.SongInput) (*models.Song, error) {
	song := &models.Song{ID: m.nextID, Title: input.Title, Lyric: input.Lyric, Tempo: input.Tempo, CreatedBy: userID}
	m.songs[song.ID] = song
	m.nextID++
	return song, nil
}

func (m *memSongStore) SongByID(ctx context.Context, id int64) (*models.Song, error) {
	song, ok := m.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	return song, nil
}

func (m *memSongStore) ListSongs(ctx context.Context, filter store.SongFilter) ([]*models.Song, error) {
	return nil, nil
}

func (m *memSongStore) UpdateSong(ctx context.Context, id int64, input models.SongInput) (*models.Song, error) {
	song, ok := m.songs[id]
	if !ok {
		return nil, store.ErrSongNotFound
	}
	song.Title = input.Title
	return song, nil
}

func (m *memSongStore) DeleteSong(ctx context.Context, id int64) error {
	delete(m.songs, id)
	return nil
}

func newTestServer(t *testing.T, users *stubUserService, songStore *memSongStore) *Server {
	t.Helper()
	if users == nil {
		users = &stubUserService{}
	}
	if songStore == nil {
		songStore = newMemSongStore()
	}
	tokens := stubTokens{users: map[string]int64{"cookie-u1": 1, "cookie-u2": 2}}
	server, err := New(users, songs.New(songStore), stubTaxonomy{}, tokens)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return server
}

func TestHomepageRenders(t *testing.T) {
	server := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "LyricLib") {
		t.Fatalf("expected homepage body, got %q", rr.Body.String())
	}
}

func TestLoginSetsAccessCookie(t *testing.T) {
	userStub := &stubUserService{pair: auth.TokenPair{Access: "cookie-u1", Refresh: "r"}}
	server := newTestServer(t, userStub, nil)

	form := url.Values{"email": {"alice@example.com"}, "password": {"correct-horse"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == accessCookie && c.Value == "cookie-u1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected access token cookie, got %#v", cookies)
	}
}

func TestProfileRedirectsAnonymous(t *testing.T) {
	server := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestSongEditFormOwnerOnly(t *testing.T) {
	songStore := newMemSongStore()
	songStore.songs[1] = &models.Song{ID: 1, Title: "First", Lyric: "la", CreatedBy: 1}
	songStore.nextID = 2
	server := newTestServer(t, nil, songStore)
	routes := server.Routes()

	// The creator gets the form.
	req := httptest.NewRequest(http.MethodGet, "/songs/1/edit", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: "cookie-u1"})
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("owner: expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "First") {
		t.Fatalf("expected form prefilled with title, got %q", rr.Body.String())
	}

	// Anyone else is sent home.
	req = httptest.NewRequest(http.MethodGet, "/songs/1/edit", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: "cookie-u2"})
	rr = httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("non-owner: expected status 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
}

func TestSongSubmitUpdateByNonOwnerRedirects(t *testing.T) {
	songStore := newMemSongStore()
	songStore.songs[1] = &models.Song{ID: 1, Title: "First", Lyric: "la", CreatedBy: 1}
	songStore.nextID = 2
	server := newTestServer(t, nil, songStore)

	form := url.Values{"title": {"Hijacked"}, "lyric": {"la"}, "tempo": {"FAST"}}
	req := httptest.NewRequest(http.MethodPost, "/songs/1/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: "cookie-u2"})

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rr.Code)
	}
	if songStore.songs[1].Title != "First" {
		t.Fatalf("song mutated by non-owner: %q", songStore.songs[1].Title)
	}
}

func TestCatchAllEchoesPath(t *testing.T) {
	server := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/definitely/not/a/page", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/definitely/not/a/page") {
		t.Fatalf("expected body to echo path, got %q", rr.Body.String())
	}
}
