// Package httpapi exposes the JSON API. Handlers resolve the caller's
// identity from the bearer token exactly once and hand it to the
// services as an explicit viewer; nothing below this layer reads tokens.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lyriclib/internal/auth"
	"lyriclib/internal/models"
	"lyriclib/internal/policy"
	"lyriclib/internal/store"
	"lyriclib/internal/validation"
)

// UserService captures the account and profile operations needed by the
// HTTP handlers.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	List(ctx context.Context, viewer policy.Viewer) ([]*models.User, error)
	Get(ctx context.Context, viewer policy.Viewer, id int64) (*models.User, error)
	ChangePassword(ctx context.Context, viewer policy.Viewer, id int64, password string) error
	Delete(ctx context.Context, viewer policy.Viewer, id int64) error
	Profile(ctx context.Context, viewer policy.Viewer, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, viewer policy.Viewer, userID int64, input models.ProfileInput) error
}

// SongService coordinates song authoring and lookup.
type SongService interface {
	Create(ctx context.Context, viewer policy.Viewer, input models.SongInput) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	List(ctx context.Context, filter store.SongFilter) ([]*models.Song, error)
	Update(ctx context.Context, viewer policy.Viewer, id int64, input models.SongInput) (*models.Song, error)
	Delete(ctx context.Context, viewer policy.Viewer, id int64) error
}

// TaxonomyService manages the shared vocabularies and URLs.
type TaxonomyService interface {
	Create(ctx context.Context, viewer policy.Viewer, vocabulary, name string) (*models.TaxonomyEntry, error)
	Update(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error)
	Get(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error)
	List(ctx context.Context, vocabulary string) ([]*models.TaxonomyEntry, error)
	Delete(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64) error
	CreateURL(ctx context.Context, viewer policy.Viewer, url string) (*models.URL, error)
	ListURLs(ctx context.Context) ([]*models.URL, error)
	DeleteURL(ctx context.Context, viewer policy.Viewer, id int64) error
}

// SocialService maintains follows, reactions, comments and saved posts.
type SocialService interface {
	Follow(ctx context.Context, viewer policy.Viewer, followedID int64) (*models.Follow, error)
	Unfollow(ctx context.Context, viewer policy.Viewer, id int64) error
	Following(ctx context.Context, viewer policy.Viewer) ([]*models.Follow, error)
	Followers(ctx context.Context, viewer policy.Viewer) ([]*models.Follow, error)
	React(ctx context.Context, viewer policy.Viewer, songID int64, kind models.ReactionKind) (*models.Reaction, error)
	Unreact(ctx context.Context, viewer policy.Viewer, id int64) error
	SongReactions(ctx context.Context, viewer policy.Viewer, songID int64) ([]*models.Reaction, error)
	Comment(ctx context.Context, viewer policy.Viewer, songID int64, content string) (*models.Comment, error)
	SongComments(ctx context.Context, viewer policy.Viewer, songID int64) ([]*models.Comment, error)
	Save(ctx context.Context, viewer policy.Viewer, songID int64) (*models.SavedPost, error)
	Unsave(ctx context.Context, viewer policy.Viewer, id int64) error
	Saved(ctx context.Context, viewer policy.Viewer) ([]*models.SavedPost, error)
}

// NotebookService exposes the notebook, folder and list-item hierarchy.
type NotebookService interface {
	CreateNotebook(ctx context.Context, viewer policy.Viewer, name string) (*models.Notebook, error)
	GetNotebook(ctx context.Context, viewer policy.Viewer, id int64) (*models.Notebook, error)
	ListNotebooks(ctx context.Context, viewer policy.Viewer) ([]*models.Notebook, error)
	RenameNotebook(ctx context.Context, viewer policy.Viewer, id int64, name string) error
	DeleteNotebook(ctx context.Context, viewer policy.Viewer, id int64) error
	CreateFolder(ctx context.Context, viewer policy.Viewer, notebookID int64, name string) (*models.Folder, error)
	GetFolder(ctx context.Context, viewer policy.Viewer, id int64) (*models.Folder, error)
	ListFolders(ctx context.Context, viewer policy.Viewer, notebookID int64) ([]*models.Folder, error)
	RenameFolder(ctx context.Context, viewer policy.Viewer, id int64, name string) error
	DeleteFolder(ctx context.Context, viewer policy.Viewer, id int64) error
	CreateListItem(ctx context.Context, viewer policy.Viewer, folderID, songID int64) (*models.ListItem, error)
	GetListItem(ctx context.Context, viewer policy.Viewer, id int64) (*models.ListItem, error)
	ListItems(ctx context.Context, viewer policy.Viewer, folderID int64) ([]*models.ListItem, error)
	DeleteListItem(ctx context.Context, viewer policy.Viewer, id int64) error
}

// TokenVerifier turns a bearer access token back into a user ID.
type TokenVerifier interface {
	VerifyAccess(token string) (int64, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	songs     SongService
	taxonomy  TaxonomyService
	social    SocialService
	notebooks NotebookService
	tokens    TokenVerifier
	validate  *validation.Validator
}

// New configures a Server with the given services.
func New(
	users UserService,
	songs SongService,
	taxonomy TaxonomyService,
	social SocialService,
	notebooks NotebookService,
	tokens TokenVerifier,
) *Server {
	return &Server{
		users:     users,
		songs:     songs,
		taxonomy:  taxonomy,
		social:    social,
		notebooks: notebooks,
		tokens:    tokens,
		validate:  validation.New(),
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Token endpoints
	mux.HandleFunc("POST /api/token", s.handleToken)
	mux.HandleFunc("POST /api/token/refresh", s.handleTokenRefresh)
	mux.HandleFunc("POST /api/token/logout", s.handleTokenLogout)

	// User and profile routes
	mux.HandleFunc("POST /api/v1/users", s.handleRegister)
	mux.HandleFunc("GET /api/v1/users", s.handleListUsers)
	mux.HandleFunc("GET /api/v1/users/{id}", s.handleGetUser)
	mux.HandleFunc("PUT /api/v1/users/{id}/password", s.handleChangePassword)
	mux.HandleFunc("DELETE /api/v1/users/{id}", s.handleDeleteUser)
	mux.HandleFunc("GET /api/v1/users/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/v1/users/{id}/profile", s.handleUpdateProfile)

	// Song routes
	mux.HandleFunc("POST /api/v1/songs", s.handleCreateSong)
	mux.HandleFunc("GET /api/v1/songs", s.handleListSongs)
	mux.HandleFunc("GET /api/v1/songs/{id}", s.handleGetSong)
	mux.HandleFunc("PUT /api/v1/songs/{id}", s.handleUpdateSong)
	mux.HandleFunc("DELETE /api/v1/songs/{id}", s.handleDeleteSong)
	mux.HandleFunc("GET /api/v1/songs/{id}/reactions", s.handleSongReactions)
	mux.HandleFunc("GET /api/v1/songs/{id}/comments", s.handleSongComments)

	// Vocabulary routes. The literal song/user/etc. patterns above are
	// more specific than the wildcard, so they keep precedence; the
	// handler rejects names outside the known vocabularies.
	mux.HandleFunc("POST /api/v1/{vocabulary}", s.handleCreateEntry)
	mux.HandleFunc("GET /api/v1/{vocabulary}", s.handleListEntries)
	mux.HandleFunc("GET /api/v1/{vocabulary}/{id}", s.handleGetEntry)
	mux.HandleFunc("PUT /api/v1/{vocabulary}/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/v1/{vocabulary}/{id}", s.handleDeleteEntry)
	mux.HandleFunc("POST /api/v1/urls", s.handleCreateURL)
	mux.HandleFunc("GET /api/v1/urls", s.handleListURLs)
	mux.HandleFunc("DELETE /api/v1/urls/{id}", s.handleDeleteURL)

	// Social routes
	mux.HandleFunc("POST /api/v1/follows", s.handleCreateFollow)
	mux.HandleFunc("DELETE /api/v1/follows/{id}", s.handleDeleteFollow)
	mux.HandleFunc("GET /api/v1/follows/following", s.handleListFollowing)
	mux.HandleFunc("GET /api/v1/follows/followers", s.handleListFollowers)
	mux.HandleFunc("POST /api/v1/reactions", s.handleCreateReaction)
	mux.HandleFunc("DELETE /api/v1/reactions/{id}", s.handleDeleteReaction)
	mux.HandleFunc("POST /api/v1/comments", s.handleCreateComment)
	mux.HandleFunc("POST /api/v1/savedposts", s.handleCreateSavedPost)
	mux.HandleFunc("GET /api/v1/savedposts", s.handleListSavedPosts)
	mux.HandleFunc("DELETE /api/v1/savedposts/{id}", s.handleDeleteSavedPost)

	// Notebook routes
	mux.HandleFunc("POST /api/v1/notebooks", s.handleCreateNotebook)
	mux.HandleFunc("GET /api/v1/notebooks", s.handleListNotebooks)
	mux.HandleFunc("GET /api/v1/notebooks/{id}", s.handleGetNotebook)
	mux.HandleFunc("PUT /api/v1/notebooks/{id}", s.handleRenameNotebook)
	mux.HandleFunc("DELETE /api/v1/notebooks/{id}", s.handleDeleteNotebook)
	mux.HandleFunc("GET /api/v1/notebooks/{id}/folders", s.handleListFolders)
	mux.HandleFunc("POST /api/v1/folders", s.handleCreateFolder)
	mux.HandleFunc("GET /api/v1/folders/{id}", s.handleGetFolder)
	mux.HandleFunc("PUT /api/v1/folders/{id}", s.handleRenameFolder)
	mux.HandleFunc("DELETE /api/v1/folders/{id}", s.handleDeleteFolder)
	mux.HandleFunc("GET /api/v1/folders/{id}/items", s.handleListItems)
	mux.HandleFunc("POST /api/v1/listitems", s.handleCreateListItem)
	mux.HandleFunc("GET /api/v1/listitems/{id}", s.handleGetListItem)
	mux.HandleFunc("DELETE /api/v1/listitems/{id}", s.handleDeleteListItem)

	// Anything else echoes the path it could not match.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "Path does not match any pattern: %s\n", r.URL.Path)
	})

	return mux
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// viewer resolves the request's identity. A missing header yields the
// anonymous viewer; a present but bad token is an error, so a client
// holding an expired token gets 401 instead of anonymous treatment.
func (s *Server) viewer(r *http.Request) (policy.Viewer, error) {
	raw := parseBearerToken(r.Header.Get("Authorization"))
	if raw == "" {
		return policy.Viewer{}, nil
	}
	userID, err := s.tokens.VerifyAccess(raw)
	if err != nil {
		return policy.Viewer{}, err
	}
	return policy.Viewer{UserID: userID}, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := parseID(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON payload")
	}
	return nil
}

// writeError maps service and store errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, policy.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, store.ErrInvalidCredentials),
		errors.Is(err, store.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, policy.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrSongNotFound),
		errors.Is(err, store.ErrEntryNotFound),
		errors.Is(err, store.ErrURLNotFound),
		errors.Is(err, store.ErrUnknownVocabulary),
		errors.Is(err, store.ErrFollowNotFound),
		errors.Is(err, store.ErrReactionNotFound),
		errors.Is(err, store.ErrSavedPostNotFound),
		errors.Is(err, store.ErrNotebookNotFound),
		errors.Is(err, store.ErrFolderNotFound),
		errors.Is(err, store.ErrListItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrUserExists),
		errors.Is(err, store.ErrDuplicateFollow),
		errors.Is(err, store.ErrDuplicateReaction),
		errors.Is(err, store.ErrDuplicateSavedPost):
		status = http.StatusConflict
	case errors.Is(err, store.ErrInvalidSong),
		errors.Is(err, store.ErrInvalidReaction),
		errors.Is(err, store.ErrInvalidComment),
		errors.Is(err, store.ErrSelfFollow):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
