// Package web serves the HTML pages: registration, login, profile and
// the song and vocabulary forms. Pages authenticate with an access
// token cookie set at login; the JSON API remains the primary surface.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"lyriclib/internal/auth"
	"lyriclib/internal/models"
	"lyriclib/internal/policy"
	"lyriclib/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// accessCookie names the cookie carrying the access token for pages.
const accessCookie = "access_token"

// UserService captures the account operations the pages need.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Profile(ctx context.Context, viewer policy.Viewer, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, viewer policy.Viewer, userID int64, input models.ProfileInput) error
}

// SongService captures the song operations the pages need.
type SongService interface {
	Create(ctx context.Context, viewer policy.Viewer, input models.SongInput) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	Update(ctx context.Context, viewer policy.Viewer, id int64, input models.SongInput) (*models.Song, error)
}

// TaxonomyService captures the vocabulary operations the pages need.
type TaxonomyService interface {
	Create(ctx context.Context, viewer policy.Viewer, vocabulary, name string) (*models.TaxonomyEntry, error)
	Update(ctx context.Context, viewer policy.Viewer, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error)
	Get(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error)
}

// TokenVerifier turns the cookie's access token back into a user ID.
type TokenVerifier interface {
	VerifyAccess(token string) (int64, error)
}

// Server renders the HTML pages.
type Server struct {
	users     UserService
	songs     SongService
	taxonomy  TaxonomyService
	tokens    TokenVerifier
	templates map[string]*template.Template
}

// New configures a page server. Each template file is parsed standalone.
func New(users UserService, songs SongService, taxonomy TaxonomyService, tokens TokenVerifier) (*Server, error) {
	names := []string{"homepage", "register", "login", "profile", "song_form", "taxonomy_form"}
	templates := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Server{
		users:     users,
		songs:     songs,
		taxonomy:  taxonomy,
		tokens:    tokens,
		templates: templates,
	}, nil
}

// Routes exposes the page handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHomepage)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegisterSubmit)
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLoginSubmit)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /profile", s.handleProfileForm)
	mux.HandleFunc("POST /profile", s.handleProfileSubmit)
	mux.HandleFunc("GET /songs/new", s.handleSongForm)
	mux.HandleFunc("POST /songs/new", s.handleSongSubmit)
	mux.HandleFunc("GET /songs/{id}/edit", s.handleSongForm)
	mux.HandleFunc("POST /songs/{id}/edit", s.handleSongSubmit)
	mux.HandleFunc("GET /{vocabulary}/new", s.handleEntryForm)
	mux.HandleFunc("POST /{vocabulary}/new", s.handleEntrySubmit)
	mux.HandleFunc("GET /{vocabulary}/{id}/edit", s.handleEntryForm)
	mux.HandleFunc("POST /{vocabulary}/{id}/edit", s.handleEntrySubmit)

	// Unmatched paths echo what was requested, matching the API.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "Path does not match any pattern: %s\n", r.URL.Path)
	})

	return mux
}

// viewer resolves the page visitor from the access token cookie. Any
// failure yields the anonymous viewer; pages redirect to login instead
// of returning 401.
func (s *Server) viewer(r *http.Request) policy.Viewer {
	cookie, err := r.Cookie(accessCookie)
	if err != nil {
		return policy.Viewer{}
	}
	userID, err := s.tokens.VerifyAccess(cookie.Value)
	if err != nil {
		return policy.Viewer{}
	}
	return policy.Viewer{UserID: userID}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render page")
	}
}

type pageData struct {
	SignedIn bool
	Error    string
}

func (s *Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "homepage", pageData{SignedIn: !s.viewer(r).Anonymous()})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "register", pageData{})
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, "register", pageData{Error: "invalid form submission"})
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if _, err := s.users.Register(r.Context(), email, password); err != nil {
		s.render(w, "register", pageData{Error: registerError(err)})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func registerError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, store.ErrUserExists) {
		return "that email is already registered"
	}
	return "could not create the account, check the email and password"
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", pageData{})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, "login", pageData{Error: "invalid form submission"})
		return
	}

	pair, err := s.users.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		s.render(w, "login", pageData{Error: "invalid email or password"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    pair.Access,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type profilePage struct {
	pageData
	Profile *models.Profile
}

func (s *Server) handleProfileForm(w http.ResponseWriter, r *http.Request) {
	viewer := s.viewer(r)
	if viewer.Anonymous() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := s.users.Profile(r.Context(), viewer, viewer.UserID)
	if err != nil {
		s.render(w, "profile", profilePage{pageData: pageData{SignedIn: true, Error: "could not load the profile"}})
		return
	}
	s.render(w, "profile", profilePage{pageData: pageData{SignedIn: true}, Profile: profile})
}

func (s *Server) handleProfileSubmit(w http.ResponseWriter, r *http.Request) {
	viewer := s.viewer(r)
	if viewer.Anonymous() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.render(w, "profile", profilePage{pageData: pageData{SignedIn: true, Error: "invalid form submission"}})
		return
	}

	input := models.ProfileInput{
		Bio:       r.PostFormValue("bio"),
		Username:  r.PostFormValue("username"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Image:     r.PostFormValue("image"),
	}
	if err := s.users.UpdateProfile(r.Context(), viewer, viewer.UserID, input); err != nil {
		s.render(w, "profile", profilePage{pageData: pageData{SignedIn: true, Error: "could not save the profile"}})
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

type songPage struct {
	pageData
	Editing bool
	Song    *models.Song
	Tempos  []models.Tempo
}

func (s *Server) handleSongForm(w http.ResponseWriter, r *http.Request) {
	viewer := s.viewer(r)
	if viewer.Anonymous() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := songPage{pageData: pageData{SignedIn: true}, Tempos: models.Tempos()}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		song, err := s.songs.Get(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		// Only the creator may open the edit form.
		if song.CreatedBy != viewer.UserID {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		page.Editing = true
		page.Song = song
	}
	s.render(w, "song_form", page)
}

func (s *Server) handleSongSubmit(w http.ResponseWriter, r *http.Request) {
	viewer := s.viewer(r)
	if viewer.Anonymous() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.render(w, "song_form", songPage{pageData: pageData{SignedIn: true, Error: "invalid form submission"}, Tempos: models.Tempos()})
		return
	}

	input := models.SongInput{
		Title:       r.PostFormValue("title"),
		Lyric:       r.PostFormValue("lyric"),
		Tempo:       models.Tempo(r.PostFormValue("tempo")),
		ArtistIDs:   parseIDList(r.PostFormValue("artist_ids")),
		ComposerIDs: parseIDList(r.PostFormValue("composer_ids")),
		LyricistIDs: parseIDList(r.PostFormValue("lyricist_ids")),
		LanguageIDs: parseIDList(r.PostFormValue("language_ids")),
		TagIDs:      parseIDList(r.PostFormValue("tag_ids")),
		URLIDs:      parseIDList(r.PostFormValue("url_ids")),
	}
	if input.Tempo == "" {
		input.Tempo = models.TempoModerate
	}

	var err error
	if raw := r.PathValue("id"); raw != "" {
		var id int64
		id, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		_, err = s.songs.Update(r.Context(), viewer, id, input)
		if errors.Is(err, policy.ErrForbidden) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	} else {
		_, err = s.songs.Create(r.Context(), viewer, input)
	}
	if err != nil {
		s.render(w, "song_form", songPage{pageData: pageData{SignedIn: true, Error: "could not save the song"}, Tempos: models.Tempos()})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type entryPage struct {
	pageData
	Vocabulary string
	Editing    bool
	Entry      *models.TaxonomyEntry
}

func (s *Server) handleEntryForm(w http.ResponseWriter, r *http.Request) {
	viewer := s.viewer(r)
	if viewer.Anonymous() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	vocabulary := r.PathValue("vocabulary")
	page := entryPage{pageData: pageData{SignedIn: true}, Vocabulary: vocabulary}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		entry, err := s.taxonomy.Get(r.Context(), vocabulary, id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		page.Editing = true
		page.Entry = entry
	}
	s.render(w, "taxonomy_form", page)
}

func (s *Server) handleEntrySubmit(w http.ResponseWriter, r *http.Request) {
	viewer := s.viewer(r)
	if viewer.Anonymous() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	vocabulary := r.PathValue("vocabulary")
	name := r.PostFormValue("name")

	var err error
	if raw := r.PathValue("id"); raw != "" {
		var id int64
		id, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		_, err = s.taxonomy.Update(r.Context(), viewer, vocabulary, id, name)
	} else {
		_, err = s.taxonomy.Create(r.Context(), viewer, vocabulary, name)
	}
	if errors.Is(err, store.ErrUnknownVocabulary) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.render(w, "taxonomy_form", entryPage{pageData: pageData{SignedIn: true, Error: "could not save the entry"}, Vocabulary: vocabulary})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func parseIDList(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
