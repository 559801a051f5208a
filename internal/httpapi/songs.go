package httpapi

import (
	"net/http"

	"lyriclib/internal/models"
	"lyriclib/internal/store"
)

type songRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Lyric       string  `json:"lyric" validate:"required"`
	Tempo       string  `json:"tempo" validate:"omitempty,oneof=SLOW MODERATE FAST VERY_FAST EXTREMELY_FAST"`
	ArtistIDs   []int64 `json:"artist_ids"`
	ComposerIDs []int64 `json:"composer_ids"`
	LyricistIDs []int64 `json:"lyricist_ids"`
	LanguageIDs []int64 `json:"language_ids"`
	TagIDs      []int64 `json:"tag_ids"`
	URLIDs      []int64 `json:"url_ids"`
}

func (req songRequest) input() models.SongInput {
	tempo := models.Tempo(req.Tempo)
	if req.Tempo == "" {
		tempo = models.TempoModerate
	}
	return models.SongInput{
		Title:       req.Title,
		Lyric:       req.Lyric,
		Tempo:       tempo,
		ArtistIDs:   req.ArtistIDs,
		ComposerIDs: req.ComposerIDs,
		LyricistIDs: req.LyricistIDs,
		LanguageIDs: req.LanguageIDs,
		TagIDs:      req.TagIDs,
		URLIDs:      req.URLIDs,
	}
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req songRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	song, err := s.songs.Create(r.Context(), viewer, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.SongFilter{
		Title: query.Get("title"),
		Tempo: models.Tempo(query.Get("tempo")),
	}
	if createdBy := query.Get("created_by"); createdBy != "" {
		id, err := parseID(createdBy)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid created_by parameter"})
			return
		}
		filter.CreatedBy = id
	}
	if filter.Tempo != "" && !filter.Tempo.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid tempo parameter"})
		return
	}

	songs, err := s.songs.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Songs []*models.Song `json:"songs"`
	}{Songs: songs})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req songRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	song, err := s.songs.Update(r.Context(), viewer, id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.songs.Delete(r.Context(), viewer, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
