package httpapi

import (
	"net/http"

	"lyriclib/internal/models"
)

type followRequest struct {
	FollowedID int64 `json:"followed_id" validate:"required,gt=0"`
}

type reactionRequest struct {
	SongID int64  `json:"song_id" validate:"required,gt=0"`
	Kind   string `json:"kind" validate:"required,oneof=Like Love"`
}

type commentRequest struct {
	SongID  int64  `json:"song_id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}

type savedPostRequest struct {
	SongID int64 `json:"song_id" validate:"required,gt=0"`
}

func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req followRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	follow, err := s.social.Follow(r.Context(), viewer, req.FollowedID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, follow)
}

func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
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

	if err := s.social.Unfollow(r.Context(), viewer, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	follows, err := s.social.Following(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Follows []*models.Follow `json:"follows"`
	}{Follows: follows})
}

func (s *Server) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	follows, err := s.social.Followers(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Follows []*models.Follow `json:"follows"`
	}{Follows: follows})
}

func (s *Server) handleCreateReaction(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req reactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	reaction, err := s.social.React(r.Context(), viewer, req.SongID, models.ReactionKind(req.Kind))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reaction)
}

func (s *Server) handleDeleteReaction(w http.ResponseWriter, r *http.Request) {
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

	if err := s.social.Unreact(r.Context(), viewer, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSongReactions(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	songID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	reactions, err := s.social.SongReactions(r.Context(), viewer, songID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Reactions []*models.Reaction `json:"reactions"`
	}{Reactions: reactions})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := s.social.Comment(r.Context(), viewer, req.SongID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleSongComments(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}
	songID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	comments, err := s.social.SongComments(r.Context(), viewer, songID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Comments []*models.Comment `json:"comments"`
	}{Comments: comments})
}

func (s *Server) handleCreateSavedPost(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req savedPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.validate.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	saved, err := s.social.Save(r.Context(), viewer, req.SongID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListSavedPosts(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewer(r)
	if err != nil {
		writeError(w, err)
		return
	}

	saved, err := s.social.Saved(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		SavedPosts []*models.SavedPost `json:"saved_posts"`
	}{SavedPosts: saved})
}

func (s *Server) handleDeleteSavedPost(w http.ResponseWriter, r *http.Request) {
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

	if err := s.social.Unsave(r.Context(), viewer, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
