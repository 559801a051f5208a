package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lyriclib/internal/models"
)

var (
	// ErrDuplicateReaction indicates the (song, user, kind) triple exists.
	ErrDuplicateReaction = errors.New("reaction already exists")
	// ErrReactionNotFound indicates a missing reaction.
	ErrReactionNotFound = errors.New("reaction not found")
	// ErrInvalidReaction indicates an unknown reaction kind.
	ErrInvalidReaction = errors.New("invalid reaction kind")
)

// CreateReaction records one (song, user, kind) triple. A user may hold
// Like and Love on the same song at once; each triple at most once.
func (s *Store) CreateReaction(ctx context.Context, songID, userID int64, kind models.ReactionKind) (*models.Reaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReaction, kind)
	}

	var reaction models.Reaction
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO reactions (song_id, user_id, kind)
		VALUES ($1, $2, $3)
		RETURNING id, song_id, user_id, kind, created_at
	`, songID, userID, kind).
		Scan(&reaction.ID, &reaction.SongID, &reaction.UserID, &reaction.Kind, &reaction.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrDuplicateReaction
		case isForeignKeyViolation(err):
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("insert reaction: %w", err)
	}
	return &reaction, nil
}

// ReactionByID returns one reaction.
func (s *Store) ReactionByID(ctx context.Context, id int64) (*models.Reaction, error) {
	var reaction models.Reaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, song_id, user_id, kind, created_at
		FROM reactions
		WHERE id = $1
	`, id).Scan(&reaction.ID, &reaction.SongID, &reaction.UserID, &reaction.Kind, &reaction.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reaction: %w", err)
	}
	return &reaction, nil
}

// DeleteReaction removes one reaction.
func (s *Store) DeleteReaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// ListReactionsBySong returns all reactions on a song, newest first.
func (s *Store) ListReactionsBySong(ctx context.Context, songID int64) ([]*models.Reaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, song_id, user_id, kind, created_at
		FROM reactions
		WHERE song_id = $1
		ORDER BY created_at DESC, id DESC
	`, songID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	var reactions []*models.Reaction
	for rows.Next() {
		var reaction models.Reaction
		if err := rows.Scan(&reaction.ID, &reaction.SongID, &reaction.UserID, &reaction.Kind, &reaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, &reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reactions: %w", err)
	}
	return reactions, nil
}
