package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lyriclib/internal/models"
)

var (
	// ErrDuplicateSavedPost indicates the (user, song) pair exists.
	ErrDuplicateSavedPost = errors.New("post already saved")
	// ErrSavedPostNotFound indicates a missing saved post.
	ErrSavedPostNotFound = errors.New("saved post not found")
)

// CreateSavedPost saves a song for a user, at most once per pair.
func (s *Store) CreateSavedPost(ctx context.Context, userID, songID int64) (*models.SavedPost, error) {
	var saved models.SavedPost
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO saved_posts (user_id, song_id)
		VALUES ($1, $2)
		RETURNING id, user_id, song_id, saved_at
	`, userID, songID).
		Scan(&saved.ID, &saved.UserID, &saved.SongID, &saved.SavedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrDuplicateSavedPost
		case isForeignKeyViolation(err):
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("insert saved post: %w", err)
	}
	return &saved, nil
}

// SavedPostByID returns one saved post.
func (s *Store) SavedPostByID(ctx context.Context, id int64) (*models.SavedPost, error) {
	var saved models.SavedPost
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, song_id, saved_at
		FROM saved_posts
		WHERE id = $1
	`, id).Scan(&saved.ID, &saved.UserID, &saved.SongID, &saved.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSavedPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get saved post: %w", err)
	}
	return &saved, nil
}

// DeleteSavedPost removes one saved post.
func (s *Store) DeleteSavedPost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSavedPostNotFound
	}
	return nil
}

// ListSavedPosts returns a user's saved posts, newest first.
func (s *Store) ListSavedPosts(ctx context.Context, userID int64) ([]*models.SavedPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, song_id, saved_at
		FROM saved_posts
		WHERE user_id = $1
		ORDER BY saved_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved posts: %w", err)
	}
	defer rows.Close()

	var saved []*models.SavedPost
	for rows.Next() {
		var row models.SavedPost
		if err := rows.Scan(&row.ID, &row.UserID, &row.SongID, &row.SavedAt); err != nil {
			return nil, fmt.Errorf("scan saved post: %w", err)
		}
		saved = append(saved, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved posts: %w", err)
	}
	return saved, nil
}
