package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lyriclib/internal/models"
)

// ErrInvalidComment indicates empty comment content.
var ErrInvalidComment = errors.New("comment content is required")

// CreateComment appends a comment to a song. Comments are append-only:
// there is no update or delete.
func (s *Store) CreateComment(ctx context.Context, songID, userID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidComment
	}

	var comment models.Comment
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (song_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, song_id, user_id, content, created_at
	`, songID, userID, content).
		Scan(&comment.ID, &comment.SongID, &comment.UserID, &comment.Content, &comment.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrSongNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// ListCommentsBySong returns all comments on a song, oldest first.
func (s *Store) ListCommentsBySong(ctx context.Context, songID int64) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, song_id, user_id, content, created_at
		FROM comments
		WHERE song_id = $1
		ORDER BY created_at ASC, id ASC
	`, songID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.SongID, &comment.UserID, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}
