package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lyriclib/internal/models"
)

var (
	// ErrDuplicateFollow indicates the ordered pair already has an edge.
	ErrDuplicateFollow = errors.New("follow already exists")
	// ErrFollowNotFound indicates a missing edge.
	ErrFollowNotFound = errors.New("follow not found")
	// ErrSelfFollow indicates an attempt to follow oneself.
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// CreateFollow inserts a directed edge and maintains both denormalized
// profile sets in the same transaction: following on the follower's
// profile, followers on the followed profile. The unique constraint on
// (follower_id, followed_id) makes concurrent duplicates collapse.
func (s *Store) CreateFollow(ctx context.Context, followerID, followedID int64) (*models.Follow, error) {
	if followerID == followedID {
		return nil, ErrSelfFollow
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var follow models.Follow
	err = tx.QueryRowContext(ctx, `
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		RETURNING id, follower_id, followed_id, created_at
	`, followerID, followedID).
		Scan(&follow.ID, &follow.FollowerID, &follow.FollowedID, &follow.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrDuplicateFollow
		case isCheckViolation(err):
			return nil, ErrSelfFollow
		case isForeignKeyViolation(err):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("insert follow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profile_following (profile_id, target_id)
		SELECT pf.id, pt.id
		FROM profiles pf, profiles pt
		WHERE pf.user_id = $1 AND pt.user_id = $2
		ON CONFLICT DO NOTHING
	`, followerID, followedID); err != nil {
		return nil, fmt.Errorf("insert profile following: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profile_followers (profile_id, target_id)
		SELECT pt.id, pf.id
		FROM profiles pf, profiles pt
		WHERE pf.user_id = $1 AND pt.user_id = $2
		ON CONFLICT DO NOTHING
	`, followerID, followedID); err != nil {
		return nil, fmt.Errorf("insert profile followers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit follow: %w", err)
	}
	tx = nil

	return &follow, nil
}

// FollowByID returns one edge.
func (s *Store) FollowByID(ctx context.Context, id int64) (*models.Follow, error) {
	var follow models.Follow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, follower_id, followed_id, created_at
		FROM follows
		WHERE id = $1
	`, id).Scan(&follow.ID, &follow.FollowerID, &follow.FollowedID, &follow.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFollowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get follow: %w", err)
	}
	return &follow, nil
}

// DeleteFollow removes an edge and the matching profile-set rows.
func (s *Store) DeleteFollow(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var followerID, followedID int64
	err = tx.QueryRowContext(ctx, `
		DELETE FROM follows WHERE id = $1
		RETURNING follower_id, followed_id
	`, id).Scan(&followerID, &followedID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrFollowNotFound
	}
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM profile_following
		WHERE (profile_id, target_id) IN (
			SELECT pf.id, pt.id FROM profiles pf, profiles pt
			WHERE pf.user_id = $1 AND pt.user_id = $2
		)
	`, followerID, followedID); err != nil {
		return fmt.Errorf("delete profile following: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM profile_followers
		WHERE (profile_id, target_id) IN (
			SELECT pt.id, pf.id FROM profiles pf, profiles pt
			WHERE pf.user_id = $1 AND pt.user_id = $2
		)
	`, followerID, followedID); err != nil {
		return fmt.Errorf("delete profile followers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unfollow: %w", err)
	}
	tx = nil

	return nil
}

// ListFollowing returns the edges a user created.
func (s *Store) ListFollowing(ctx context.Context, followerID int64) ([]*models.Follow, error) {
	return s.listFollows(ctx, `
		SELECT id, follower_id, followed_id, created_at
		FROM follows
		WHERE follower_id = $1
		ORDER BY created_at DESC, id DESC`, followerID)
}

// ListFollowers returns the edges pointing at a user.
func (s *Store) ListFollowers(ctx context.Context, followedID int64) ([]*models.Follow, error) {
	return s.listFollows(ctx, `
		SELECT id, follower_id, followed_id, created_at
		FROM follows
		WHERE followed_id = $1
		ORDER BY created_at DESC, id DESC`, followedID)
}

func (s *Store) listFollows(ctx context.Context, query string, arg int64) ([]*models.Follow, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	var follows []*models.Follow
	for rows.Next() {
		var follow models.Follow
		if err := rows.Scan(&follow.ID, &follow.FollowerID, &follow.FollowedID, &follow.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		follows = append(follows, &follow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follows: %w", err)
	}
	return follows, nil
}
