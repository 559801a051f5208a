package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"lyriclib/internal/auth"
	"lyriclib/internal/models"
)

var (
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound indicates a missing profile row.
	ErrProfileNotFound = errors.New("profile not found")
)

// CreateUser registers a new account. The profile row is inserted in the
// same transaction, so a user never exists without one.
func (s *Store) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
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

	var user models.User
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, is_staff, is_active, created_at
	`, email, hash).Scan(&user.ID, &user.Email, &user.IsStaff, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email)
		VALUES ($1, $2)
	`, user.ID, email); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return &user, nil
}

// Authenticate validates credentials and returns the account ID.
func (s *Store) Authenticate(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var (
		userID int64
		hash   []byte
		active bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash, is_active
		FROM users
		WHERE email = $1
	`, email).Scan(&userID, &hash, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			auth.VerifyDummy(password)
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(password, hash) || !active {
		return 0, ErrInvalidCredentials
	}
	return userID, nil
}

// UserByID returns a single account.
func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, is_staff, is_active, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.IsStaff, &user.IsActive, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// ListUsers returns all accounts.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, is_staff, is_active, created_at
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.IsStaff, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdateUserPassword replaces the stored credential.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1 WHERE id = $2
	`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account. Owned content, the profile and all
// social records cascade away with it.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ProfileByUserID returns the profile tied to an account, including both
// denormalized relationship sets.
func (s *Store) ProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	var (
		profile   models.Profile
		birthDate sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.user_id, p.bio, p.birth_date, p.username, p.first_name, p.last_name,
			p.email, p.image, p.verified,
			ARRAY(SELECT target_id FROM profile_following WHERE profile_id = p.id ORDER BY target_id),
			ARRAY(SELECT target_id FROM profile_followers WHERE profile_id = p.id ORDER BY target_id)
		FROM profiles p
		WHERE p.user_id = $1
	`, userID).Scan(&profile.ID, &profile.UserID, &profile.Bio, &birthDate, &profile.Username,
		&profile.FirstName, &profile.LastName, &profile.Email, &profile.Image, &profile.Verified,
		pq.Array(&profile.Following), pq.Array(&profile.Followers))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if birthDate.Valid {
		d := birthDate.Time
		profile.BirthDate = &d
	}
	return &profile, nil
}

// UpdateProfile replaces the editable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, userID int64, input models.ProfileInput) error {
	var birthDate sql.NullTime
	if input.BirthDate != nil {
		birthDate = sql.NullTime{Time: *input.BirthDate, Valid: true}
	}
	image := input.Image
	if image == "" {
		image = "default.jpg"
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET bio = $1, birth_date = $2, username = $3, first_name = $4, last_name = $5,
			email = $6, image = $7
		WHERE user_id = $8
	`, input.Bio, birthDate, input.Username, input.FirstName, input.LastName,
		input.Email, image, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// CreateSession stores a refresh session until its expiry.
func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// SessionUserID resolves a live refresh session to its account.
func (s *Store) SessionUserID(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM sessions
		WHERE token = $1 AND expires_at > NOW()
	`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

// DeleteSession revokes a refresh session.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
