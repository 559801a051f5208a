package models

import "time"

// User is an authenticated account. Email is the login identity.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsStaff   bool      `json:"is_staff" db:"is_staff"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile is the public-facing extension of a user. Every user has
// exactly one profile for its entire lifetime.
type Profile struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Bio       string     `json:"bio" db:"bio"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Username  string     `json:"username" db:"username"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Image     string     `json:"image" db:"image"`
	Verified  bool       `json:"verified" db:"verified"`

	// Denormalized relationship sets, maintained independently of one
	// another: Following holds profile IDs this profile follows,
	// Followers holds profile IDs that follow it.
	Following []int64 `json:"following"`
	Followers []int64 `json:"followers"`
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Image     string     `json:"image"`
}
