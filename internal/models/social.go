package models

import "time"

// ReactionKind is the fixed set of reactions a user can leave on a song.
type ReactionKind string

const (
	ReactionLike ReactionKind = "Like"
	ReactionLove ReactionKind = "Love"
)

// ReactionKinds lists the valid kinds.
func ReactionKinds() []ReactionKind {
	return []ReactionKind{ReactionLike, ReactionLove}
}

// Valid reports whether the kind is one of the fixed reactions.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionLove
}

// Follow is a directed edge from one user to another. At most one edge
// exists per ordered pair.
type Follow struct {
	ID         int64     `json:"id" db:"id"`
	FollowerID int64     `json:"follower_id" db:"follower_id"`
	FollowedID int64     `json:"followed_id" db:"followed_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Reaction records one (song, user, kind) triple. The same user may hold
// distinct kinds on the same song, but each triple at most once.
type Reaction struct {
	ID        int64        `json:"id" db:"id"`
	SongID    int64        `json:"song_id" db:"song_id"`
	UserID    int64        `json:"user_id" db:"user_id"`
	Kind      ReactionKind `json:"kind" db:"kind"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// Comment is append-only free text on a song.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	SongID    int64     `json:"song_id" db:"song_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SavedPost marks a song saved by a user, at most once per pair.
type SavedPost struct {
	ID      int64     `json:"id" db:"id"`
	UserID  int64     `json:"user_id" db:"user_id"`
	SongID  int64     `json:"song_id" db:"song_id"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}
