package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"lyriclib/internal/models"
)

func TestCreateFollowMaintainsProfileSets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		RETURNING id, follower_id, followed_id, created_at
	`)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id", "created_at"}).
			AddRow(int64(10), int64(1), int64(2), time.Now()))
	mock.ExpectExec("INSERT INTO profile_following").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO profile_followers").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	follow, err := s.CreateFollow(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}
	if follow.FollowerID != 1 || follow.FollowedID != 2 {
		t.Fatalf("unexpected edge %d -> %d", follow.FollowerID, follow.FollowedID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateFollowDuplicatePair(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO follows").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err = s.CreateFollow(context.Background(), 1, 2)
	if !errors.Is(err, ErrDuplicateFollow) {
		t.Fatalf("expected ErrDuplicateFollow, got %v", err)
	}
}

func TestCreateFollowSelf(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.CreateFollow(context.Background(), 5, 5); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestCreateReactionDuplicateTriple(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("INSERT INTO reactions").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.CreateReaction(context.Background(), 1, 2, models.ReactionLike)
	if !errors.Is(err, ErrDuplicateReaction) {
		t.Fatalf("expected ErrDuplicateReaction, got %v", err)
	}
}

func TestCreateReactionDistinctKindsAllowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	for i, kind := range []models.ReactionKind{models.ReactionLike, models.ReactionLove} {
		mock.ExpectQuery("INSERT INTO reactions").
			WithArgs(int64(1), int64(2), string(kind)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "song_id", "user_id", "kind", "created_at"}).
				AddRow(int64(i+1), int64(1), int64(2), string(kind), time.Now()))
	}

	if _, err := s.CreateReaction(context.Background(), 1, 2, models.ReactionLike); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if _, err := s.CreateReaction(context.Background(), 1, 2, models.ReactionLove); err != nil {
		t.Fatalf("Love on same song: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReactionUnknownKind(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.CreateReaction(context.Background(), 1, 2, "Wow"); !errors.Is(err, ErrInvalidReaction) {
		t.Fatalf("expected ErrInvalidReaction, got %v", err)
	}
}

func TestCreateSavedPostDuplicatePair(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("INSERT INTO saved_posts").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.CreateSavedPost(context.Background(), 1, 2)
	if !errors.Is(err, ErrDuplicateSavedPost) {
		t.Fatalf("expected ErrDuplicateSavedPost, got %v", err)
	}
}

func TestCreateCommentRequiresContent(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.CreateComment(context.Background(), 1, 2, "   "); !errors.Is(err, ErrInvalidComment) {
		t.Fatalf("expected ErrInvalidComment, got %v", err)
	}
}

func TestDeleteFolderLeavesSongsAlone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// Only the folder row is deleted from the application's side: list
	// items go away via ON DELETE CASCADE and no statement touches songs.
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM folders WHERE id = $1`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteFolder(context.Background(), 4); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
