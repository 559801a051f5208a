package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"lyriclib/internal/models"
)

func TestValidateSongInput(t *testing.T) {
	tests := []struct {
		name    string
		input   models.SongInput
		wantErr bool
	}{
		{
			name:  "valid",
			input: models.SongInput{Title: "Yesterday", Lyric: "...", Tempo: models.TempoSlow},
		},
		{
			name:  "tempo omitted defaults later",
			input: models.SongInput{Title: "Yesterday", Lyric: "..."},
		},
		{
			name:    "missing title",
			input:   models.SongInput{Lyric: "...", Tempo: models.TempoSlow},
			wantErr: true,
		},
		{
			name:    "missing lyric",
			input:   models.SongInput{Title: "Yesterday", Tempo: models.TempoSlow},
			wantErr: true,
		},
		{
			name:    "unknown tempo",
			input:   models.SongInput{Title: "Yesterday", Lyric: "...", Tempo: "LUDICROUS"},
			wantErr: true,
		},
		{
			// 40 characters, 120 bytes. Length is counted in characters.
			name:  "multibyte title within limit",
			input: models.SongInput{Title: strings.Repeat("歌", 40), Lyric: "...", Tempo: models.TempoSlow},
		},
		{
			name:    "title over 100 characters",
			input:   models.SongInput{Title: strings.Repeat("a", 101), Lyric: "...", Tempo: models.TempoSlow},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateSongInput(tc.input)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error but got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
			if tc.wantErr && !errors.Is(err, ErrInvalidSong) {
				t.Fatalf("expected ErrInvalidSong, got %v", err)
			}
		})
	}
}

func TestCreateSongAttachesRefsInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO songs (title, lyric, tempo, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, lyric, tempo, created_by, created_at, updated_at
	`)).
		WithArgs("Yesterday", "all my troubles", "FAST", int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "lyric", "tempo", "created_by", "created_at", "updated_at"}).
			AddRow(int64(3), "Yesterday", "all my troubles", "FAST", int64(7), now, now))

	// Each attachment set is cleared and re-inserted inside the song tx.
	for _, join := range []string{"song_artists", "song_composers", "song_lyricists", "song_languages", "song_tags", "song_urls"} {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ` + join + ` WHERE song_id = $1`)).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		if join == "song_artists" {
			mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO song_artists (song_id, artist_id) VALUES ($1, $2)`)).
				ExpectExec().
				WithArgs(int64(3), int64(11)).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
	}
	mock.ExpectCommit()

	// Hydration reads back the attachment names.
	nameRows := func(names ...string) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"name"})
		for _, n := range names {
			rows.AddRow(n)
		}
		return rows
	}
	mock.ExpectQuery("SELECT a.name FROM artists").WithArgs(int64(3)).WillReturnRows(nameRows("The Beatles"))
	mock.ExpectQuery("SELECT c.name FROM composers").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT l.name FROM lyricists").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT l.name FROM languages").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT t.name FROM tags").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT u.url FROM urls").WithArgs(int64(3)).WillReturnRows(nameRows())

	song, err := s.CreateSong(context.Background(), 7, models.SongInput{
		Title:     " Yesterday ",
		Lyric:     "all my troubles",
		Tempo:     models.TempoFast,
		ArtistIDs: []int64{11},
	})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}

	if song.ID != 3 {
		t.Fatalf("expected song ID 3, got %d", song.ID)
	}
	if song.CreatedBy != 7 {
		t.Fatalf("expected owner 7, got %d", song.CreatedBy)
	}
	if song.TempoLabel != "120-160 BPM" {
		t.Fatalf("expected tempo label 120-160 BPM, got %q", song.TempoLabel)
	}
	if len(song.Artists) != 1 || song.Artists[0] != "The Beatles" {
		t.Fatalf("expected artist names resolved, got %v", song.Artists)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSongDedupesAttachmentIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO songs (title, lyric, tempo, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, lyric, tempo, created_by, created_at, updated_at
	`)).
		WithArgs("Yesterday", "all my troubles", "FAST", int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "lyric", "tempo", "created_by", "created_at", "updated_at"}).
			AddRow(int64(3), "Yesterday", "all my troubles", "FAST", int64(7), now, now))

	// A doubled artist ID must collapse to a single join row instead of
	// colliding on the composite primary key.
	for _, join := range []string{"song_artists", "song_composers", "song_lyricists", "song_languages", "song_tags", "song_urls"} {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ` + join + ` WHERE song_id = $1`)).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		if join == "song_artists" {
			mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO song_artists (song_id, artist_id) VALUES ($1, $2)`)).
				ExpectExec().
				WithArgs(int64(3), int64(11)).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
	}
	mock.ExpectCommit()

	nameRows := func(names ...string) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"name"})
		for _, n := range names {
			rows.AddRow(n)
		}
		return rows
	}
	mock.ExpectQuery("SELECT a.name FROM artists").WithArgs(int64(3)).WillReturnRows(nameRows("The Beatles"))
	mock.ExpectQuery("SELECT c.name FROM composers").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT l.name FROM lyricists").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT l.name FROM languages").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT t.name FROM tags").WithArgs(int64(3)).WillReturnRows(nameRows())
	mock.ExpectQuery("SELECT u.url FROM urls").WithArgs(int64(3)).WillReturnRows(nameRows())

	_, err = s.CreateSong(context.Background(), 7, models.SongInput{
		Title:     "Yesterday",
		Lyric:     "all my troubles",
		Tempo:     models.TempoFast,
		ArtistIDs: []int64{11, 11},
	})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDedupeIDs(t *testing.T) {
	got := dedupeIDs([]int64{7, 7, 3, 7, 3})
	if len(got) != 2 || got[0] != 7 || got[1] != 3 {
		t.Fatalf("expected [7 3], got %v", got)
	}
}

func TestSongByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("SELECT id, title, lyric, tempo").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = s.SongByID(context.Background(), 404)
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestTempoRoundTrip(t *testing.T) {
	tests := []struct {
		tempo models.Tempo
		label string
	}{
		{models.TempoSlow, "60-80 BPM"},
		{models.TempoModerate, "80-120 BPM"},
		{models.TempoFast, "120-160 BPM"},
		{models.TempoVeryFast, "160-200 BPM"},
		{models.TempoExtremelyFast, "200+ BPM"},
	}
	for _, tc := range tests {
		if !tc.tempo.Valid() {
			t.Fatalf("tempo %q should be valid", tc.tempo)
		}
		if got := tc.tempo.Label(); got != tc.label {
			t.Fatalf("tempo %q label = %q, want %q", tc.tempo, got, tc.label)
		}
	}
	if models.Tempo("BRISK").Valid() {
		t.Fatal("unknown tempo should not validate")
	}
}
