package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"lyriclib/internal/models"
)

var (
	// ErrSongNotFound indicates the song does not exist.
	ErrSongNotFound = errors.New("song not found")
	// ErrInvalidSong indicates the input failed validation.
	ErrInvalidSong = errors.New("invalid song")
)

// SongFilter narrows ListSongs.
type SongFilter struct {
	CreatedBy int64
	Tempo     models.Tempo
	Title     string
}

func validateSongInput(input models.SongInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	}
	if utf8.RuneCountInString(input.Title) > 100 {
		return fmt.Errorf("%w: title exceeds 100 characters", ErrInvalidSong)
	}
	if strings.TrimSpace(input.Lyric) == "" {
		return fmt.Errorf("%w: lyric is required", ErrInvalidSong)
	}
	if input.Tempo != "" && !input.Tempo.Valid() {
		return fmt.Errorf("%w: unknown tempo %q", ErrInvalidSong, input.Tempo)
	}
	return nil
}

// CreateSong persists a song and its taxonomy attachments. The song row
// is inserted first so the join rows have an ID to reference; both phases
// share one transaction.
func (s *Store) CreateSong(ctx context.Context, userID int64, input models.SongInput) (*models.Song, error) {
	if err := validateSongInput(input); err != nil {
		return nil, err
	}
	tempo := input.Tempo
	if tempo == "" {
		tempo = models.TempoModerate
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

	var song models.Song
	err = tx.QueryRowContext(ctx, `
		INSERT INTO songs (title, lyric, tempo, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, lyric, tempo, created_by, created_at, updated_at
	`, strings.TrimSpace(input.Title), input.Lyric, tempo, userID).
		Scan(&song.ID, &song.Title, &song.Lyric, &song.Tempo, &song.CreatedBy, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}

	if err := replaceSongRefsTx(ctx, tx, song.ID, input); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit song create: %w", err)
	}
	tx = nil

	return s.hydrateSong(ctx, &song)
}

// UpdateSong rewrites the song row and replaces its attachment sets.
// Ownership is decided by the caller; the owner column never changes here.
func (s *Store) UpdateSong(ctx context.Context, id int64, input models.SongInput) (*models.Song, error) {
	if err := validateSongInput(input); err != nil {
		return nil, err
	}
	tempo := input.Tempo
	if tempo == "" {
		tempo = models.TempoModerate
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

	var song models.Song
	err = tx.QueryRowContext(ctx, `
		UPDATE songs
		SET title = $1, lyric = $2, tempo = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, title, lyric, tempo, created_by, created_at, updated_at
	`, strings.TrimSpace(input.Title), input.Lyric, tempo, id).
		Scan(&song.ID, &song.Title, &song.Lyric, &song.Tempo, &song.CreatedBy, &song.CreatedAt, &song.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}

	if err := replaceSongRefsTx(ctx, tx, song.ID, input); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit song update: %w", err)
	}
	tx = nil

	return s.hydrateSong(ctx, &song)
}

// SongByID returns a song with its attachment names resolved.
func (s *Store) SongByID(ctx context.Context, id int64) (*models.Song, error) {
	var song models.Song
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, lyric, tempo, created_by, created_at, updated_at
		FROM songs
		WHERE id = $1
	`, id).Scan(&song.ID, &song.Title, &song.Lyric, &song.Tempo, &song.CreatedBy, &song.CreatedAt, &song.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	return s.hydrateSong(ctx, &song)
}

// ListSongs returns songs matching the filter, newest first.
func (s *Store) ListSongs(ctx context.Context, filter SongFilter) ([]*models.Song, error) {
	query := `
		SELECT id, title, lyric, tempo, created_by, created_at, updated_at
		FROM songs
		WHERE 1=1`
	var args []any
	if filter.CreatedBy != 0 {
		args = append(args, filter.CreatedBy)
		query += fmt.Sprintf(" AND created_by = $%d", len(args))
	}
	if filter.Tempo != "" {
		args = append(args, filter.Tempo)
		query += fmt.Sprintf(" AND tempo = $%d", len(args))
	}
	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Lyric, &song.Tempo, &song.CreatedBy,
			&song.CreatedAt, &song.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, &song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	for _, song := range songs {
		if _, err := s.hydrateSong(ctx, song); err != nil {
			return nil, err
		}
	}
	return songs, nil
}

// DeleteSong removes a song. Reactions, comments, saved posts, list
// items and join rows cascade.
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

type songJoin struct {
	join   string
	column string
	ids    []int64
}

func songJoins(input models.SongInput) []songJoin {
	return []songJoin{
		{"song_artists", "artist_id", input.ArtistIDs},
		{"song_composers", "composer_id", input.ComposerIDs},
		{"song_lyricists", "lyricist_id", input.LyricistIDs},
		{"song_languages", "language_id", input.LanguageIDs},
		{"song_tags", "tag_id", input.TagIDs},
		{"song_urls", "url_id", input.URLIDs},
	}
}

// dedupeIDs drops repeated IDs so a doubled attachment in the input
// does not trip the join table's primary key.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func replaceSongRefsTx(ctx context.Context, tx *sql.Tx, songID int64, input models.SongInput) error {
	for _, j := range songJoins(input) {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE song_id = $1`, j.join), songID); err != nil {
			return fmt.Errorf("clear %s: %w", j.join, err)
		}
		if len(j.ids) == 0 {
			continue
		}
		stmt, err := tx.PrepareContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (song_id, %s) VALUES ($1, $2)`, j.join, j.column))
		if err != nil {
			return fmt.Errorf("prepare insert %s: %w", j.join, err)
		}
		for _, refID := range dedupeIDs(j.ids) {
			if _, err := stmt.ExecContext(ctx, songID, refID); err != nil {
				stmt.Close()
				if isForeignKeyViolation(err) {
					return fmt.Errorf("%w: unknown %s %d", ErrInvalidSong, j.column, refID)
				}
				return fmt.Errorf("insert %s: %w", j.join, err)
			}
		}
		stmt.Close()
	}
	return nil
}

func (s *Store) hydrateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	queries := []struct {
		dst   *[]string
		query string
	}{
		{&song.Artists, `SELECT a.name FROM artists a JOIN song_artists sa ON sa.artist_id = a.id WHERE sa.song_id = $1 ORDER BY a.name`},
		{&song.Composers, `SELECT c.name FROM composers c JOIN song_composers sc ON sc.composer_id = c.id WHERE sc.song_id = $1 ORDER BY c.name`},
		{&song.Lyricists, `SELECT l.name FROM lyricists l JOIN song_lyricists sl ON sl.lyricist_id = l.id WHERE sl.song_id = $1 ORDER BY l.name`},
		{&song.Languages, `SELECT l.name FROM languages l JOIN song_languages sl ON sl.language_id = l.id WHERE sl.song_id = $1 ORDER BY l.name`},
		{&song.Tags, `SELECT t.name FROM tags t JOIN song_tags st ON st.tag_id = t.id WHERE st.song_id = $1 ORDER BY t.name`},
		{&song.URLs, `SELECT u.url FROM urls u JOIN song_urls su ON su.url_id = u.id WHERE su.song_id = $1 ORDER BY u.url`},
	}
	for _, q := range queries {
		names, err := s.listStrings(ctx, q.query, song.ID)
		if err != nil {
			return nil, err
		}
		*q.dst = names
	}
	song.TempoLabel = song.Tempo.Label()
	return song, nil
}

func (s *Store) listStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return values, nil
}
