package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lyriclib/internal/models"
	"lyriclib/internal/store"
)

const (
	demoEmail    = "demo@lyriclib.local"
	demoPassword = "demo-password"
)

func bootstrapDemoData(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	ready, err := tableExists(ctx, db, "users")
	if err != nil {
		return fmt.Errorf("check users table: %w", err)
	}
	if !ready {
		// Migrations have not run yet; nothing to seed.
		return nil
	}

	if err := ensureDemoUser(ctx, dataStore); err != nil {
		return err
	}
	if err := ensureDemoSong(ctx, db, dataStore); err != nil {
		return err
	}
	return nil
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store) error {
	if _, err := dataStore.CreateUser(ctx, demoEmail, demoPassword); err != nil && !errors.Is(err, store.ErrUserExists) {
		return fmt.Errorf("bootstrap demo user: %w", err)
	}
	return nil
}

func ensureDemoSong(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	var userID int64
	if err := db.QueryRowContext(ctx, `
		SELECT id
		FROM users
		WHERE email = $1
	`, demoEmail).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("lookup demo user: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM songs
		WHERE created_by = $1
	`, userID).Scan(&count); err != nil {
		return fmt.Errorf("count demo songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	artist, err := dataStore.CreateEntry(ctx, "artists", "Demo Artist")
	if err != nil {
		return fmt.Errorf("seed demo artist: %w", err)
	}
	tag, err := dataStore.CreateEntry(ctx, "tags", "demo")
	if err != nil {
		return fmt.Errorf("seed demo tag: %w", err)
	}

	if _, err := dataStore.CreateSong(ctx, userID, models.SongInput{
		Title:     "Welcome to LyricLib",
		Lyric:     "Write a song, share the words, keep the tempo.",
		Tempo:     models.TempoModerate,
		ArtistIDs: []int64{artist.ID},
		TagIDs:    []int64{tag.ID},
	}); err != nil {
		return fmt.Errorf("seed demo song: %w", err)
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	return exists, err
}
