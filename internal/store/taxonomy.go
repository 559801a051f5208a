package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lyriclib/internal/models"
)

var (
	// ErrEntryNotFound indicates a missing vocabulary entry.
	ErrEntryNotFound = errors.New("taxonomy entry not found")
	// ErrUnknownVocabulary indicates an unrecognized vocabulary name.
	ErrUnknownVocabulary = errors.New("unknown vocabulary")
	// ErrURLNotFound indicates a missing url row.
	ErrURLNotFound = errors.New("url not found")
)

// vocabularies maps the public vocabulary names onto their tables. Only
// these names are ever interpolated into SQL.
var vocabularies = map[string]string{
	"artists":   "artists",
	"composers": "composers",
	"lyricists": "lyricists",
	"languages": "languages",
	"tags":      "tags",
}

// Vocabularies lists the valid vocabulary names.
func Vocabularies() []string {
	return []string{"artists", "composers", "lyricists", "languages", "tags"}
}

func vocabularyTable(vocabulary string) (string, error) {
	table, ok := vocabularies[vocabulary]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVocabulary, vocabulary)
	}
	return table, nil
}

// CreateEntry adds a name to the shared vocabulary.
func (s *Store) CreateEntry(ctx context.Context, vocabulary, name string) (*models.TaxonomyEntry, error) {
	table, err := vocabularyTable(vocabulary)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var entry models.TaxonomyEntry
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name`, table), name).
		Scan(&entry.ID, &entry.Name)
	if err != nil {
		return nil, fmt.Errorf("insert %s entry: %w", vocabulary, err)
	}
	return &entry, nil
}

// UpdateEntry renames a vocabulary entry.
func (s *Store) UpdateEntry(ctx context.Context, vocabulary string, id int64, name string) (*models.TaxonomyEntry, error) {
	table, err := vocabularyTable(vocabulary)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var entry models.TaxonomyEntry
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2 RETURNING id, name`, table), name, id).
		Scan(&entry.ID, &entry.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update %s entry: %w", vocabulary, err)
	}
	return &entry, nil
}

// EntryByID returns one vocabulary entry.
func (s *Store) EntryByID(ctx context.Context, vocabulary string, id int64) (*models.TaxonomyEntry, error) {
	table, err := vocabularyTable(vocabulary)
	if err != nil {
		return nil, err
	}

	var entry models.TaxonomyEntry
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, table), id).
		Scan(&entry.ID, &entry.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s entry: %w", vocabulary, err)
	}
	return &entry, nil
}

// ListEntries returns the whole vocabulary ordered by name.
func (s *Store) ListEntries(ctx context.Context, vocabulary string) ([]*models.TaxonomyEntry, error) {
	table, err := vocabularyTable(vocabulary)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC, id ASC`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", vocabulary, err)
	}
	defer rows.Close()

	var entries []*models.TaxonomyEntry
	for rows.Next() {
		var entry models.TaxonomyEntry
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", vocabulary, err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", vocabulary, err)
	}
	return entries, nil
}

// DeleteEntry removes a vocabulary entry; song attachments cascade.
func (s *Store) DeleteEntry(ctx context.Context, vocabulary string, id int64) error {
	table, err := vocabularyTable(vocabulary)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("delete %s entry: %w", vocabulary, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// CreateURL adds a shared url row.
func (s *Store) CreateURL(ctx context.Context, url string) (*models.URL, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	var row models.URL
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO urls (url) VALUES ($1) RETURNING id, url
	`, url).Scan(&row.ID, &row.URL)
	if err != nil {
		return nil, fmt.Errorf("insert url: %w", err)
	}
	return &row, nil
}

// ListURLs returns all url rows.
func (s *Store) ListURLs(ctx context.Context) ([]*models.URL, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, url FROM urls ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	defer rows.Close()

	var urls []*models.URL
	for rows.Next() {
		var row models.URL
		if err := rows.Scan(&row.ID, &row.URL); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate urls: %w", err)
	}
	return urls, nil
}

// DeleteURL removes a url row; song attachments cascade.
func (s *Store) DeleteURL(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM urls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete url: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrURLNotFound
	}
	return nil
}
