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
	// ErrNotebookNotFound indicates a missing notebook.
	ErrNotebookNotFound = errors.New("notebook not found")
	// ErrFolderNotFound indicates a missing folder.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrListItemNotFound indicates a missing list item.
	ErrListItemNotFound = errors.New("list item not found")
)

// CreateNotebook adds a notebook owned by the user.
func (s *Store) CreateNotebook(ctx context.Context, userID int64, name string) (*models.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var notebook models.Notebook
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notebooks (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name
	`, userID, name).Scan(&notebook.ID, &notebook.UserID, &notebook.Name)
	if err != nil {
		return nil, fmt.Errorf("insert notebook: %w", err)
	}
	return &notebook, nil
}

// NotebookByID returns one notebook.
func (s *Store) NotebookByID(ctx context.Context, id int64) (*models.Notebook, error) {
	var notebook models.Notebook
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name FROM notebooks WHERE id = $1
	`, id).Scan(&notebook.ID, &notebook.UserID, &notebook.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotebookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notebook: %w", err)
	}
	return &notebook, nil
}

// ListNotebooks returns all notebooks owned by the user.
func (s *Store) ListNotebooks(ctx context.Context, userID int64) ([]*models.Notebook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name FROM notebooks WHERE user_id = $1 ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []*models.Notebook
	for rows.Next() {
		var notebook models.Notebook
		if err := rows.Scan(&notebook.ID, &notebook.UserID, &notebook.Name); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		notebooks = append(notebooks, &notebook)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notebooks: %w", err)
	}
	return notebooks, nil
}

// RenameNotebook updates a notebook's name.
func (s *Store) RenameNotebook(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE notebooks SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename notebook: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotebookNotFound
	}
	return nil
}

// DeleteNotebook removes a notebook; folders and list items cascade.
func (s *Store) DeleteNotebook(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notebooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotebookNotFound
	}
	return nil
}

// CreateFolder adds a folder to a notebook.
func (s *Store) CreateFolder(ctx context.Context, notebookID int64, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var folder models.Folder
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO folders (notebook_id, name)
		VALUES ($1, $2)
		RETURNING id, notebook_id, name
	`, notebookID, name).Scan(&folder.ID, &folder.NotebookID, &folder.Name)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotebookNotFound
		}
		return nil, fmt.Errorf("insert folder: %w", err)
	}
	return &folder, nil
}

// FolderByID returns a folder and the ID of the user owning its notebook.
func (s *Store) FolderByID(ctx context.Context, id int64) (*models.Folder, int64, error) {
	var (
		folder  models.Folder
		ownerID int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT f.id, f.notebook_id, f.name, n.user_id
		FROM folders f
		JOIN notebooks n ON n.id = f.notebook_id
		WHERE f.id = $1
	`, id).Scan(&folder.ID, &folder.NotebookID, &folder.Name, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrFolderNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get folder: %w", err)
	}
	return &folder, ownerID, nil
}

// ListFolders returns the folders of one notebook.
func (s *Store) ListFolders(ctx context.Context, notebookID int64) ([]*models.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, notebook_id, name FROM folders WHERE notebook_id = $1 ORDER BY id ASC
	`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []*models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := rows.Scan(&folder.ID, &folder.NotebookID, &folder.Name); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, &folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

// RenameFolder updates a folder's name.
func (s *Store) RenameFolder(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE folders SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// DeleteFolder removes a folder. Its list items cascade away; the songs
// they referenced are untouched.
func (s *Store) DeleteFolder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// CreateListItem files a song into a folder.
func (s *Store) CreateListItem(ctx context.Context, folderID, songID int64) (*models.ListItem, error) {
	var item models.ListItem
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO list_items (folder_id, song_id)
		VALUES ($1, $2)
		RETURNING id, folder_id, song_id, added_at
	`, folderID, songID).Scan(&item.ID, &item.FolderID, &item.SongID, &item.AddedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("insert list item: %w", err)
	}
	return &item, nil
}

// ListItemByID returns a list item and the ID of the user owning its
// notebook tree.
func (s *Store) ListItemByID(ctx context.Context, id int64) (*models.ListItem, int64, error) {
	var (
		item    models.ListItem
		ownerID int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT li.id, li.folder_id, li.song_id, li.added_at, n.user_id
		FROM list_items li
		JOIN folders f ON f.id = li.folder_id
		JOIN notebooks n ON n.id = f.notebook_id
		WHERE li.id = $1
	`, id).Scan(&item.ID, &item.FolderID, &item.SongID, &item.AddedAt, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrListItemNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get list item: %w", err)
	}
	return &item, ownerID, nil
}

// ListItems returns the items of one folder, oldest first.
func (s *Store) ListItems(ctx context.Context, folderID int64) ([]*models.ListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, folder_id, song_id, added_at
		FROM list_items
		WHERE folder_id = $1
		ORDER BY added_at ASC, id ASC
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*models.ListItem
	for rows.Next() {
		var item models.ListItem
		if err := rows.Scan(&item.ID, &item.FolderID, &item.SongID, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list items: %w", err)
	}
	return items, nil
}

// DeleteListItem removes one list item.
func (s *Store) DeleteListItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete list item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrListItemNotFound
	}
	return nil
}
