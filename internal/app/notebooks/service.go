// Package notebooks lets a user curate saved songs into a private
// notebook → folder → list-item hierarchy. Every operation verifies the
// viewer owns the containing notebook before touching anything below it.
package notebooks

import (
	"context"

	"lyriclib/internal/models"
	"lyriclib/internal/policy"
)

// Store describes the persistence operations required by the service.
type Store interface {
	CreateNotebook(ctx context.Context, userID int64, name string) (*models.Notebook, error)
	NotebookByID(ctx context.Context, id int64) (*models.Notebook, error)
	ListNotebooks(ctx context.Context, userID int64) ([]*models.Notebook, error)
	RenameNotebook(ctx context.Context, id int64, name string) error
	DeleteNotebook(ctx context.Context, id int64) error

	CreateFolder(ctx context.Context, notebookID int64, name string) (*models.Folder, error)
	FolderByID(ctx context.Context, id int64) (*models.Folder, int64, error)
	ListFolders(ctx context.Context, notebookID int64) ([]*models.Folder, error)
	RenameFolder(ctx context.Context, id int64, name string) error
	DeleteFolder(ctx context.Context, id int64) error

	CreateListItem(ctx context.Context, folderID, songID int64) (*models.ListItem, error)
	ListItemByID(ctx context.Context, id int64) (*models.ListItem, int64, error)
	ListItems(ctx context.Context, folderID int64) ([]*models.ListItem, error)
	DeleteListItem(ctx context.Context, id int64) error
}

// Service exposes the curation workflows.
type Service interface {
	CreateNotebook(ctx context.Context, viewer policy.Viewer, name string) (*models.Notebook, error)
	GetNotebook(ctx context.Context, viewer policy.Viewer, id int64) (*models.Notebook, error)
	ListNotebooks(ctx context.Context, viewer policy.Viewer) ([]*models.Notebook, error)
	RenameNotebook(ctx context.Context, viewer policy.Viewer, id int64, name string) error
	DeleteNotebook(ctx context.Context, viewer policy.Viewer, id int64) error

	CreateFolder(ctx context.Context, viewer policy.Viewer, notebookID int64, name string) (*models.Folder, error)
	GetFolder(ctx context.Context, viewer policy.Viewer, id int64) (*models.Folder, error)
	ListFolders(ctx context.Context, viewer policy.Viewer, notebookID int64) ([]*models.Folder, error)
	RenameFolder(ctx context.Context, viewer policy.Viewer, id int64, name string) error
	DeleteFolder(ctx context.Context, viewer policy.Viewer, id int64) error

	CreateListItem(ctx context.Context, viewer policy.Viewer, folderID, songID int64) (*models.ListItem, error)
	GetListItem(ctx context.Context, viewer policy.Viewer, id int64) (*models.ListItem, error)
	ListItems(ctx context.Context, viewer policy.Viewer, folderID int64) ([]*models.ListItem, error)
	DeleteListItem(ctx context.Context, viewer policy.Viewer, id int64) error
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) CreateNotebook(ctx context.Context, viewer policy.Viewer, name string) (*models.Notebook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindNotebook}); err != nil {
		return nil, err
	}
	return s.store.CreateNotebook(ctx, viewer.UserID, name)
}

func (s *service) GetNotebook(ctx context.Context, viewer policy.Viewer, id int64) (*models.Notebook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notebook, err := s.store.NotebookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindNotebook, OwnerID: notebook.UserID}); err != nil {
		return nil, err
	}
	return notebook, nil
}

func (s *service) ListNotebooks(ctx context.Context, viewer policy.Viewer) ([]*models.Notebook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindNotebook, OwnerID: viewer.UserID}); err != nil {
		return nil, err
	}
	return s.store.ListNotebooks(ctx, viewer.UserID)
}

func (s *service) RenameNotebook(ctx context.Context, viewer policy.Viewer, id int64, name string) error {
	if err := s.authorizeNotebook(ctx, viewer, id, policy.ActionUpdate); err != nil {
		return err
	}
	return s.store.RenameNotebook(ctx, id, name)
}

func (s *service) DeleteNotebook(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := s.authorizeNotebook(ctx, viewer, id, policy.ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteNotebook(ctx, id)
}

func (s *service) CreateFolder(ctx context.Context, viewer policy.Viewer, notebookID int64, name string) (*models.Folder, error) {
	// Creating inside a notebook is a write on that notebook.
	if err := s.authorizeNotebook(ctx, viewer, notebookID, policy.ActionUpdate); err != nil {
		return nil, err
	}
	return s.store.CreateFolder(ctx, notebookID, name)
}

func (s *service) GetFolder(ctx context.Context, viewer policy.Viewer, id int64) (*models.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	folder, ownerID, err := s.store.FolderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindFolder, OwnerID: ownerID}); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *service) ListFolders(ctx context.Context, viewer policy.Viewer, notebookID int64) ([]*models.Folder, error) {
	if err := s.authorizeNotebook(ctx, viewer, notebookID, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.store.ListFolders(ctx, notebookID)
}

func (s *service) RenameFolder(ctx context.Context, viewer policy.Viewer, id int64, name string) error {
	if err := s.authorizeFolder(ctx, viewer, id, policy.ActionUpdate); err != nil {
		return err
	}
	return s.store.RenameFolder(ctx, id, name)
}

func (s *service) DeleteFolder(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := s.authorizeFolder(ctx, viewer, id, policy.ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteFolder(ctx, id)
}

func (s *service) CreateListItem(ctx context.Context, viewer policy.Viewer, folderID, songID int64) (*models.ListItem, error) {
	if err := s.authorizeFolder(ctx, viewer, folderID, policy.ActionUpdate); err != nil {
		return nil, err
	}
	return s.store.CreateListItem(ctx, folderID, songID)
}

func (s *service) GetListItem(ctx context.Context, viewer policy.Viewer, id int64) (*models.ListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, ownerID, err := s.store.ListItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindListItem, OwnerID: ownerID}); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, viewer policy.Viewer, folderID int64) ([]*models.ListItem, error) {
	if err := s.authorizeFolder(ctx, viewer, folderID, policy.ActionRead); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, folderID)
}

func (s *service) DeleteListItem(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, ownerID, err := s.store.ListItemByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindListItem, OwnerID: ownerID}); err != nil {
		return err
	}
	return s.store.DeleteListItem(ctx, id)
}

func (s *service) authorizeNotebook(ctx context.Context, viewer policy.Viewer, id int64, action policy.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	notebook, err := s.store.NotebookByID(ctx, id)
	if err != nil {
		return err
	}
	return policy.Authorize(viewer, action, policy.Resource{Kind: policy.KindNotebook, OwnerID: notebook.UserID})
}

func (s *service) authorizeFolder(ctx context.Context, viewer policy.Viewer, id int64, action policy.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, ownerID, err := s.store.FolderByID(ctx, id)
	if err != nil {
		return err
	}
	return policy.Authorize(viewer, action, policy.Resource{Kind: policy.KindFolder, OwnerID: ownerID})
}
