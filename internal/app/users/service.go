package users

import (
	"context"
	"fmt"
	"time"

	"lyriclib/internal/auth"
	"lyriclib/internal/models"
	"lyriclib/internal/policy"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (int64, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserPassword(ctx context.Context, id int64, password string) error
	DeleteUser(ctx context.Context, id int64) error
	ProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, input models.ProfileInput) error
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	SessionUserID(ctx context.Context, token string) (int64, error)
	DeleteSession(ctx context.Context, token string) error
}

// Tokens issues and checks the JWT pairs handed to clients.
type Tokens interface {
	IssuePair(userID int64) (auth.TokenPair, error)
	IssueAccess(userID int64) (string, error)
	VerifyRefresh(token string) (int64, error)
	RefreshTTL() time.Duration
}

// Service exposes account and profile workflows.
type Service interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	List(ctx context.Context, viewer policy.Viewer) ([]*models.User, error)
	Get(ctx context.Context, viewer policy.Viewer, id int64) (*models.User, error)
	ChangePassword(ctx context.Context, viewer policy.Viewer, id int64, password string) error
	Delete(ctx context.Context, viewer policy.Viewer, id int64) error
	Profile(ctx context.Context, viewer policy.Viewer, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, viewer policy.Viewer, userID int64, input models.ProfileInput) error
}

type service struct {
	store  Store
	tokens Tokens
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens Tokens) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, email, password)
}

func (s *service) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	if err := ctx.Err(); err != nil {
		return auth.TokenPair{}, err
	}
	userID, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		return auth.TokenPair{}, err
	}
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	expiresAt := time.Now().UTC().Add(s.tokens.RefreshTTL())
	if err := s.store.CreateSession(ctx, pair.Refresh, userID, expiresAt); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// token must verify and its session row must still exist, so revoked
// refresh tokens stop working even before they expire.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	sessionUserID, err := s.store.SessionUserID(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if sessionUserID != userID {
		return "", auth.ErrInvalidToken
	}
	return s.tokens.IssueAccess(userID)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, refreshToken)
}

func (s *service) List(ctx context.Context, viewer policy.Viewer) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func (s *service) Get(ctx context.Context, viewer policy.Viewer, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindUser, OwnerID: id}); err != nil {
		return nil, err
	}
	return s.store.UserByID(ctx, id)
}

func (s *service) ChangePassword(ctx context.Context, viewer policy.Viewer, id int64, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionUpdate, policy.Resource{Kind: policy.KindUser, OwnerID: id}); err != nil {
		return err
	}
	return s.store.UpdateUserPassword(ctx, id, password)
}

func (s *service) Delete(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindUser, OwnerID: id}); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

func (s *service) Profile(ctx context.Context, viewer policy.Viewer, userID int64) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindProfile, OwnerID: userID}); err != nil {
		return nil, err
	}
	return s.store.ProfileByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, viewer policy.Viewer, userID int64, input models.ProfileInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionUpdate, policy.Resource{Kind: policy.KindProfile, OwnerID: userID}); err != nil {
		return err
	}
	return s.store.UpdateProfile(ctx, userID, input)
}
