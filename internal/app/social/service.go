// Package social maintains the follow graph and the per-song reaction,
// comment and saved-post records.
package social

import (
	"context"

	"lyriclib/internal/models"
	"lyriclib/internal/policy"
)

// Store describes the persistence operations required by the social service.
type Store interface {
	CreateFollow(ctx context.Context, followerID, followedID int64) (*models.Follow, error)
	FollowByID(ctx context.Context, id int64) (*models.Follow, error)
	DeleteFollow(ctx context.Context, id int64) error
	ListFollowing(ctx context.Context, followerID int64) ([]*models.Follow, error)
	ListFollowers(ctx context.Context, followedID int64) ([]*models.Follow, error)

	CreateReaction(ctx context.Context, songID, userID int64, kind models.ReactionKind) (*models.Reaction, error)
	ReactionByID(ctx context.Context, id int64) (*models.Reaction, error)
	DeleteReaction(ctx context.Context, id int64) error
	ListReactionsBySong(ctx context.Context, songID int64) ([]*models.Reaction, error)

	CreateComment(ctx context.Context, songID, userID int64, content string) (*models.Comment, error)
	ListCommentsBySong(ctx context.Context, songID int64) ([]*models.Comment, error)

	CreateSavedPost(ctx context.Context, userID, songID int64) (*models.SavedPost, error)
	SavedPostByID(ctx context.Context, id int64) (*models.SavedPost, error)
	DeleteSavedPost(ctx context.Context, id int64) error
	ListSavedPosts(ctx context.Context, userID int64) ([]*models.SavedPost, error)
}

// Service exposes the social-graph workflows. Records are always created
// on behalf of the viewer; the owner cannot be supplied by the caller.
type Service interface {
	Follow(ctx context.Context, viewer policy.Viewer, followedID int64) (*models.Follow, error)
	Unfollow(ctx context.Context, viewer policy.Viewer, id int64) error
	Following(ctx context.Context, viewer policy.Viewer) ([]*models.Follow, error)
	Followers(ctx context.Context, viewer policy.Viewer) ([]*models.Follow, error)

	React(ctx context.Context, viewer policy.Viewer, songID int64, kind models.ReactionKind) (*models.Reaction, error)
	Unreact(ctx context.Context, viewer policy.Viewer, id int64) error
	SongReactions(ctx context.Context, viewer policy.Viewer, songID int64) ([]*models.Reaction, error)

	Comment(ctx context.Context, viewer policy.Viewer, songID int64, content string) (*models.Comment, error)
	SongComments(ctx context.Context, viewer policy.Viewer, songID int64) ([]*models.Comment, error)

	Save(ctx context.Context, viewer policy.Viewer, songID int64) (*models.SavedPost, error)
	Unsave(ctx context.Context, viewer policy.Viewer, id int64) error
	Saved(ctx context.Context, viewer policy.Viewer) ([]*models.SavedPost, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Follow(ctx context.Context, viewer policy.Viewer, followedID int64) (*models.Follow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindFollow}); err != nil {
		return nil, err
	}
	return s.store.CreateFollow(ctx, viewer.UserID, followedID)
}

func (s *service) Unfollow(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	follow, err := s.store.FollowByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindFollow, OwnerID: follow.FollowerID}); err != nil {
		return err
	}
	return s.store.DeleteFollow(ctx, id)
}

func (s *service) Following(ctx context.Context, viewer policy.Viewer) ([]*models.Follow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindFollow, OwnerID: viewer.UserID}); err != nil {
		return nil, err
	}
	return s.store.ListFollowing(ctx, viewer.UserID)
}

func (s *service) Followers(ctx context.Context, viewer policy.Viewer) ([]*models.Follow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindFollow, OwnerID: viewer.UserID}); err != nil {
		return nil, err
	}
	return s.store.ListFollowers(ctx, viewer.UserID)
}

func (s *service) React(ctx context.Context, viewer policy.Viewer, songID int64, kind models.ReactionKind) (*models.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindReaction}); err != nil {
		return nil, err
	}
	return s.store.CreateReaction(ctx, songID, viewer.UserID, kind)
}

func (s *service) Unreact(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reaction, err := s.store.ReactionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindReaction, OwnerID: reaction.UserID}); err != nil {
		return err
	}
	return s.store.DeleteReaction(ctx, id)
}

func (s *service) SongReactions(ctx context.Context, viewer policy.Viewer, songID int64) ([]*models.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindReaction}); err != nil {
		return nil, err
	}
	return s.store.ListReactionsBySong(ctx, songID)
}

func (s *service) Comment(ctx context.Context, viewer policy.Viewer, songID int64, content string) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindComment}); err != nil {
		return nil, err
	}
	return s.store.CreateComment(ctx, songID, viewer.UserID, content)
}

func (s *service) SongComments(ctx context.Context, viewer policy.Viewer, songID int64) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindComment}); err != nil {
		return nil, err
	}
	return s.store.ListCommentsBySong(ctx, songID)
}

func (s *service) Save(ctx context.Context, viewer policy.Viewer, songID int64) (*models.SavedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionCreate, policy.Resource{Kind: policy.KindSavedPost}); err != nil {
		return nil, err
	}
	return s.store.CreateSavedPost(ctx, viewer.UserID, songID)
}

func (s *service) Unsave(ctx context.Context, viewer policy.Viewer, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	saved, err := s.store.SavedPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(viewer, policy.ActionDelete, policy.Resource{Kind: policy.KindSavedPost, OwnerID: saved.UserID}); err != nil {
		return err
	}
	return s.store.DeleteSavedPost(ctx, id)
}

func (s *service) Saved(ctx context.Context, viewer policy.Viewer) ([]*models.SavedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := policy.Authorize(viewer, policy.ActionRead, policy.Resource{Kind: policy.KindSavedPost, OwnerID: viewer.UserID}); err != nil {
		return nil, err
	}
	return s.store.ListSavedPosts(ctx, viewer.UserID)
}
