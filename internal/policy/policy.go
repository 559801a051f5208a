// Package policy decides, per (viewer, action, resource) triple, whether
// the action is permitted. It is the single authorization point: handlers
// and services call Authorize instead of scattering ownership checks.
package policy

import "errors"

var (
	// ErrUnauthenticated means the action needs a signed-in identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity is known but not allowed.
	ErrForbidden = errors.New("forbidden")
)

// Action enumerates the operations the policy rules on.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Kind classifies the entity a rule applies to.
type Kind int

const (
	KindSong Kind = iota
	KindFollow
	KindReaction
	KindComment
	KindSavedPost
	KindNotebook
	KindFolder
	KindListItem
	KindTaxonomy
	KindURL
	KindProfile
	KindUser
)

// Viewer identifies the requesting identity. The zero Viewer is anonymous.
type Viewer struct {
	UserID int64
}

// Anonymous reports whether no identity is attached to the request.
func (v Viewer) Anonymous() bool {
	return v.UserID == 0
}

// Resource names the target of an action. OwnerID is zero for unowned
// entities (taxonomy vocabulary, urls).
type Resource struct {
	Kind    Kind
	OwnerID int64
}

// Authorize returns nil when viewer may perform action on resource.
func Authorize(viewer Viewer, action Action, resource Resource) error {
	switch resource.Kind {
	case KindSong:
		return authorizeSong(viewer, action, resource)
	case KindTaxonomy, KindURL:
		// Open vocabulary: readable by anyone, writable by any
		// authenticated identity. No per-row owner exists.
		if action == ActionRead {
			return nil
		}
		if viewer.Anonymous() {
			return ErrUnauthenticated
		}
		return nil
	case KindNotebook, KindFolder, KindListItem:
		// The notebook tree is private end to end.
		return authorizeOwned(viewer, action, resource, true)
	case KindFollow, KindReaction, KindComment, KindSavedPost:
		return authorizeOwned(viewer, action, resource, false)
	case KindProfile, KindUser:
		if viewer.Anonymous() {
			return ErrUnauthenticated
		}
		if action == ActionRead {
			return nil
		}
		if viewer.UserID != resource.OwnerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

func authorizeSong(viewer Viewer, action Action, resource Resource) error {
	switch action {
	case ActionRead:
		return nil
	case ActionCreate:
		if viewer.Anonymous() {
			return ErrUnauthenticated
		}
		return nil
	default:
		if viewer.Anonymous() {
			return ErrUnauthenticated
		}
		if viewer.UserID != resource.OwnerID {
			return ErrForbidden
		}
		return nil
	}
}

func authorizeOwned(viewer Viewer, action Action, resource Resource, privateRead bool) error {
	if viewer.Anonymous() {
		return ErrUnauthenticated
	}
	switch action {
	case ActionCreate:
		return nil
	case ActionRead:
		if privateRead && viewer.UserID != resource.OwnerID {
			return ErrForbidden
		}
		return nil
	default:
		if viewer.UserID != resource.OwnerID {
			return ErrForbidden
		}
		return nil
	}
}
