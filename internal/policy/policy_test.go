package policy

import (
	"errors"
	"testing"
)

func TestAuthorizeSong(t *testing.T) {
	song := Resource{Kind: KindSong, OwnerID: 1}

	tests := []struct {
		name    string
		viewer  Viewer
		action  Action
		wantErr error
	}{
		{"anonymous read", Viewer{}, ActionRead, nil},
		{"anonymous create", Viewer{}, ActionCreate, ErrUnauthenticated},
		{"owner update", Viewer{UserID: 1}, ActionUpdate, nil},
		{"non-owner update", Viewer{UserID: 2}, ActionUpdate, ErrForbidden},
		{"non-owner delete", Viewer{UserID: 2}, ActionDelete, ErrForbidden},
		{"owner delete", Viewer{UserID: 1}, ActionDelete, nil},
		{"other user read", Viewer{UserID: 2}, ActionRead, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.viewer, tc.action, song)
			if !errors.Is(err, tc.wantErr) && err != tc.wantErr {
				t.Fatalf("Authorize = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAuthorizeNotebookTreeIsPrivate(t *testing.T) {
	for _, kind := range []Kind{KindNotebook, KindFolder, KindListItem} {
		res := Resource{Kind: kind, OwnerID: 1}

		if err := Authorize(Viewer{UserID: 2}, ActionRead, res); !errors.Is(err, ErrForbidden) {
			t.Fatalf("kind %v: non-owner read = %v, want ErrForbidden", kind, err)
		}
		if err := Authorize(Viewer{UserID: 1}, ActionRead, res); err != nil {
			t.Fatalf("kind %v: owner read = %v", kind, err)
		}
		if err := Authorize(Viewer{UserID: 2}, ActionDelete, res); !errors.Is(err, ErrForbidden) {
			t.Fatalf("kind %v: non-owner delete = %v, want ErrForbidden", kind, err)
		}
	}
}

func TestAuthorizeSocialRecords(t *testing.T) {
	for _, kind := range []Kind{KindFollow, KindReaction, KindComment, KindSavedPost} {
		res := Resource{Kind: kind, OwnerID: 5}

		if err := Authorize(Viewer{}, ActionCreate, res); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("kind %v: anonymous create = %v, want ErrUnauthenticated", kind, err)
		}
		if err := Authorize(Viewer{UserID: 9}, ActionCreate, res); err != nil {
			t.Fatalf("kind %v: authenticated create = %v", kind, err)
		}
		if err := Authorize(Viewer{UserID: 9}, ActionRead, res); err != nil {
			t.Fatalf("kind %v: authenticated read of another's record = %v", kind, err)
		}
		if err := Authorize(Viewer{UserID: 9}, ActionDelete, res); !errors.Is(err, ErrForbidden) {
			t.Fatalf("kind %v: non-owner delete = %v, want ErrForbidden", kind, err)
		}
		if err := Authorize(Viewer{UserID: 5}, ActionDelete, res); err != nil {
			t.Fatalf("kind %v: owner delete = %v", kind, err)
		}
	}
}

func TestAuthorizeTaxonomyIsOpenVocabulary(t *testing.T) {
	res := Resource{Kind: KindTaxonomy}

	if err := Authorize(Viewer{}, ActionRead, res); err != nil {
		t.Fatalf("anonymous read = %v", err)
	}
	if err := Authorize(Viewer{}, ActionCreate, res); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous create = %v, want ErrUnauthenticated", err)
	}
	if err := Authorize(Viewer{UserID: 3}, ActionCreate, res); err != nil {
		t.Fatalf("authenticated create = %v", err)
	}
	if err := Authorize(Viewer{UserID: 3}, ActionUpdate, res); err != nil {
		t.Fatalf("authenticated update = %v", err)
	}
}
