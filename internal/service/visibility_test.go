package service

import (
	"errors"
	"testing"

	"vidtube/internal/model"
)

func TestCanView(t *testing.T) {
	owner := "owner"
	stranger := "stranger"

	tests := []struct {
		name     string
		isPublic bool
		viewer   *string
		wantErr  error
	}{
		{"public anonymous", true, nil, nil},
		{"public stranger", true, &stranger, nil},
		{"private owner", false, &owner, nil},
		{"private anonymous", false, nil, model.ErrPlaylistPrivate},
		{"private stranger", false, &stranger, model.ErrPlaylistPrivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanView(tt.isPublic, owner, tt.viewer)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanView() = %v, want %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, model.ErrForbidden) {
				t.Errorf("gate failures must be forbidden, got %v", err)
			}
		})
	}
}

func TestRequireSelf(t *testing.T) {
	if err := RequireSelf("u1", "u1"); err != nil {
		t.Errorf("same user: %v", err)
	}
	for _, caller := range []string{"u2", ""} {
		if err := RequireSelf("u1", caller); !errors.Is(err, model.ErrUnauthorized) {
			t.Errorf("caller %q: error = %v, want unauthorized", caller, err)
		}
	}
}
