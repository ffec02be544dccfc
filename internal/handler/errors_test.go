package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"validation", model.ErrContentTooShort, http.StatusBadRequest, httputil.ErrCodeBadRequest, model.ErrContentTooShort.Message},
		{"not found", model.ErrPlaylistNotFound, http.StatusNotFound, httputil.ErrCodeNotFound, "playlist not found"},
		{"forbidden", model.ErrPlaylistPrivate, http.StatusForbidden, httputil.ErrCodeForbidden, "this playlist is private"},
		{"conflict", model.ErrVideoAlreadyInPlaylist, http.StatusConflict, httputil.ErrCodeConflict, "video already exists in playlist"},
		{"unauthorized", model.ErrNotOwnPlaylistsListing, http.StatusUnauthorized, httputil.ErrCodeUnauthorized, "you can only list your own playlists"},
		{"wrapped domain error", fmt.Errorf("lookup: %w", model.ErrVideoNotFound), http.StatusNotFound, httputil.ErrCodeNotFound, "video not found"},
		{"infrastructure failure", errors.New("pq: connection refused"), http.StatusInternalServerError, httputil.ErrCodeInternal, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), "Test", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body httputil.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Message != tt.wantMessage {
				t.Errorf("body = %+v", body.Error)
			}
		})
	}
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
		wantErr   error
	}{
		{"", model.DefaultPage, model.DefaultPageSize, nil},
		{"?page=3&limit=20", 3, 20, nil},
		{"?page=0", 0, 0, model.ErrInvalidPage},
		{"?page=-2", 0, 0, model.ErrInvalidPage},
		{"?page=abc", 0, 0, model.ErrInvalidPage},
		{"?limit=0", 0, 0, model.ErrInvalidPageSize},
		{"?limit=26", 0, 0, model.ErrInvalidPageSize},
		{"?limit=ten", 0, 0, model.ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/comments"+tt.query, nil)
			page, err := pageFromQuery(r, 25)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && (page.Page != tt.wantPage || page.Limit != tt.wantLimit) {
				t.Errorf("page = %+v", page)
			}
		})
	}
}
