package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"vidtube/internal/handler"
	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/repository/memstore"
	"vidtube/internal/service"
)

const testSecret = "router-test-secret"

// =============================================================================
// Test Helpers
// =============================================================================

type testAPI struct {
	t      *testing.T
	server *httptest.Server
	db     *memstore.DB

	alice model.User
	bob   model.User
	video model.Video
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := memstore.New()
	api := &testAPI{t: t, db: db}
	api.alice = model.User{ID: model.NewID(), Username: "alice", FullName: "Alice"}
	api.bob = model.User{ID: model.NewID(), Username: "bob", FullName: "Bob"}
	api.video = model.Video{ID: model.NewID(), OwnerID: api.bob.ID, Title: "Intro", Views: 10}
	db.AddUser(api.alice)
	db.AddUser(api.bob)
	db.AddVideo(api.video)

	store := db.Store()
	router := NewRouter(RouterConfig{
		CommentHandler:  handler.NewCommentHandler(service.NewCommentService(store, nil), 50),
		PlaylistHandler: handler.NewPlaylistHandler(service.NewPlaylistService(store, service.PlaylistServiceConfig{EmptyMineNotFound: true}), 50),
		JWTSecret:       testSecret,
		AllowedOrigins:  []string{"*"},
	})
	api.server = httptest.NewServer(router)
	t.Cleanup(api.server.Close)
	return api
}

func (a *testAPI) token(userID string) string {
	a.t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID}).SignedString([]byte(testSecret))
	if err != nil {
		a.t.Fatalf("sign token: %v", err)
	}
	return s
}

// do sends a request as userID ("" for anonymous) and decodes the JSON body into out.
func (a *testAPI) do(method, path, userID string, body any, out any) int {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	if err != nil {
		a.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(userID))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			a.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// =============================================================================
// Comment Routes
// =============================================================================

func TestRouter_CommentFlow(t *testing.T) {
	api := newTestAPI(t)
	base := "/api/v1/comments/" + api.video.ID

	var top model.TopLevelCommentView
	if code := api.do(http.MethodPost, base, api.alice.ID, map[string]string{"content": "First!"}, &top); code != http.StatusCreated {
		t.Fatalf("post comment status = %d", code)
	}

	var reply model.ReplyView
	if code := api.do(http.MethodPost, base+"/replies/"+top.ID, api.bob.ID, map[string]string{"content": "Welcome"}, &reply); code != http.StatusCreated {
		t.Fatalf("post reply status = %d", code)
	}

	var page model.Page[model.TopLevelCommentView]
	if code := api.do(http.MethodGet, base+"?page=1&limit=10&sortBy=createdAt&sortType=desc", "", nil, &page); code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if page.TotalDocs != 1 || len(page.Docs) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if got := page.Docs[0]; got.ReplyCount != 1 || got.Replies[0].ID != reply.ID || got.Owner.Username != "alice" {
		t.Errorf("top-level comment = %+v", got)
	}

	var edited model.CommentView
	if code := api.do(http.MethodPatch, "/api/v1/comments/c/"+top.ID, api.alice.ID, map[string]string{"content": "First, edited"}, &edited); code != http.StatusOK {
		t.Fatalf("edit status = %d", code)
	}
	if edited.Content != "First, edited" {
		t.Errorf("content = %q", edited.Content)
	}

	var snapshot model.CommentSnapshot
	if code := api.do(http.MethodDelete, "/api/v1/comments/c/"+top.ID, api.alice.ID, nil, &snapshot); code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	if snapshot.DeletedCount != 2 {
		t.Errorf("deleted %d comments, want 2", snapshot.DeletedCount)
	}
	if api.db.CommentCount() != 0 {
		t.Errorf("comments left: %d", api.db.CommentCount())
	}
}

func TestRouter_CommentErrors(t *testing.T) {
	api := newTestAPI(t)
	base := "/api/v1/comments/" + api.video.ID

	var top model.TopLevelCommentView
	api.do(http.MethodPost, base, api.alice.ID, map[string]string{"content": "hello there"}, &top)

	tests := []struct {
		name     string
		method   string
		path     string
		user     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"post without token", http.MethodPost, base, "", map[string]string{"content": "hey you"}, http.StatusUnauthorized, httputil.ErrCodeUnauthorized},
		{"short content", http.MethodPost, base, api.alice.ID, map[string]string{"content": "hi"}, http.StatusBadRequest, httputil.ErrCodeBadRequest},
		{"unknown video", http.MethodPost, "/api/v1/comments/" + model.NewID(), api.alice.ID, map[string]string{"content": "hello"}, http.StatusNotFound, httputil.ErrCodeNotFound},
		{"malformed video id", http.MethodGet, "/api/v1/comments/123", "", nil, http.StatusBadRequest, httputil.ErrCodeBadRequest},
		{"bad sort field", http.MethodGet, base + "?sortBy=likes", "", nil, http.StatusBadRequest, httputil.ErrCodeBadRequest},
		{"limit too large", http.MethodGet, base + "?limit=51", "", nil, http.StatusBadRequest, httputil.ErrCodeBadRequest},
		{"page zero", http.MethodGet, base + "?page=0", "", nil, http.StatusBadRequest, httputil.ErrCodeBadRequest},
		{"edit by stranger", http.MethodPatch, "/api/v1/comments/c/" + top.ID, api.bob.ID, map[string]string{"content": "mine now"}, http.StatusForbidden, httputil.ErrCodeForbidden},
		{"delete unknown", http.MethodDelete, "/api/v1/comments/c/" + model.NewID(), api.alice.ID, nil, http.StatusNotFound, httputil.ErrCodeNotFound},
		{"reply to unknown parent", http.MethodPost, base + "/replies/" + model.NewID(), api.bob.ID, map[string]string{"content": "echo"}, http.StatusNotFound, httputil.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body httputil.ErrorResponse
			code := api.do(tt.method, tt.path, tt.user, tt.body, &body)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
			if body.Error.Code != tt.wantErr {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantErr)
			}
		})
	}
}

func TestRouter_VideoOwnerCanDeleteComment(t *testing.T) {
	api := newTestAPI(t)

	var top model.TopLevelCommentView
	api.do(http.MethodPost, "/api/v1/comments/"+api.video.ID, api.alice.ID, map[string]string{"content": "spam spam"}, &top)

	if code := api.do(http.MethodDelete, "/api/v1/comments/c/"+top.ID, api.bob.ID, nil, nil); code != http.StatusOK {
		t.Errorf("video owner delete status = %d", code)
	}
}

// =============================================================================
// Playlist Routes
// =============================================================================

func TestRouter_PrivatePlaylist(t *testing.T) {
	api := newTestAPI(t)

	var p model.PlaylistView
	code := api.do(http.MethodPost, "/api/v1/playlists", api.alice.ID, map[string]any{
		"name":        "Faves",
		"description": "my favorite clips",
		"isPublic":    false,
	}, &p)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}

	var errBody httputil.ErrorResponse
	if code := api.do(http.MethodGet, "/api/v1/playlists/"+p.ID, "", nil, &errBody); code != http.StatusForbidden {
		t.Errorf("anonymous status = %d, want 403", code)
	}

	var view model.PlaylistView
	if code := api.do(http.MethodGet, "/api/v1/playlists/"+p.ID, api.alice.ID, nil, &view); code != http.StatusOK {
		t.Fatalf("owner status = %d", code)
	}
	if view.Videos == nil || len(view.Videos) != 0 || view.VideoCount != 0 {
		t.Errorf("view = %+v", view)
	}
}

func TestRouter_PlaylistEntries(t *testing.T) {
	api := newTestAPI(t)

	var p model.PlaylistView
	api.do(http.MethodPost, "/api/v1/playlists", api.alice.ID, map[string]any{
		"name":        "Mix",
		"description": "assorted videos",
	}, &p)

	addPath := "/api/v1/playlists/add/" + api.video.ID + "/" + p.ID
	var added model.PlaylistView
	if code := api.do(http.MethodPatch, addPath, api.alice.ID, nil, &added); code != http.StatusOK {
		t.Fatalf("add status = %d", code)
	}
	if added.VideoCount != 1 || added.TotalViews != api.video.Views {
		t.Errorf("added = %+v", added)
	}

	var errBody httputil.ErrorResponse
	if code := api.do(http.MethodPatch, addPath, api.alice.ID, nil, &errBody); code != http.StatusConflict {
		t.Errorf("duplicate add status = %d, want 409", code)
	}
	if code := api.do(http.MethodPatch, addPath, api.bob.ID, nil, &errBody); code != http.StatusForbidden {
		t.Errorf("foreign add status = %d, want 403", code)
	}

	var byVideo []model.PlaylistView
	if code := api.do(http.MethodGet, "/api/v1/playlists/video/"+api.video.ID, "", nil, &byVideo); code != http.StatusOK {
		t.Fatalf("by video status = %d", code)
	}
	if len(byVideo) != 1 || byVideo[0].ID != p.ID {
		t.Errorf("by video = %+v", byVideo)
	}

	removePath := "/api/v1/playlists/remove/" + api.video.ID + "/" + p.ID
	for i := 0; i < 2; i++ {
		var removed model.PlaylistView
		if code := api.do(http.MethodPatch, removePath, api.alice.ID, nil, &removed); code != http.StatusOK {
			t.Fatalf("remove #%d status = %d", i+1, code)
		}
		if removed.VideoCount != 0 {
			t.Errorf("remove #%d videoCount = %d", i+1, removed.VideoCount)
		}
	}
}

func TestRouter_PlaylistListings(t *testing.T) {
	api := newTestAPI(t)

	for _, pl := range []map[string]any{
		{"name": "Open", "description": "a public playlist", "isPublic": true},
		{"name": "Closed", "description": "a private playlist", "isPublic": false},
	} {
		if code := api.do(http.MethodPost, "/api/v1/playlists", api.alice.ID, pl, nil); code != http.StatusCreated {
			t.Fatalf("create status = %d", code)
		}
	}

	var channel model.Page[model.PlaylistView]
	if code := api.do(http.MethodGet, "/api/v1/playlists/channel/alice", "", nil, &channel); code != http.StatusOK {
		t.Fatalf("channel status = %d", code)
	}
	if channel.TotalDocs != 1 || channel.Docs[0].Name != "Open" {
		t.Errorf("anonymous channel listing = %+v", channel.Docs)
	}

	var mine model.Page[model.PlaylistView]
	if code := api.do(http.MethodGet, "/api/v1/playlists/user/"+api.alice.ID+"?visibility=private", api.alice.ID, nil, &mine); code != http.StatusOK {
		t.Fatalf("mine status = %d", code)
	}
	if mine.TotalDocs != 1 || mine.Docs[0].Name != "Closed" {
		t.Errorf("private listing = %+v", mine.Docs)
	}

	var errBody httputil.ErrorResponse
	if code := api.do(http.MethodGet, "/api/v1/playlists/user/"+api.alice.ID, api.bob.ID, nil, &errBody); code != http.StatusUnauthorized {
		t.Errorf("foreign listing status = %d, want 401", code)
	}
	if code := api.do(http.MethodGet, "/api/v1/playlists/user/"+api.bob.ID, api.bob.ID, nil, &errBody); code != http.StatusNotFound {
		t.Errorf("empty listing status = %d, want 404", code)
	}
	if code := api.do(http.MethodGet, "/api/v1/playlists/user/"+api.alice.ID+"?visibility=hidden", api.alice.ID, nil, &errBody); code != http.StatusBadRequest {
		t.Errorf("bad visibility status = %d, want 400", code)
	}
	if code := api.do(http.MethodGet, "/api/v1/playlists/channel/nobody", "", nil, &errBody); code != http.StatusNotFound {
		t.Errorf("unknown channel status = %d, want 404", code)
	}
}

func TestRouter_UpdateAndDeletePlaylist(t *testing.T) {
	api := newTestAPI(t)

	var p model.PlaylistView
	api.do(http.MethodPost, "/api/v1/playlists", api.alice.ID, map[string]any{"name": "Old", "description": "needs a new name"}, &p)

	var updated model.PlaylistView
	if code := api.do(http.MethodPatch, "/api/v1/playlists/"+p.ID, api.alice.ID, map[string]any{"name": "New"}, &updated); code != http.StatusOK {
		t.Fatalf("update status = %d", code)
	}
	if updated.Name != "New" {
		t.Errorf("name = %q", updated.Name)
	}

	var errBody httputil.ErrorResponse
	if code := api.do(http.MethodDelete, "/api/v1/playlists/"+p.ID, api.bob.ID, nil, &errBody); code != http.StatusForbidden {
		t.Errorf("foreign delete status = %d, want 403", code)
	}
	if code := api.do(http.MethodDelete, "/api/v1/playlists/"+p.ID, api.alice.ID, nil, nil); code != http.StatusOK {
		t.Errorf("delete status = %d", code)
	}
	if code := api.do(http.MethodGet, "/api/v1/playlists/"+p.ID, api.alice.ID, nil, &errBody); code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", code)
	}
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]string
	if code := api.do(http.MethodGet, "/health", "", nil, &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", code, body)
	}
}
