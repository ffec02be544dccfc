package repository

import (
	"strings"
	"testing"

	"vidtube/internal/model"
)

func TestTopLevelCommentsQuery_Order(t *testing.T) {
	tests := []struct {
		name string
		sort model.CommentSort
		want string
	}{
		{"default newest first", model.CommentSort{Field: model.CommentSortCreatedAt, Direction: model.SortDesc}, "ORDER BY c.created_at DESC, c.id DESC"},
		{"oldest first", model.CommentSort{Field: model.CommentSortCreatedAt, Direction: model.SortAsc}, "ORDER BY c.created_at ASC, c.id ASC"},
		{"recently edited", model.CommentSort{Field: model.CommentSortUpdatedAt, Direction: model.SortDesc}, "ORDER BY c.updated_at DESC, c.id DESC"},
		{"unknown field falls back", model.CommentSort{Field: "content; DROP TABLE comments", Direction: model.SortDesc}, "ORDER BY c.created_at DESC, c.id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topLevelCommentsQuery(tt.sort)
			if !strings.Contains(got, tt.want) {
				t.Errorf("query does not contain %q:\n%s", tt.want, got)
			}
			if !strings.Contains(got, "parent_comment_id IS NULL") {
				t.Error("query must only select top-level comments")
			}
		})
	}
}

func TestPlaylistFilter(t *testing.T) {
	viewer := "viewer-1"

	tests := []struct {
		name      string
		query     model.PlaylistListQuery
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			query:     model.PlaylistListQuery{},
			wantWhere: "TRUE",
		},
		{
			name:      "owner and public",
			query:     model.PlaylistListQuery{OwnerID: "owner-1", Visibility: model.VisibilityPublic},
			wantWhere: "p.owner_id = $1 AND p.is_public = TRUE",
			wantArgs:  []any{"owner-1"},
		},
		{
			name:      "private only",
			query:     model.PlaylistListQuery{OwnerID: "owner-1", Visibility: model.VisibilityPrivate},
			wantWhere: "p.owner_id = $1 AND p.is_public = FALSE",
			wantArgs:  []any{"owner-1"},
		},
		{
			name:      "containing video visible to viewer",
			query:     model.PlaylistListQuery{ContainsVideo: "video-1", VisibleTo: &viewer},
			wantWhere: "EXISTS (SELECT 1 FROM playlist_videos f WHERE f.playlist_id = p.id AND f.video_id = $1) AND (p.is_public = TRUE OR p.owner_id = $2)",
			wantArgs:  []any{"video-1", "viewer-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := playlistFilter(tt.query)
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestPlaylistsQuery_Limit(t *testing.T) {
	paged := playlistsQuery("TRUE", 10, 20)
	if !strings.Contains(paged, "LIMIT 10 OFFSET 20") {
		t.Errorf("expected limit clause, got:\n%s", paged)
	}

	unbounded := playlistsQuery("TRUE", 0, 0)
	if strings.Contains(unbounded, "LIMIT") {
		t.Errorf("limit 0 must not add a LIMIT clause, got:\n%s", unbounded)
	}
	if !strings.Contains(unbounded, "ORDER BY p.created_at DESC") {
		t.Error("playlists must be ordered newest first")
	}
}
