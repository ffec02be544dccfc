package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"vidtube/internal/database"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Postgres not available, skipping test: %v", err)
	}

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	db.MustExecContext(ctx, `TRUNCATE playlist_videos, playlists, comments, videos, users CASCADE`)

	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, username string) model.User {
	u := model.User{ID: model.NewID(), Username: username, FullName: username + " full", Avatar: "https://cdn/" + username}
	db.MustExec(`INSERT INTO users (id, username, full_name, avatar) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.FullName, u.Avatar)
	return u
}

func seedVideo(t *testing.T, db *sqlx.DB, owner string, views int64) model.Video {
	v := model.Video{ID: model.NewID(), OwnerID: owner, Title: "video", Views: views}
	db.MustExec(`INSERT INTO videos (id, owner_id, title, views) VALUES ($1, $2, $3, $4)`,
		v.ID, v.OwnerID, v.Title, v.Views)
	return v
}

// =============================================================================
// Integration Tests
// =============================================================================

func TestPostgresCommentTree(t *testing.T) {
	db := setupTestDB(t)
	store := repository.NewPostgresStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	video := seedVideo(t, db, alice.ID, 0)

	base := time.Now().UTC().Truncate(time.Millisecond)
	top := &model.Comment{ID: model.NewID(), VideoID: video.ID, OwnerID: alice.ID, Content: "first!", CreatedAt: base, UpdatedAt: base}
	if err := store.Comments.Create(ctx, top); err != nil {
		t.Fatalf("Create top: %v", err)
	}
	for i := 0; i < 2; i++ {
		at := base.Add(time.Duration(i+1) * time.Second)
		reply := &model.Comment{ID: model.NewID(), VideoID: video.ID, OwnerID: bob.ID, ParentCommentID: &top.ID, Content: "reply", CreatedAt: at, UpdatedAt: at}
		if err := store.Comments.Create(ctx, reply); err != nil {
			t.Fatalf("Create reply: %v", err)
		}
	}

	views, total, err := store.Comments.ListTopLevel(ctx, model.CommentListQuery{
		VideoID: video.ID,
		Sort:    model.CommentSort{Field: model.CommentSortCreatedAt, Direction: model.SortDesc},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("ListTopLevel: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("got total=%d len=%d, want 1/1", total, len(views))
	}
	if views[0].ReplyCount != 2 || len(views[0].Replies) != 2 {
		t.Errorf("replyCount = %d, replies = %d, want 2", views[0].ReplyCount, len(views[0].Replies))
	}
	if views[0].Owner.Username != "alice" || views[0].Replies[0].Owner.Username != "bob" {
		t.Errorf("owners not resolved: %+v", views[0])
	}
	if !views[0].Replies[0].CreatedAt.Before(views[0].Replies[1].CreatedAt) {
		t.Error("replies must be oldest first")
	}

	children, err := store.Comments.ChildIDs(ctx, []string{top.ID})
	if err != nil {
		t.Fatalf("ChildIDs: %v", err)
	}
	n, err := store.Comments.DeleteByIDs(ctx, append(children, top.ID))
	if err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d, want 3", n)
	}
}

func TestPostgresPlaylistEntries(t *testing.T) {
	db := setupTestDB(t)
	store := repository.NewPostgresStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	v1 := seedVideo(t, db, alice.ID, 10)
	v2 := seedVideo(t, db, alice.ID, 5)

	now := time.Now().UTC()
	p := &model.Playlist{ID: model.NewID(), OwnerID: alice.ID, Name: "mix", Description: "a short mix", IsPublic: true, CreatedAt: now, UpdatedAt: now}
	if err := store.Playlists.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, v := range []model.Video{v1, v2} {
		if err := store.Playlists.AddVideo(ctx, p.ID, v.ID, now); err != nil {
			t.Fatalf("AddVideo: %v", err)
		}
	}
	if err := store.Playlists.AddVideo(ctx, p.ID, v1.ID, now); !errors.Is(err, model.ErrVideoAlreadyInPlaylist) {
		t.Errorf("duplicate AddVideo err = %v, want ErrVideoAlreadyInPlaylist", err)
	}

	view, err := store.Playlists.GetView(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if view.VideoCount != 2 || view.TotalViews != 15 {
		t.Errorf("videoCount=%d totalViews=%d, want 2/15", view.VideoCount, view.TotalViews)
	}
	if view.Videos[0].ID != v1.ID {
		t.Error("videos must keep insertion order")
	}

	removed, err := store.Playlists.RemoveVideo(ctx, p.ID, v1.ID, now)
	if err != nil || !removed {
		t.Fatalf("RemoveVideo = %v, %v", removed, err)
	}
	removed, err = store.Playlists.RemoveVideo(ctx, p.ID, v1.ID, now)
	if err != nil || removed {
		t.Errorf("second RemoveVideo = %v, %v, want false, nil", removed, err)
	}
}
