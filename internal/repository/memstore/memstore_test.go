package memstore

import (
	"context"
	"testing"
	"time"

	"vidtube/internal/model"
)

func seed(t *testing.T) (*DB, model.User, model.Video) {
	t.Helper()
	db := New()
	u := model.User{ID: model.NewID(), Username: "Alice", FullName: "Alice A"}
	v := model.Video{ID: model.NewID(), OwnerID: u.ID, Title: "intro", Views: 7}
	db.AddUser(u)
	db.AddVideo(v)
	return db, u, v
}

func TestListTopLevel_SortAndPage(t *testing.T) {
	db, u, v := seed(t)
	store := db.Store()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		c := &model.Comment{ID: model.NewID(), VideoID: v.ID, OwnerID: u.ID, Content: "hello", CreatedAt: at, UpdatedAt: at}
		if err := store.Comments.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, c.ID)
	}

	views, total, err := store.Comments.ListTopLevel(ctx, model.CommentListQuery{
		VideoID: v.ID,
		Sort:    model.CommentSort{Field: model.CommentSortCreatedAt, Direction: model.SortDesc},
		Offset:  1,
		Limit:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(views) != 2 || views[0].ID != ids[3] || views[1].ID != ids[2] {
		t.Errorf("unexpected page order: %+v", views)
	}

	views, _, _ = store.Comments.ListTopLevel(ctx, model.CommentListQuery{VideoID: v.ID, Offset: 10, Limit: 2})
	if len(views) != 0 {
		t.Errorf("page past the end should be empty, got %d", len(views))
	}
}

func TestListTopLevel_RepliesOldestFirst(t *testing.T) {
	db, u, v := seed(t)
	store := db.Store()
	ctx := context.Background()

	base := time.Now()
	top := &model.Comment{ID: model.NewID(), VideoID: v.ID, OwnerID: u.ID, Content: "top", CreatedAt: base, UpdatedAt: base}
	store.Comments.Create(ctx, top)
	late := &model.Comment{ID: model.NewID(), VideoID: v.ID, OwnerID: u.ID, ParentCommentID: &top.ID, Content: "late", CreatedAt: base.Add(2 * time.Second)}
	early := &model.Comment{ID: model.NewID(), VideoID: v.ID, OwnerID: u.ID, ParentCommentID: &top.ID, Content: "early", CreatedAt: base.Add(time.Second)}
	store.Comments.Create(ctx, late)
	store.Comments.Create(ctx, early)

	views, total, err := store.Comments.ListTopLevel(ctx, model.CommentListQuery{VideoID: v.ID})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("replies must not count as top-level, total = %d", total)
	}
	got := views[0]
	if got.ReplyCount != 2 || got.Replies[0].Content != "early" || got.Replies[1].Content != "late" {
		t.Errorf("unexpected replies: %+v", got.Replies)
	}
	if got.Owner.Username != "Alice" {
		t.Errorf("owner not resolved: %+v", got.Owner)
	}
}

func TestPlaylistView_DropsMissingVideos(t *testing.T) {
	db, u, v := seed(t)
	store := db.Store()
	ctx := context.Background()

	gone := model.Video{ID: model.NewID(), OwnerID: u.ID, Views: 100}
	db.AddVideo(gone)

	p := &model.Playlist{ID: model.NewID(), OwnerID: u.ID, Name: "mix", Description: "a description", IsPublic: true, CreatedAt: time.Now()}
	store.Playlists.Create(ctx, p)
	store.Playlists.AddVideo(ctx, p.ID, v.ID, time.Now())
	store.Playlists.AddVideo(ctx, p.ID, gone.ID, time.Now())
	db.RemoveVideo(gone.ID)

	view, err := store.Playlists.GetView(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.VideoCount != 1 || view.TotalViews != 7 {
		t.Errorf("videoCount=%d totalViews=%d, want 1/7", view.VideoCount, view.TotalViews)
	}
}

func TestUserRepository_GetByUsernameIgnoresCase(t *testing.T) {
	db, u, _ := seed(t)

	got, err := db.Store().Users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Errorf("got %s, want %s", got.ID, u.ID)
	}
}
