package repository

import (
	"context"
	"time"

	"vidtube/internal/model"
)

// UserRepository reads the user projection used for owner joins.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// VideoRepository reads videos owned by the video service.
type VideoRepository interface {
	GetByID(ctx context.Context, id string) (*model.Video, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) (*model.Comment, error)
	// ChildIDs returns the ids of every comment whose parent is one of parentIDs.
	ChildIDs(ctx context.Context, parentIDs []string) ([]string, error)
	// DeleteByIDs removes all given comments in a single store operation.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteByVideo(ctx context.Context, videoID string) (int64, error)
	// ListTopLevel returns one page of top-level comments with owners and replies
	// resolved, plus the total number of top-level comments of the video.
	ListTopLevel(ctx context.Context, q model.CommentListQuery) ([]model.TopLevelCommentView, int64, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	// Update persists name, description, visibility and updatedAt.
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id string) error
	// AddVideo appends videoID. Returns model.ErrVideoAlreadyInPlaylist on duplicates.
	AddVideo(ctx context.Context, playlistID, videoID string, at time.Time) error
	// RemoveVideo reports whether the video was part of the playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID string, at time.Time) (bool, error)
	RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error)
	// List returns playlist views sorted by creation time, newest first.
	List(ctx context.Context, q model.PlaylistListQuery) ([]model.PlaylistView, int64, error)
	GetView(ctx context.Context, id string) (*model.PlaylistView, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Users     UserRepository
	Videos    VideoRepository
	Comments  CommentRepository
	Playlists PlaylistRepository
	Tx        Transactor

	// Close releases the backend's connections.
	Close func() error
}
