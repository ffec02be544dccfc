package worker

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vidtube/internal/queue"
)

// CommentCleaner removes comments left behind by deletions elsewhere.
type CommentCleaner interface {
	SweepReplies(ctx context.Context, commentID string) (int64, error)
	PurgeVideoComments(ctx context.Context, videoID string) (int64, error)
}

// PlaylistDetacher drops a removed video from every playlist.
type PlaylistDetacher interface {
	DetachVideo(ctx context.Context, videoID string) (int64, error)
}

// Handler processes activity events from the queue.
type Handler struct {
	comments  CommentCleaner
	playlists PlaylistDetacher
}

// NewHandler creates a new event handler.
func NewHandler(comments CommentCleaner, playlists PlaylistDetacher) *Handler {
	return &Handler{
		comments:  comments,
		playlists: playlists,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventCommentCreated:
		// consumed by downstream services only
	case queue.EventCommentDeleted:
		err = h.handleCommentDeleted(ctx, event)
	case queue.EventVideoDeleted:
		err = h.handleVideoDeleted(ctx, event)
	default:
		log.Warnf("[Handler] Unknown event type: %s", event.Type)
		return nil
	}

	log.WithFields(log.Fields{
		"type":     event.Type,
		"duration": time.Since(startTime).String(),
	}).Debug("[Handler] Event processed")
	return err
}

func (h *Handler) handleCommentDeleted(ctx context.Context, event queue.ActivityEvent) error {
	if event.CommentID == "" {
		return fmt.Errorf("comment_deleted event without comment_id")
	}

	swept, err := h.comments.SweepReplies(ctx, event.CommentID)
	if err != nil {
		return fmt.Errorf("sweep replies of %s: %w", event.CommentID, err)
	}
	if swept > 0 {
		log.Infof("[Handler] comment_deleted: swept %d replies of comment=%s", swept, event.CommentID)
	}
	return nil
}

func (h *Handler) handleVideoDeleted(ctx context.Context, event queue.ActivityEvent) error {
	if event.VideoID == "" {
		return fmt.Errorf("video_deleted event without video_id")
	}

	purged, err := h.comments.PurgeVideoComments(ctx, event.VideoID)
	if err != nil {
		return fmt.Errorf("purge comments of video %s: %w", event.VideoID, err)
	}
	detached, err := h.playlists.DetachVideo(ctx, event.VideoID)
	if err != nil {
		return fmt.Errorf("detach video %s: %w", event.VideoID, err)
	}

	log.Infof("[Handler] video_deleted: video=%s comments=%d playlists=%d", event.VideoID, purged, detached)
	return nil
}
