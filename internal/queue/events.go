package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventCommentCreated = "comment_created"
	EventCommentDeleted = "comment_deleted"
	// EventVideoDeleted is published by the video service.
	EventVideoDeleted = "video_deleted"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for activity workers
const (
	ConsumerGroupActivity = "activity_workers"
)

// ActivityEvent represents an event published to the activity stream.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	VideoID string `json:"video_id,omitempty"`

	// Comment events
	CommentID       string  `json:"comment_id,omitempty"`
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
	ActorID         string  `json:"actor_id,omitempty"`
}

// NewCommentCreatedEvent is published after a comment or reply is stored.
func NewCommentCreatedEvent(commentID, videoID, actorID string, parentID *string) ActivityEvent {
	return ActivityEvent{
		Type:            EventCommentCreated,
		Timestamp:       time.Now().Unix(),
		VideoID:         videoID,
		CommentID:       commentID,
		ParentCommentID: parentID,
		ActorID:         actorID,
	}
}

// NewCommentDeletedEvent is published after a cascade delete.
// Worker sweeps any reply that survived the cascade.
func NewCommentDeletedEvent(commentID, videoID, actorID string) ActivityEvent {
	return ActivityEvent{
		Type:      EventCommentDeleted,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
		CommentID: commentID,
		ActorID:   actorID,
	}
}

// NewVideoDeletedEvent describes a video removed by the video service.
// Worker purges its comments and detaches it from every playlist.
func NewVideoDeletedEvent(videoID string) ActivityEvent {
	return ActivityEvent{
		Type:      EventVideoDeleted,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
