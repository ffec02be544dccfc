package model

import (
	"strings"
	"time"
)

// Comment is a stored comment. ParentCommentID is nil for top-level comments.
type Comment struct {
	ID              string    `db:"id" bson:"_id" json:"id"`
	VideoID         string    `db:"video_id" bson:"video" json:"video"`
	OwnerID         string    `db:"owner_id" bson:"owner" json:"owner"`
	ParentCommentID *string   `db:"parent_comment_id" bson:"parentComment" json:"parentComment"`
	Content         string    `db:"content" bson:"content" json:"content"`
	CreatedAt       time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" bson:"updatedAt" json:"updatedAt"`
}

// IsTopLevel reports whether the comment is attached directly to a video.
func (c *Comment) IsTopLevel() bool {
	return c.ParentCommentID == nil
}

// ReplyView is a reply joined with its owner profile.
type ReplyView struct {
	ID              string    `bson:"_id" json:"id"`
	ParentCommentID string    `bson:"parentComment" json:"parentComment"`
	Content         string    `bson:"content" json:"content"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
	Owner           Owner     `bson:"owner" json:"owner"`
}

// TopLevelCommentView is one entry of the comment tree for a video.
type TopLevelCommentView struct {
	ID         string      `bson:"_id" json:"id"`
	Content    string      `bson:"content" json:"content"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time   `bson:"updatedAt" json:"updatedAt"`
	ReplyCount int         `bson:"replyCount" json:"replyCount"`
	Owner      Owner       `bson:"owner" json:"owner"`
	Replies    []ReplyView `bson:"replies" json:"replies"`
}

// CommentView is a single comment joined with its owner profile.
type CommentView struct {
	ID              string    `json:"id"`
	VideoID         string    `json:"video"`
	ParentCommentID *string   `json:"parentComment"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Owner           Owner     `json:"owner"`
}

// CommentSnapshot describes a completed cascade delete.
type CommentSnapshot struct {
	Comment      Comment  `json:"comment"`
	DeletedIDs   []string `json:"deletedIds"`
	DeletedCount int64    `json:"deletedCount"`
}

// CommentContentRequest is the request body for posting, replying and editing.
type CommentContentRequest struct {
	Content string `json:"content"`
}

// Comment sort fields and directions
const (
	CommentSortCreatedAt = "createdAt"
	CommentSortUpdatedAt = "updatedAt"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// CommentSort selects the ordering of top-level comments.
type CommentSort struct {
	Field     string
	Direction string
}

// ParseCommentSort applies defaults and validates a caller supplied sort.
func ParseCommentSort(field, direction string) (CommentSort, error) {
	s := CommentSort{Field: CommentSortCreatedAt, Direction: SortDesc}

	switch strings.TrimSpace(field) {
	case "":
	case CommentSortCreatedAt, CommentSortUpdatedAt:
		s.Field = strings.TrimSpace(field)
	default:
		return CommentSort{}, Validationf("unsupported sort field %q", field)
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", SortDesc, "-1", "descending":
	case SortAsc, "1", "ascending":
		s.Direction = SortAsc
	default:
		return CommentSort{}, Validationf("unsupported sort direction %q", direction)
	}

	return s, nil
}

// Ascending reports whether the sort direction is ascending.
func (s CommentSort) Ascending() bool {
	return s.Direction == SortAsc
}

// CommentListQuery selects one page of top-level comments of a video.
type CommentListQuery struct {
	VideoID string
	Sort    CommentSort
	Offset  int
	Limit   int
}

// Comment constraints
const (
	MinCommentLength = 3
	MaxCommentLength = 1000
)

// Comment errors
var (
	ErrCommentNotFound       = newError(ErrNotFound, "comment not found")
	ErrParentCommentNotFound = newError(ErrNotFound, "parent comment not found")
	ErrNotCommentOwner       = newError(ErrForbidden, "not the owner of this comment")
	ErrContentRequired       = newError(ErrValidation, "comment content is required")
	ErrContentTooShort       = newError(ErrValidation, "comment content must be at least 3 characters")
	ErrContentTooLong        = newError(ErrValidation, "comment content too long")
	ErrParentVideoMismatch   = newError(ErrValidation, "parent comment does not belong to this video")
	ErrReplyDepthExceeded    = newError(ErrValidation, "replies can only be posted on top-level comments")
)

// NormalizeCommentContent trims content and enforces the length limits.
func NormalizeCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	switch n := len([]rune(content)); {
	case n == 0:
		return "", ErrContentRequired
	case n < MinCommentLength:
		return "", ErrContentTooShort
	case n > MaxCommentLength:
		return "", ErrContentTooLong
	}
	return content, nil
}
