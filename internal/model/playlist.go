package model

import (
	"strings"
	"time"
)

// Playlist is a stored playlist. Videos keeps insertion order and holds no duplicates.
type Playlist struct {
	ID          string    `db:"id" bson:"_id" json:"id"`
	Name        string    `db:"name" bson:"name" json:"name"`
	Description string    `db:"description" bson:"description" json:"description"`
	OwnerID     string    `db:"owner_id" bson:"owner" json:"owner"`
	Videos      []string  `db:"-" bson:"videos" json:"videos"`
	IsPublic    bool      `db:"is_public" bson:"isPublic" json:"isPublic"`
	CreatedAt   time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" bson:"updatedAt" json:"updatedAt"`
}

// HasVideo reports whether videoID is already part of the playlist.
func (p *Playlist) HasVideo(videoID string) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

// PlaylistView is a playlist with owner and videos resolved and aggregates computed.
type PlaylistView struct {
	ID          string              `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	IsPublic    bool                `bson:"isPublic" json:"isPublic"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
	Owner       Owner               `bson:"owner" json:"owner"`
	Videos      []PlaylistVideoView `bson:"videos" json:"videos"`
	VideoCount  int                 `bson:"videoCount" json:"videoCount"`
	TotalViews  int64               `bson:"totalViews" json:"totalViews"`
}

// Summarize recomputes the aggregates from the resolved videos.
func (v *PlaylistView) Summarize() {
	if v.Videos == nil {
		v.Videos = []PlaylistVideoView{}
	}
	v.VideoCount = len(v.Videos)
	v.TotalViews = 0
	for _, video := range v.Videos {
		v.TotalViews += video.Views
	}
}

// Visibility filters playlist listings.
type Visibility string

const (
	VisibilityAll     Visibility = "all"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility validates a visibility filter, defaulting to all.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VisibilityAll, nil
	case VisibilityAll, VisibilityPublic, VisibilityPrivate:
		return v, nil
	default:
		return "", Validationf("unsupported visibility %q", s)
	}
}

// PlaylistListQuery selects playlists. Empty fields do not filter.
// VisibleTo, when set, keeps public playlists plus the ones owned by that user.
type PlaylistListQuery struct {
	OwnerID       string
	ContainsVideo string
	Visibility    Visibility
	VisibleTo     *string
	Offset        int
	Limit         int // 0 means no limit
}

// CreatePlaylistRequest is the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

// UpdatePlaylistRequest is the request body for patching a playlist.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// Playlist constraints
const (
	MaxPlaylistNameLength        = 100
	MinPlaylistDescriptionLength = 10
	MaxPlaylistDescriptionLength = 500
)

// Playlist errors
var (
	ErrPlaylistNotFound       = newError(ErrNotFound, "playlist not found")
	ErrNoPlaylistsFound       = newError(ErrNotFound, "no playlists found")
	ErrNotPlaylistOwner       = newError(ErrForbidden, "not the owner of this playlist")
	ErrPlaylistPrivate        = newError(ErrForbidden, "this playlist is private")
	ErrVideoAlreadyInPlaylist = newError(ErrConflict, "video already exists in playlist")
	ErrPlaylistNameRequired   = newError(ErrValidation, "playlist name is required")
	ErrPlaylistNameTooLong    = newError(ErrValidation, "playlist name too long")
	ErrDescriptionTooShort    = newError(ErrValidation, "playlist description must be at least 10 characters")
	ErrDescriptionTooLong     = newError(ErrValidation, "playlist description too long")
	ErrNotOwnPlaylistsListing = newError(ErrUnauthorized, "you can only list your own playlists")
	ErrEmptyPlaylistUpdate    = newError(ErrValidation, "nothing to update")
)

// NormalizePlaylistName trims and validates a playlist name.
func NormalizePlaylistName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrPlaylistNameRequired
	}
	if len([]rune(name)) > MaxPlaylistNameLength {
		return "", ErrPlaylistNameTooLong
	}
	return name, nil
}

// NormalizePlaylistDescription trims and validates a playlist description.
func NormalizePlaylistDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	switch n := len([]rune(description)); {
	case n < MinPlaylistDescriptionLength:
		return "", ErrDescriptionTooShort
	case n > MaxPlaylistDescriptionLength:
		return "", ErrDescriptionTooLong
	}
	return description, nil
}
