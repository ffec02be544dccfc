package service

import "vidtube/internal/model"

// CanView is the visibility gate for playlists: public entities are visible to
// everyone, private ones only to their owner.
func CanView(isPublic bool, ownerID string, viewerID *string) error {
	if isPublic {
		return nil
	}
	if viewerID != nil && *viewerID == ownerID {
		return nil
	}
	return model.ErrPlaylistPrivate
}

// RequireSelf rejects a caller asking for another user's own-playlist listing.
func RequireSelf(pathOwnerID, callerID string) error {
	if callerID == "" || pathOwnerID != callerID {
		return model.ErrNotOwnPlaylistsListing
	}
	return nil
}
