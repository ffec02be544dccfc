package memstore

import (
	"context"
	"sort"
	"time"

	"vidtube/internal/model"
)

type playlistRepository struct {
	db *DB
}

func copyPlaylist(p model.Playlist) *model.Playlist {
	p.Videos = append([]string{}, p.Videos...)
	return &p
}

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.playlists[p.ID] = *copyPlaylist(*p)
	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.playlists[id]
	if !ok {
		return nil, model.ErrPlaylistNotFound
	}
	return copyPlaylist(p), nil
}

func (r *playlistRepository) Update(ctx context.Context, p *model.Playlist) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.playlists[p.ID]
	if !ok {
		return model.ErrPlaylistNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.IsPublic = p.IsPublic
	stored.UpdatedAt = p.UpdatedAt
	r.db.playlists[p.ID] = stored
	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.playlists[id]; !ok {
		return model.ErrPlaylistNotFound
	}
	delete(r.db.playlists, id)
	return nil
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.playlists[playlistID]
	if !ok {
		return model.ErrPlaylistNotFound
	}
	if p.HasVideo(videoID) {
		return model.ErrVideoAlreadyInPlaylist
	}
	p.Videos = append(append([]string{}, p.Videos...), videoID)
	p.UpdatedAt = at
	r.db.playlists[playlistID] = p
	return nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string, at time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.playlists[playlistID]
	if !ok {
		return false, model.ErrPlaylistNotFound
	}
	videos, removed := without(p.Videos, videoID)
	if !removed {
		return false, nil
	}
	p.Videos = videos
	p.UpdatedAt = at
	r.db.playlists[playlistID] = p
	return true, nil
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for id, p := range r.db.playlists {
		if videos, removed := without(p.Videos, videoID); removed {
			p.Videos = videos
			r.db.playlists[id] = p
			n++
		}
	}
	return n, nil
}

func without(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

func (r *playlistRepository) List(ctx context.Context, q model.PlaylistListQuery) ([]model.PlaylistView, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var matched []model.Playlist
	for _, p := range r.db.playlists {
		if _, ok := r.db.users[p.OwnerID]; ok && matches(p, q) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	matched = window(matched, q.Offset, q.Limit)

	views := make([]model.PlaylistView, len(matched))
	for i, p := range matched {
		views[i] = r.view(p)
	}
	return views, total, nil
}

func matches(p model.Playlist, q model.PlaylistListQuery) bool {
	if q.OwnerID != "" && p.OwnerID != q.OwnerID {
		return false
	}
	if q.ContainsVideo != "" && !p.HasVideo(q.ContainsVideo) {
		return false
	}
	switch q.Visibility {
	case model.VisibilityPublic:
		if !p.IsPublic {
			return false
		}
	case model.VisibilityPrivate:
		if p.IsPublic {
			return false
		}
	}
	if q.VisibleTo != nil && !p.IsPublic && p.OwnerID != *q.VisibleTo {
		return false
	}
	return true
}

func (r *playlistRepository) GetView(ctx context.Context, id string) (*model.PlaylistView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.playlists[id]
	if !ok {
		return nil, model.ErrPlaylistNotFound
	}
	if _, ok := r.db.users[p.OwnerID]; !ok {
		return nil, model.ErrPlaylistNotFound
	}
	view := r.view(p)
	return &view, nil
}

// view resolves owner and videos of p. Caller holds the lock.
func (r *playlistRepository) view(p model.Playlist) model.PlaylistView {
	view := model.PlaylistView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsPublic:    p.IsPublic,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Owner:       r.db.owner(p.OwnerID),
	}
	for _, id := range p.Videos {
		v, ok := r.db.videos[id]
		if !ok {
			continue
		}
		if _, ok := r.db.users[v.OwnerID]; !ok {
			continue
		}
		view.Videos = append(view.Videos, model.PlaylistVideoView{
			ID:        v.ID,
			Title:     v.Title,
			Thumbnail: v.Thumbnail,
			Views:     v.Views,
			Owner:     r.db.owner(v.OwnerID),
		})
	}
	view.Summarize()
	return view
}
