package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// PlaylistServiceConfig tunes listing behaviour.
type PlaylistServiceConfig struct {
	// EmptyMineNotFound turns an empty "my playlists" page into ErrNoPlaylistsFound.
	EmptyMineNotFound bool
}

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
	cfg          PlaylistServiceConfig
	now          func() time.Time
}

func NewPlaylistService(store *repository.Store, cfg PlaylistServiceConfig) *PlaylistService {
	return &PlaylistService{
		playlistRepo: store.Playlists,
		videoRepo:    store.Videos,
		userRepo:     store.Users,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// ===== LIFECYCLE =====

func (s *PlaylistService) CreatePlaylist(ctx context.Context, ownerID string, req model.CreatePlaylistRequest) (*model.PlaylistView, error) {
	if err := model.ValidateID(ownerID); err != nil {
		return nil, err
	}
	name, err := model.NormalizePlaylistName(req.Name)
	if err != nil {
		return nil, err
	}
	description, err := model.NormalizePlaylistDescription(req.Description)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	now := s.now()
	playlist := &model.Playlist{
		ID:          model.NewID(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Videos:      []string{},
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}

	log.Infof("[PlaylistService] User %s created playlist %s", ownerID, playlist.ID)
	return s.playlistRepo.GetView(ctx, playlist.ID)
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, playlistID, callerID string, req model.UpdatePlaylistRequest) (*model.PlaylistView, error) {
	if err := validateIDs(playlistID, callerID); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Description == nil && req.IsPublic == nil {
		return nil, model.ErrEmptyPlaylistUpdate
	}

	playlist, err := s.ownedPlaylist(ctx, playlistID, callerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if playlist.Name, err = model.NormalizePlaylistName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if playlist.Description, err = model.NormalizePlaylistDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}
	playlist.UpdatedAt = s.now()

	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return s.playlistRepo.GetView(ctx, playlistID)
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistID, callerID string) error {
	if err := validateIDs(playlistID, callerID); err != nil {
		return err
	}
	if _, err := s.ownedPlaylist(ctx, playlistID, callerID); err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(ctx, playlistID); err != nil {
		return err
	}

	log.Infof("[PlaylistService] User %s deleted playlist %s", callerID, playlistID)
	return nil
}

// ===== VIEWS =====

// ListMyPlaylists lists the caller's own playlists. pathOwnerID must be the caller.
func (s *PlaylistService) ListMyPlaylists(ctx context.Context, pathOwnerID, callerID string, page model.PageRequest, visibility model.Visibility) (*model.Page[model.PlaylistView], error) {
	if err := model.ValidateID(pathOwnerID); err != nil {
		return nil, err
	}
	if err := RequireSelf(pathOwnerID, callerID); err != nil {
		return nil, err
	}

	views, total, err := s.playlistRepo.List(ctx, model.PlaylistListQuery{
		OwnerID:    pathOwnerID,
		Visibility: visibility,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 && s.cfg.EmptyMineNotFound {
		return nil, model.ErrNoPlaylistsFound
	}

	result := model.NewPage(views, total, page)
	return &result, nil
}

// ListChannelPlaylists lists the playlists of a channel, newest first. Private
// playlists are only listed for the channel owner.
func (s *PlaylistService) ListChannelPlaylists(ctx context.Context, username string, viewerID *string, page model.PageRequest) (*model.Page[model.PlaylistView], error) {
	if err := validateViewer(viewerID); err != nil {
		return nil, err
	}
	channel, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	q := model.PlaylistListQuery{
		OwnerID:    channel.ID,
		Visibility: model.VisibilityAll,
		VisibleTo:  viewerID,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	}
	if CanView(false, channel.ID, viewerID) != nil {
		q.Visibility = model.VisibilityPublic
	}

	views, total, err := s.playlistRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	result := model.NewPage(views, total, page)
	return &result, nil
}

// GetPlaylist returns the full detail view of a playlist the viewer may see.
func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistID string, viewerID *string) (*model.PlaylistView, error) {
	if err := model.ValidateID(playlistID); err != nil {
		return nil, err
	}
	if err := validateViewer(viewerID); err != nil {
		return nil, err
	}

	view, err := s.playlistRepo.GetView(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := CanView(view.IsPublic, view.Owner.ID, viewerID); err != nil {
		return nil, err
	}
	return view, nil
}

// ListPlaylistsContainingVideo lists every playlist holding videoID that the
// viewer may see: public ones, plus the viewer's own private ones.
func (s *PlaylistService) ListPlaylistsContainingVideo(ctx context.Context, videoID string, viewerID *string) ([]model.PlaylistView, error) {
	if err := model.ValidateID(videoID); err != nil {
		return nil, err
	}
	if err := validateViewer(viewerID); err != nil {
		return nil, err
	}

	q := model.PlaylistListQuery{
		ContainsVideo: videoID,
		Visibility:    model.VisibilityAll,
		VisibleTo:     viewerID,
	}
	if viewerID == nil {
		q.Visibility = model.VisibilityPublic
	}

	views, _, err := s.playlistRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	visible := make([]model.PlaylistView, 0, len(views))
	for _, v := range views {
		if CanView(v.IsPublic, v.Owner.ID, viewerID) == nil {
			visible = append(visible, v)
		}
	}
	return visible, nil
}

// ===== ENTRIES =====

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, callerID string) (*model.PlaylistView, error) {
	if err := validateIDs(playlistID, videoID, callerID); err != nil {
		return nil, err
	}

	playlist, err := s.ownedPlaylist(ctx, playlistID, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	if playlist.HasVideo(videoID) {
		return nil, model.ErrVideoAlreadyInPlaylist
	}

	if err := s.playlistRepo.AddVideo(ctx, playlistID, videoID, s.now()); err != nil {
		return nil, err
	}

	log.Infof("[PlaylistService] Added video %s to playlist %s", videoID, playlistID)
	return s.playlistRepo.GetView(ctx, playlistID)
}

// RemoveVideo is idempotent: removing an absent video succeeds without changes.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, callerID string) (*model.PlaylistView, error) {
	if err := validateIDs(playlistID, videoID, callerID); err != nil {
		return nil, err
	}

	if _, err := s.ownedPlaylist(ctx, playlistID, callerID); err != nil {
		return nil, err
	}

	removed, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID, s.now())
	if err != nil {
		return nil, err
	}
	if removed {
		log.Infof("[PlaylistService] Removed video %s from playlist %s", videoID, playlistID)
	}
	return s.playlistRepo.GetView(ctx, playlistID)
}

// DetachVideo removes a deleted video from every playlist.
func (s *PlaylistService) DetachVideo(ctx context.Context, videoID string) (int64, error) {
	n, err := s.playlistRepo.RemoveVideoEverywhere(ctx, videoID)
	if err != nil {
		return 0, err
	}
	log.Infof("[PlaylistService] Detached video %s from %d playlists", videoID, n)
	return n, nil
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, playlistID, callerID string) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != callerID {
		return nil, model.ErrNotPlaylistOwner
	}
	return playlist, nil
}
