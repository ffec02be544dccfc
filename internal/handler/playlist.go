package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/service"
	"vidtube/internal/transport/http/middleware"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
	maxPageSize     int
}

func NewPlaylistHandler(playlistService *service.PlaylistService, maxPageSize int) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
		maxPageSize:     maxPageSize,
	}
}

// Create handles POST /playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "Create playlist", err)
		return
	}

	playlist, err := h.playlistService.CreatePlaylist(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, "Create playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, playlist)
}

// Get handles GET /playlists/{playlistId}
// Private playlists are only visible to their owner.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlistService.GetPlaylist(r.Context(),
		chi.URLParam(r, "playlistId"), middleware.ViewerID(r.Context()))
	if err != nil {
		writeError(w, r, "Get playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlist)
}

// Update handles PATCH /playlists/{playlistId}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "Update playlist", err)
		return
	}

	playlist, err := h.playlistService.UpdatePlaylist(r.Context(), chi.URLParam(r, "playlistId"), userID, req)
	if err != nil {
		writeError(w, r, "Update playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlist)
}

// Delete handles DELETE /playlists/{playlistId}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.playlistService.DeletePlaylist(r.Context(), chi.URLParam(r, "playlistId"), userID); err != nil {
		writeError(w, r, "Delete playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Playlist deleted successfully"})
}

// AddVideo handles PATCH /playlists/add/{videoId}/{playlistId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	playlist, err := h.playlistService.AddVideo(r.Context(),
		chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"), userID)
	if err != nil {
		writeError(w, r, "Add video to playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlist)
}

// RemoveVideo handles PATCH /playlists/remove/{videoId}/{playlistId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	playlist, err := h.playlistService.RemoveVideo(r.Context(),
		chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"), userID)
	if err != nil {
		writeError(w, r, "Remove video from playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlist)
}

// ListMine handles GET /playlists/user/{userId}
// The path user must be the caller.
func (h *PlaylistHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, err := pageFromQuery(r, h.maxPageSize)
	if err != nil {
		writeError(w, r, "List my playlists", err)
		return
	}
	visibility, err := model.ParseVisibility(r.URL.Query().Get("visibility"))
	if err != nil {
		writeError(w, r, "List my playlists", err)
		return
	}

	playlists, err := h.playlistService.ListMyPlaylists(r.Context(), chi.URLParam(r, "userId"), userID, page, visibility)
	if err != nil {
		writeError(w, r, "List my playlists", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlists)
}

// ListChannel handles GET /playlists/channel/{username}
func (h *PlaylistHandler) ListChannel(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, h.maxPageSize)
	if err != nil {
		writeError(w, r, "List channel playlists", err)
		return
	}

	playlists, err := h.playlistService.ListChannelPlaylists(r.Context(),
		chi.URLParam(r, "username"), middleware.ViewerID(r.Context()), page)
	if err != nil {
		writeError(w, r, "List channel playlists", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlists)
}

// ListByVideo handles GET /playlists/video/{videoId}
func (h *PlaylistHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistService.ListPlaylistsContainingVideo(r.Context(),
		chi.URLParam(r, "videoId"), middleware.ViewerID(r.Context()))
	if err != nil {
		writeError(w, r, "List playlists by video", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlists)
}
