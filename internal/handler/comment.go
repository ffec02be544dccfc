package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
	"vidtube/internal/service"
	"vidtube/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
	maxPageSize    int
}

func NewCommentHandler(commentService *service.CommentService, maxPageSize int) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		maxPageSize:    maxPageSize,
	}
}

// List handles GET /comments/{videoId}
// Returns one page of top-level comments with their replies.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")

	page, err := pageFromQuery(r, h.maxPageSize)
	if err != nil {
		writeError(w, r, "List comments", err)
		return
	}
	q := r.URL.Query()
	sort, err := model.ParseCommentSort(q.Get("sortBy"), q.Get("sortType"))
	if err != nil {
		writeError(w, r, "List comments", err)
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), videoID, page, sort)
	if err != nil {
		writeError(w, r, "List comments", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// Create handles POST /comments/{videoId}
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CommentContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "Create comment", err)
		return
	}

	comment, err := h.commentService.PostComment(r.Context(), chi.URLParam(r, "videoId"), userID, req.Content)
	if err != nil {
		writeError(w, r, "Create comment", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// Reply handles POST /comments/{videoId}/replies/{commentId}
func (h *CommentHandler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CommentContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "Reply to comment", err)
		return
	}

	reply, err := h.commentService.PostReply(r.Context(),
		chi.URLParam(r, "videoId"), chi.URLParam(r, "commentId"), userID, req.Content)
	if err != nil {
		writeError(w, r, "Reply to comment", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reply)
}

// Update handles PATCH /comments/c/{commentId}
// Only the owner can edit.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CommentContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "Update comment", err)
		return
	}

	comment, err := h.commentService.EditComment(r.Context(), chi.URLParam(r, "commentId"), userID, req.Content)
	if err != nil {
		writeError(w, r, "Update comment", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /comments/c/{commentId}
// Removes the comment and all of its replies.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID := chi.URLParam(r, "commentId")
	snapshot, err := h.commentService.DeleteComment(r.Context(), commentID, userID)
	if err != nil {
		writeError(w, r, "Delete comment", err)
		return
	}

	log.Debugf("[CommentHandler] Deleted comment=%s removed=%d", commentID, snapshot.DeletedCount)
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}
