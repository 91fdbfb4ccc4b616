package post

import (
	"errors"
	"net/http"

	"AgroFeed/internal/api/handlers"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/identity"

	"github.com/go-chi/chi/v5"
)

// LikeHandler handles like toggling on posts
type LikeHandler struct {
	registry *feed.Registry
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(registry *feed.Registry) *LikeHandler {
	return &LikeHandler{registry: registry}
}

// HandleToggleLike flips the viewer's like on a post. The window applies the
// change optimistically and rolls back if the upstream rejects it, so a
// failure response here means local state has already reverted.
// POST /api/posts/{postID}/like
func (h *LikeHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := identity.Identity(chi.URLParam(r, "postID"))
	if postID == identity.None {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	window := h.registry.Get(middleware.WindowID(r))
	if err := window.ToggleLike(r.Context(), postID); err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "post is not in the loaded feed")
			return
		}
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "like could not be saved")
		return
	}

	post, _ := window.Post(postID)
	handlers.WriteJSON(w, http.StatusOK, post)
}
