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

// DeleteHandler handles post deletion
type DeleteHandler struct {
	registry *feed.Registry
}

// NewDeleteHandler creates a new post delete handler
func NewDeleteHandler(registry *feed.Registry) *DeleteHandler {
	return &DeleteHandler{registry: registry}
}

// HandleDelete removes a post after upstream confirmation. Ownership is
// enforced by the upstream; the gateway just relays the outcome.
// DELETE /api/posts/{postID}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID := identity.Identity(chi.URLParam(r, "postID"))
	if postID == identity.None {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	window := h.registry.Get(middleware.WindowID(r))
	if err := window.DeletePost(r.Context(), postID); err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "post is not in the loaded feed")
			return
		}
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "post could not be deleted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
