package comment

import (
	"errors"
	"net/http"

	"AgroFeed/internal/api/handlers"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/identity"

	"github.com/go-chi/chi/v5"
)

// DeleteHandler handles comment deletion
type DeleteHandler struct {
	registry *feed.Registry
}

// NewDeleteHandler creates a new comment delete handler
func NewDeleteHandler(registry *feed.Registry) *DeleteHandler {
	return &DeleteHandler{registry: registry}
}

// HandleDelete removes a comment after upstream confirmation. The client's
// author-only delete button is advisory; the upstream decides.
// DELETE /api/posts/{postID}/comments/{commentID}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID := identity.Identity(chi.URLParam(r, "postID"))
	commentID := identity.Identity(chi.URLParam(r, "commentID"))
	if postID == identity.None || commentID == identity.None {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postID and commentID are required")
		return
	}

	window := h.registry.Get(middleware.WindowID(r))
	if err := window.DeleteComment(r.Context(), postID, commentID); err != nil {
		switch {
		case errors.Is(err, feed.ErrPostNotFound):
			handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "post is not in the loaded feed")
		case errors.Is(err, feed.ErrCommentNotFound):
			handlers.WriteError(w, http.StatusNotFound, "CommentNotFound", "comment not found")
		default:
			handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "comment could not be deleted")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
