package feed

import (
	"errors"
	"net/http"
	"strconv"

	"AgroFeed/internal/api/handlers"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/identity"
)

// HandleOpen surfaces a post for the modal view, resolving deep links to
// posts outside the loaded window via a direct single-post fetch. The
// optional media parameter positions the carousel; out-of-range values
// fall back to the first item.
// GET /api/feed/open?postId=...&media=N
//
// On resolution failure the response tells the client to clear its postId
// query parameter and keep the modal closed.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	postID := identity.Identity(r.URL.Query().Get("postId"))
	if postID == identity.None {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}
	mediaIndex, _ := strconv.Atoi(r.URL.Query().Get("media"))

	window := h.window(r)
	if err := window.SurfacePost(r.Context(), postID, mediaIndex); err != nil {
		if errors.Is(err, feed.ErrPostUnavailable) {
			handlers.WriteJSON(w, http.StatusNotFound, map[string]interface{}{
				"error":      "PostUnavailable",
				"clearParam": true,
			})
			return
		}
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", err.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, window.Snapshot())
}

// HandleClose closes the active (modal-open) post.
// DELETE /api/feed/open
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	window := h.window(r)
	window.ClearActive()
	w.WriteHeader(http.StatusNoContent)
}
