package feed

import (
	"net/http"

	"AgroFeed/internal/api/handlers"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/identity"
)

// Handler serves the session's feed window to the rendering client.
type Handler struct {
	registry *feed.Registry
}

// NewHandler creates the feed handler over the window registry.
func NewHandler(registry *feed.Registry) *Handler {
	return &Handler{registry: registry}
}

// window resolves the request's session window and keeps its viewer
// adaptation in sync with the advisory token hint.
func (h *Handler) window(r *http.Request) *feed.Window {
	w := h.registry.Get(middleware.WindowID(r))
	if hint := middleware.ViewerHint(r); hint != identity.None {
		w.SetViewer(hint)
	}
	return w
}

// HandleGet returns the current window snapshot, loading the first page on
// a fresh window so the initial render has content.
// GET /api/feed
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	window := h.window(r)

	snap := window.Snapshot()
	if len(snap.Posts) == 0 && snap.State == feed.StateIdle {
		window.LoadMore(r.Context())
		snap = window.Snapshot()
	}

	handlers.WriteJSON(w, http.StatusOK, snap)
}

// HandleMore is the load-more trigger, the server end of the client's
// viewport-proximity sentinel. Repeated triggers while a fetch is in flight
// are no-ops.
// POST /api/feed/more
func (h *Handler) HandleMore(w http.ResponseWriter, r *http.Request) {
	window := h.window(r)
	window.LoadMore(r.Context())
	handlers.WriteJSON(w, http.StatusOK, window.Snapshot())
}
