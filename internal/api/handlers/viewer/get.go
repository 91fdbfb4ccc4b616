package viewer

import (
	"net/http"

	"AgroFeed/internal/api/handlers"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/users"
)

// FallbackSelf is the localized display name for the viewer's own profile
// when the upstream omits one.
const FallbackSelf = "আপনি"

// Handler resolves the current viewer from the upstream and keeps the
// session window adapted against the authoritative identity.
type Handler struct {
	upstream feed.Upstream
	authors  *users.Adapter
	registry *feed.Registry
}

// NewHandler creates the viewer handler.
func NewHandler(up feed.Upstream, authors *users.Adapter, registry *feed.Registry) *Handler {
	return &Handler{upstream: up, authors: authors, registry: registry}
}

// HandleGet returns the adapted profile of the authenticated user and
// re-adapts the session window against it. Anonymous requests get a null
// viewer rather than an error.
// GET /api/viewer
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rawViewer, err := h.upstream.FetchCurrentViewer(r.Context())
	if err != nil || rawViewer == nil {
		handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"viewer": nil})
		return
	}

	view := h.authors.Adapt(rawViewer, FallbackSelf)

	if viewerID := identity.Resolve(rawViewer); viewerID != identity.None {
		h.registry.Get(middleware.WindowID(r)).SetViewer(viewerID)
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{"viewer": view})
}
