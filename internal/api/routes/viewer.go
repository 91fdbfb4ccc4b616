package routes

import (
	viewerHandlers "AgroFeed/internal/api/handlers/viewer"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"
	"AgroFeed/internal/core/users"

	"github.com/go-chi/chi/v5"
)

// RegisterViewerRoutes registers the current-viewer endpoint.
func RegisterViewerRoutes(r chi.Router, up feed.Upstream, authors *users.Adapter, registry *feed.Registry, session *middleware.WindowSession, viewer *middleware.Viewer) {
	handler := viewerHandlers.NewHandler(up, authors, registry)

	r.Group(func(r chi.Router) {
		r.Use(session.Attach)
		r.Use(viewer.Attach)

		r.Get("/api/viewer", handler.HandleGet)
	})
}
