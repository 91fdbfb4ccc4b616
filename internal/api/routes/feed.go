package routes

import (
	feedHandlers "AgroFeed/internal/api/handlers/feed"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"

	"github.com/go-chi/chi/v5"
)

// RegisterFeedRoutes registers the feed window endpoints: snapshot polling,
// the load-more trigger and the deep-link/modal open path.
func RegisterFeedRoutes(r chi.Router, registry *feed.Registry, session *middleware.WindowSession, viewer *middleware.Viewer) {
	handler := feedHandlers.NewHandler(registry)

	r.Group(func(r chi.Router) {
		r.Use(session.Attach)
		r.Use(viewer.Attach)

		r.Get("/api/feed", handler.HandleGet)
		r.Post("/api/feed/more", handler.HandleMore)
		r.Get("/api/feed/open", handler.HandleOpen)
		r.Delete("/api/feed/open", handler.HandleClose)
	})
}
