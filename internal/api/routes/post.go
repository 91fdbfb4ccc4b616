package routes

import (
	commentHandlers "AgroFeed/internal/api/handlers/comment"
	postHandlers "AgroFeed/internal/api/handlers/post"
	"AgroFeed/internal/api/middleware"
	"AgroFeed/internal/core/feed"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the mutation endpoints: like toggle, comment
// add/delete and post delete. All of them operate on the session's window.
func RegisterPostRoutes(r chi.Router, registry *feed.Registry, session *middleware.WindowSession, viewer *middleware.Viewer) {
	likeHandler := postHandlers.NewLikeHandler(registry)
	deleteHandler := postHandlers.NewDeleteHandler(registry)
	commentCreate := commentHandlers.NewCreateHandler(registry)
	commentDelete := commentHandlers.NewDeleteHandler(registry)

	r.Group(func(r chi.Router) {
		r.Use(session.Attach)
		r.Use(viewer.Attach)

		r.Post("/api/posts/{postID}/like", likeHandler.HandleToggleLike)
		r.Delete("/api/posts/{postID}", deleteHandler.HandleDelete)
		r.Post("/api/posts/{postID}/comments", commentCreate.HandleCreate)
		r.Delete("/api/posts/{postID}/comments/{commentID}", commentDelete.HandleDelete)
	})
}
