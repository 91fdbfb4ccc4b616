package middleware

import (
	"context"
	"net/http"

	"AgroFeed/internal/core/feed"

	"github.com/gorilla/sessions"
)

// Context keys for request-scoped values
type contextKey string

const windowIDKey contextKey = "window_id"

// sessionName is the cookie holding the browsing session's window id.
const sessionName = "agrofeed_session"

// WindowSession binds each browsing session to a feed window. The window id
// lives in a signed cookie; the window itself lives in the registry.
type WindowSession struct {
	store    *sessions.CookieStore
	registry *feed.Registry
}

// NewWindowSession creates the session middleware. secret signs the cookie
// and must be kept stable across restarts or every client gets a new window.
func NewWindowSession(secret []byte, registry *feed.Registry) *WindowSession {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(feed.DefaultMaxIdle.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &WindowSession{store: store, registry: registry}
}

// Attach ensures the request carries a window id, minting one on first
// contact, and injects it into the request context.
func (s *WindowSession) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get never fails fatally: a bad cookie just yields a new session.
		session, _ := s.store.Get(r, sessionName)

		id, _ := session.Values["windowId"].(string)
		if id == "" {
			id = s.registry.NewWindowID()
			session.Values["windowId"] = id
			_ = session.Save(r, w)
		}

		ctx := context.WithValue(r.Context(), windowIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WindowID returns the window id attached to the request, or "".
func WindowID(r *http.Request) string {
	id, _ := r.Context().Value(windowIDKey).(string)
	return id
}
