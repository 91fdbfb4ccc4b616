package middleware

import (
	"context"
	"net/http"
	"strings"

	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/upstream"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const viewerHintKey contextKey = "viewer_hint"

// Viewer forwards the client's bearer token to the upstream API and extracts
// a viewer identity hint from it, so cached posts can be adapted against the
// right viewer without a round trip. The upstream remains the authority on
// who the viewer actually is; the hint only drives local re-adaptation.
type Viewer struct {
	secret []byte // HS256 shared secret; empty disables signature checks
}

// NewViewer creates the viewer middleware. When secret is non-empty the
// token signature is verified; otherwise claims are parsed untrusted, which
// matches the hint's advisory role.
func NewViewer(secret []byte) *Viewer {
	return &Viewer{secret: secret}
}

// Attach extracts the bearer token, stashes it for upstream forwarding and
// records the viewer hint. Requests without a token pass through untouched.
func (v *Viewer) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := upstream.WithToken(r.Context(), token)
		if hint := v.hintFromToken(token); hint != identity.None {
			ctx = context.WithValue(ctx, viewerHintKey, string(hint))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// hintFromToken pulls an identity out of the JWT: the subject claim first,
// then the userId/id claims some backend versions use instead.
func (v *Viewer) hintFromToken(token string) identity.Identity {
	opts := []jwt.ParseOption{jwt.WithValidate(false), jwt.WithVerify(false)}
	if len(v.secret) > 0 {
		opts = []jwt.ParseOption{jwt.WithKey(jwa.HS256, v.secret), jwt.WithValidate(true)}
	}

	parsed, err := jwt.ParseString(token, opts...)
	if err != nil {
		return identity.None
	}

	if sub := parsed.Subject(); sub != "" {
		return identity.Identity(sub)
	}
	for _, claim := range []string{"userId", "id", "_id"} {
		if raw, ok := parsed.Get(claim); ok {
			if id := identity.Resolve(raw); id != identity.None {
				return id
			}
		}
	}
	return identity.None
}

// ViewerHint returns the advisory viewer identity for the request, or None.
func ViewerHint(r *http.Request) identity.Identity {
	hint, _ := r.Context().Value(viewerHintKey).(string)
	return identity.Identity(hint)
}
