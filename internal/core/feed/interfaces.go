package feed

import "context"

// Upstream is the external REST API the gateway consumes. The backend has no
// server-side offset pagination: FetchPostCollection returns the full ordered
// list and the coordinator slices it client-side.
type Upstream interface {
	// FetchPostCollection returns the full ordered list of raw posts.
	FetchPostCollection(ctx context.Context) ([]map[string]interface{}, error)

	// FetchSinglePost returns one raw post by id (deep-link path).
	FetchSinglePost(ctx context.Context, postID string) (map[string]interface{}, error)

	// FetchCurrentViewer returns the authenticated user's raw profile,
	// or nil when the request carries no usable credentials.
	FetchCurrentViewer(ctx context.Context) (map[string]interface{}, error)

	// SetLike asks the backend to move the viewer's like state on a post
	// to the desired value.
	SetLike(ctx context.Context, postID string, desired bool) error

	// SubmitComment posts a comment and returns the server-authoritative
	// raw comment (id and timestamp assigned by the backend).
	SubmitComment(ctx context.Context, postID, text string) (map[string]interface{}, error)

	// DeleteComment removes a comment from a post.
	DeleteComment(ctx context.Context, postID, commentID string) error

	// DeletePost removes a post.
	DeletePost(ctx context.Context, postID string) error
}

// SnapshotStore persists the last successfully fetched raw collection so the
// feed can serve stale data when the upstream is unreachable.
type SnapshotStore interface {
	// Save replaces the stored snapshot with the given raw collection.
	Save(ctx context.Context, rawPosts []map[string]interface{}) error

	// Load returns the most recent snapshot.
	// Returns ErrNoSnapshot when none has been stored yet.
	Load(ctx context.Context) ([]map[string]interface{}, error)
}
