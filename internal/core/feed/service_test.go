package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/media"
	"AgroFeed/internal/core/posts"
	"AgroFeed/internal/core/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockUpstream implements Upstream for testing
type mockUpstream struct {
	fetchCollectionFunc func(ctx context.Context) ([]map[string]interface{}, error)
	fetchSingleFunc     func(ctx context.Context, postID string) (map[string]interface{}, error)
	fetchViewerFunc     func(ctx context.Context) (map[string]interface{}, error)
	setLikeFunc         func(ctx context.Context, postID string, desired bool) error
	submitCommentFunc   func(ctx context.Context, postID, text string) (map[string]interface{}, error)
	deleteCommentFunc   func(ctx context.Context, postID, commentID string) error
	deletePostFunc      func(ctx context.Context, postID string) error
}

func (m *mockUpstream) FetchPostCollection(ctx context.Context) ([]map[string]interface{}, error) {
	if m.fetchCollectionFunc != nil {
		return m.fetchCollectionFunc(ctx)
	}
	return nil, nil
}

func (m *mockUpstream) FetchSinglePost(ctx context.Context, postID string) (map[string]interface{}, error) {
	if m.fetchSingleFunc != nil {
		return m.fetchSingleFunc(ctx, postID)
	}
	return nil, errors.New("not found")
}

func (m *mockUpstream) FetchCurrentViewer(ctx context.Context) (map[string]interface{}, error) {
	if m.fetchViewerFunc != nil {
		return m.fetchViewerFunc(ctx)
	}
	return nil, nil
}

func (m *mockUpstream) SetLike(ctx context.Context, postID string, desired bool) error {
	if m.setLikeFunc != nil {
		return m.setLikeFunc(ctx, postID, desired)
	}
	return nil
}

func (m *mockUpstream) SubmitComment(ctx context.Context, postID, text string) (map[string]interface{}, error) {
	if m.submitCommentFunc != nil {
		return m.submitCommentFunc(ctx, postID, text)
	}
	return map[string]interface{}{"_id": "c-new", "text": text}, nil
}

func (m *mockUpstream) DeleteComment(ctx context.Context, postID, commentID string) error {
	if m.deleteCommentFunc != nil {
		return m.deleteCommentFunc(ctx, postID, commentID)
	}
	return nil
}

func (m *mockUpstream) DeletePost(ctx context.Context, postID string) error {
	if m.deletePostFunc != nil {
		return m.deletePostFunc(ctx, postID)
	}
	return nil
}

// mockSnapshotStore implements SnapshotStore for testing
type mockSnapshotStore struct {
	mu    sync.Mutex
	saved []map[string]interface{}
}

func (m *mockSnapshotStore) Save(_ context.Context, rawPosts []map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = rawPosts
	return nil
}

func (m *mockSnapshotStore) Load(_ context.Context) ([]map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return nil, ErrNoSnapshot
	}
	return m.saved, nil
}

func newTestAdapter() *posts.Adapter {
	m := media.NewResolver("https://api.agrofeed.example", 0)
	return posts.NewAdapter(m, users.NewAdapter(m))
}

func newTestWindow(upstream Upstream, store SnapshotStore) *Window {
	return NewWindow(DefaultConfig(), newTestAdapter(), upstream, store, nil)
}

func rawPost(id string) map[string]interface{} {
	return map[string]interface{}{"_id": id, "text": "post " + id}
}

func rawCollection(n int) []map[string]interface{} {
	collection := make([]map[string]interface{}, n)
	for i := range collection {
		collection[i] = rawPost(fmt.Sprintf("p%03d", i))
	}
	return collection
}

func TestLoadMore_Windowing(t *testing.T) {
	collection := rawCollection(45)
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return collection, nil
		},
	}
	w := newTestWindow(upstream, nil)
	ctx := context.Background()

	t.Run("page 1 takes the initial slice", func(t *testing.T) {
		w.LoadMore(ctx)
		snap := w.Snapshot()
		assert.Len(t, snap.Posts, 30)
		assert.Equal(t, 2, snap.Page)
		assert.Equal(t, StateIdle, snap.State)
	})

	t.Run("page 2 appends the next chunk", func(t *testing.T) {
		w.LoadMore(ctx)
		snap := w.Snapshot()
		assert.Len(t, snap.Posts, 40)
		assert.Equal(t, 3, snap.Page)
		assert.False(t, snap.Exhausted)
	})

	t.Run("short final slice merges then exhausts", func(t *testing.T) {
		w.LoadMore(ctx)
		snap := w.Snapshot()
		assert.Len(t, snap.Posts, 45)
		assert.True(t, snap.Exhausted)
		assert.Equal(t, StateExhausted, snap.State)
	})

	t.Run("exhausted is terminal", func(t *testing.T) {
		w.LoadMore(ctx)
		snap := w.Snapshot()
		assert.Len(t, snap.Posts, 45)
		assert.True(t, snap.Exhausted)
	})
}

func TestLoadMore_EmptySlice(t *testing.T) {
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return rawCollection(0), nil
		},
	}
	w := newTestWindow(upstream, nil)

	w.LoadMore(context.Background())

	snap := w.Snapshot()
	assert.Empty(t, snap.Posts)
	assert.True(t, snap.Exhausted)
	assert.Equal(t, 1, snap.Page, "page does not advance on an empty slice")
}

func TestLoadMore_MergeFirstSeenWins(t *testing.T) {
	collection := rawCollection(30)
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return collection, nil
		},
	}
	w := newTestWindow(upstream, nil)
	ctx := context.Background()

	w.LoadMore(ctx)

	// Apply an optimistic like, then force a re-fetch of the same page by
	// resetting exhaustion through a fresh window share of the collection.
	require.NoError(t, w.ToggleLike(ctx, "p000"))
	liked, ok := w.Post("p000")
	require.True(t, ok)
	require.True(t, liked.LikedByViewer)

	// The upstream re-returns p000 in its stale, unliked form.
	w.mu.Lock()
	w.exhausted = false
	w.page = 1
	w.mu.Unlock()
	w.LoadMore(ctx)

	after, ok := w.Post("p000")
	require.True(t, ok)
	assert.True(t, after.LikedByViewer, "page merge must not overwrite an existing entry")
	assert.Len(t, w.Snapshot().Posts, 30, "no duplicates after re-merge")
}

func TestLoadMore_SingleInFlightFetch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			calls.Add(1)
			close(entered)
			<-release
			return rawCollection(5), nil
		},
	}
	w := newTestWindow(upstream, nil)

	done := make(chan struct{})
	go func() {
		w.LoadMore(context.Background())
		close(done)
	}()

	<-entered
	assert.Equal(t, StateLoading, w.State())

	// Trigger signals arriving while loading are no-ops.
	w.LoadMore(context.Background())
	w.LoadMore(context.Background())

	close(release)
	<-done

	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadMore_FetchFailure(t *testing.T) {
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return nil, errors.New("connection refused")
		},
	}

	t.Run("without snapshot store records a notice and returns to idle", func(t *testing.T) {
		w := newTestWindow(upstream, nil)
		w.LoadMore(context.Background())

		snap := w.Snapshot()
		assert.Empty(t, snap.Posts)
		assert.False(t, snap.Exhausted, "failure is not exhaustion")
		assert.Equal(t, StateIdle, snap.State)
		require.Len(t, snap.Notices, 1)
		assert.Equal(t, NoticeError, snap.Notices[0].Level)
	})

	t.Run("with a stored snapshot serves stale data", func(t *testing.T) {
		store := &mockSnapshotStore{saved: rawCollection(8)}
		w := newTestWindow(upstream, store)
		w.LoadMore(context.Background())

		snap := w.Snapshot()
		assert.Len(t, snap.Posts, 8)
		assert.True(t, snap.Exhausted)
		require.NotEmpty(t, snap.Notices)
	})
}

func TestLoadMore_SavesSnapshot(t *testing.T) {
	store := &mockSnapshotStore{}
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return rawCollection(3), nil
		},
	}
	w := newTestWindow(upstream, store)

	w.LoadMore(context.Background())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.saved, 3)
}

func TestSurfacePost(t *testing.T) {
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return rawCollection(5), nil
		},
		fetchSingleFunc: func(_ context.Context, postID string) (map[string]interface{}, error) {
			if postID == "deep1" {
				return rawPost("deep1"), nil
			}
			return nil, errors.New("404")
		},
	}
	w := newTestWindow(upstream, nil)
	ctx := context.Background()
	w.LoadMore(ctx)

	t.Run("post already in window is activated in place", func(t *testing.T) {
		require.NoError(t, w.SurfacePost(ctx, "p002", 0))
		snap := w.Snapshot()
		assert.Equal(t, identity.Identity("p002"), snap.ActiveID)
		assert.Len(t, snap.Posts, 5)
	})

	t.Run("unknown post is fetched and prepended", func(t *testing.T) {
		require.NoError(t, w.SurfacePost(ctx, "deep1", 0))
		snap := w.Snapshot()
		require.Len(t, snap.Posts, 6)
		assert.Equal(t, identity.Identity("deep1"), snap.Posts[0].ID)
		assert.Equal(t, identity.Identity("deep1"), snap.ActiveID)
		assert.Equal(t, 1, snap.Page, "pagination state is untouched")
		assert.True(t, snap.Exhausted)
	})

	t.Run("unresolvable post reports ErrPostUnavailable", func(t *testing.T) {
		err := w.SurfacePost(ctx, "missing", 0)
		assert.ErrorIs(t, err, ErrPostUnavailable)
	})
}

func TestSetViewer_Readapts(t *testing.T) {
	collection := []map[string]interface{}{
		{"_id": "p1", "likes": []interface{}{"u2", "u3"}},
	}
	upstream := &mockUpstream{
		fetchCollectionFunc: func(context.Context) ([]map[string]interface{}, error) {
			return collection, nil
		},
	}
	w := newTestWindow(upstream, nil)
	w.LoadMore(context.Background())

	before, _ := w.Post("p1")
	assert.False(t, before.LikedByViewer)

	w.SetViewer("u2")

	after, _ := w.Post("p1")
	assert.True(t, after.LikedByViewer)
	assert.Equal(t, 2, after.LikeCount)
}

func TestRegistry(t *testing.T) {
	upstream := &mockUpstream{}
	registry := NewRegistry(DefaultConfig(), newTestAdapter(), upstream, nil, nil)

	t.Run("same id returns the same window", func(t *testing.T) {
		id := registry.NewWindowID()
		assert.Same(t, registry.Get(id), registry.Get(id))
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("distinct sessions get distinct windows", func(t *testing.T) {
		a := registry.Get(registry.NewWindowID())
		b := registry.Get(registry.NewWindowID())
		assert.NotSame(t, a, b)
	})
}
