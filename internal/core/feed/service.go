package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/posts"
)

// Window is the stateful pagination coordinator for one browsing session.
//
// It maintains a deduplicated, append-only post collection fed by a
// chunked-fetch-and-slice strategy over the upstream's full collection,
// guarantees at most one in-flight collection fetch, and is the merge point
// for both pagination results and optimistic mutations. All merges are keyed
// by post id; pagination merges are first-seen-wins so a stale re-fetch never
// clobbers an already-present entry carrying an optimistic edit.
type Window struct {
	mu sync.Mutex

	cfg      Config
	adapter  *posts.Adapter
	upstream Upstream
	store    SnapshotStore // optional
	logger   *slog.Logger

	posts       []posts.PostView
	page        int
	loading     bool
	exhausted   bool
	viewer      identity.Identity
	activeID    identity.Identity
	activeMedia int
	notices     []Notice

	lastTouch time.Time
}

// NewWindow creates an empty window in the Idle state at page 1.
// store may be nil to disable the snapshot fallback.
func NewWindow(cfg Config, adapter *posts.Adapter, upstream Upstream, store SnapshotStore, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.InitialChunk <= 0 || cfg.Chunk <= 0 {
		cfg = DefaultConfig()
	}
	return &Window{
		cfg:       cfg,
		adapter:   adapter,
		upstream:  upstream,
		store:     store,
		logger:    logger,
		page:      1,
		lastTouch: time.Now(),
	}
}

// LoadMore fetches and merges the next slice. It is the target of the
// client's viewport-proximity sentinel and is a no-op while a fetch is in
// flight or once the window is exhausted, so repeated trigger signals are
// harmless.
func (w *Window) LoadMore(ctx context.Context) {
	w.mu.Lock()
	if w.loading || w.exhausted {
		w.mu.Unlock()
		return
	}
	w.loading = true
	page := w.page
	w.mu.Unlock()

	collection, err := w.fetchCollection(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	w.lastTouch = time.Now()

	if err != nil {
		w.logger.Error("feed collection fetch failed", "page", page, "error", err)
		w.notify(NoticeError, msgLoadFailed)
		return
	}

	start, end := w.cfg.sliceWindow(page)
	if start > len(collection) {
		start = len(collection)
	}
	if end > len(collection) {
		end = len(collection)
	}
	chunk := collection[start:end]

	if len(chunk) == 0 {
		w.exhausted = true
		return
	}

	w.mergeLocked(chunk)

	if len(chunk) < w.cfg.chunkSize(page) {
		w.exhausted = true
		return
	}
	w.page++
}

// fetchCollection fetches the full upstream collection, persisting it as the
// newest snapshot on success and falling back to the stored snapshot when the
// upstream is unreachable.
func (w *Window) fetchCollection(ctx context.Context) ([]map[string]interface{}, error) {
	collection, err := w.upstream.FetchPostCollection(ctx)
	if err == nil {
		if w.store != nil {
			if saveErr := w.store.Save(ctx, collection); saveErr != nil {
				w.logger.Warn("feed snapshot save failed", "error", saveErr)
			}
		}
		return collection, nil
	}

	if w.store == nil {
		return nil, err
	}
	stale, loadErr := w.store.Load(ctx)
	if loadErr != nil {
		return nil, err
	}
	w.logger.Warn("serving stale feed snapshot", "fetchError", err)
	w.mu.Lock()
	w.notify(NoticeError, msgLoadStale)
	w.mu.Unlock()
	return stale, nil
}

// mergeLocked adapts and merges a chunk of raw posts, first-seen-wins.
// Caller holds w.mu.
func (w *Window) mergeLocked(chunk []map[string]interface{}) {
	for _, raw := range chunk {
		view := w.adapter.Adapt(raw, w.viewer)
		if w.findLocked(view.ID) >= 0 {
			continue
		}
		w.posts = append(w.posts, view)
	}
}

// SurfacePost makes the given post visible and active (modal-open), with the
// media carousel positioned at mediaIndex. A post already in the window is
// activated in place; otherwise it is fetched directly and prepended without
// disturbing pagination state. Returns ErrPostUnavailable when the post
// cannot be resolved, in which case the caller clears the deep-link
// parameter.
func (w *Window) SurfacePost(ctx context.Context, postID identity.Identity, mediaIndex int) error {
	w.mu.Lock()
	if i := w.findLocked(postID); i >= 0 {
		w.activeID = postID
		w.activeMedia = clampMediaIndex(mediaIndex, len(w.posts[i].MediaGallery))
		w.mu.Unlock()
		return nil
	}
	viewer := w.viewer
	w.mu.Unlock()

	raw, err := w.upstream.FetchSinglePost(ctx, string(postID))
	if err != nil || raw == nil {
		w.logger.Warn("deep-linked post fetch failed", "postId", postID, "error", err)
		return ErrPostUnavailable
	}

	view := w.adapter.Adapt(raw, viewer)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.findLocked(view.ID) < 0 {
		w.posts = append([]posts.PostView{view}, w.posts...)
	}
	w.activeID = postID
	w.activeMedia = clampMediaIndex(mediaIndex, len(view.MediaGallery))
	return nil
}

// ClearActive closes the active (modal-open) post, if any.
func (w *Window) ClearActive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.activeID = identity.None
	w.activeMedia = 0
}

// clampMediaIndex keeps the carousel position inside the gallery bounds.
func clampMediaIndex(index, galleryLen int) int {
	if index < 0 || index >= galleryLen {
		return 0
	}
	return index
}

// SetViewer records the viewer identity and re-adapts every cached post from
// its retained raw payload, recomputing like state without refetching.
// A no-op when the identity is unchanged.
func (w *Window) SetViewer(viewer identity.Identity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.viewer == viewer || identity.Same(w.viewer, viewer) {
		return
	}
	w.viewer = viewer
	for i := range w.posts {
		w.posts[i] = w.adapter.Adapt(w.posts[i].Raw, viewer)
	}
}

// Viewer returns the identity the window is currently adapted against.
func (w *Window) Viewer() identity.Identity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewer
}

// State reports the coordinator's lifecycle state.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.loading:
		return StateLoading
	case w.exhausted:
		return StateExhausted
	default:
		return StateIdle
	}
}

// Snapshot returns a read-only copy of the window for rendering, draining
// accumulated notices.
func (w *Window) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastTouch = time.Now()

	out := Snapshot{
		Posts:       make([]posts.PostView, len(w.posts)),
		Page:        w.page,
		Exhausted:   w.exhausted,
		Loading:     w.loading,
		ActiveID:    w.activeID,
		ActiveMedia: w.activeMedia,
		Notices:     w.notices,
	}
	copy(out.Posts, w.posts)
	w.notices = nil

	switch {
	case w.loading:
		out.State = StateLoading
	case w.exhausted:
		out.State = StateExhausted
	default:
		out.State = StateIdle
	}
	return out
}

// Post returns a copy of one post by id.
func (w *Window) Post(postID identity.Identity) (posts.PostView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := w.findLocked(postID); i >= 0 {
		return w.posts[i], true
	}
	return posts.PostView{}, false
}

// notify records a transient notice. Caller holds w.mu.
func (w *Window) notify(level NoticeLevel, message string) {
	w.notices = append(w.notices, Notice{Level: level, Message: message, At: time.Now()})
}

// findLocked returns the index of a post by id, or -1. Caller holds w.mu.
func (w *Window) findLocked(postID identity.Identity) int {
	for i := range w.posts {
		if identity.Same(w.posts[i].ID, postID) {
			return i
		}
	}
	return -1
}

// idleSince reports how long the window has gone untouched.
func (w *Window) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastTouch)
}
