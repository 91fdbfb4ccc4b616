package feed

import (
	"log/slog"
	"sync"
	"time"

	"AgroFeed/internal/core/posts"

	"github.com/google/uuid"
)

// Registry maps session window ids to live windows. Each browsing session
// owns exactly one window; idle windows are evicted opportunistically so the
// map does not grow without bound.
type Registry struct {
	mu      sync.Mutex
	windows map[string]*Window

	cfg      Config
	adapter  *posts.Adapter
	upstream Upstream
	store    SnapshotStore
	logger   *slog.Logger
	maxIdle  time.Duration
}

// DefaultMaxIdle is how long a window may go untouched before eviction.
const DefaultMaxIdle = 30 * time.Minute

// NewRegistry creates a window registry. store may be nil.
func NewRegistry(cfg Config, adapter *posts.Adapter, upstream Upstream, store SnapshotStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		windows:  make(map[string]*Window),
		cfg:      cfg,
		adapter:  adapter,
		upstream: upstream,
		store:    store,
		logger:   logger,
		maxIdle:  DefaultMaxIdle,
	}
}

// NewWindowID mints an id for a fresh session window.
func (r *Registry) NewWindowID() string {
	return uuid.NewString()
}

// Get returns the window for a session id, creating it on first use.
func (r *Registry) Get(id string) *Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdleLocked(time.Now())

	if w, ok := r.windows[id]; ok {
		return w
	}
	w := NewWindow(r.cfg, r.adapter, r.upstream, r.store, r.logger)
	r.windows[id] = w
	return w
}

// Len reports the number of live windows.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}

func (r *Registry) evictIdleLocked(now time.Time) {
	for id, w := range r.windows {
		if w.idleSince(now) > r.maxIdle {
			delete(r.windows, id)
		}
	}
}
