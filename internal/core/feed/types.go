package feed

import (
	"time"

	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/posts"
)

// State is the coordinator's lifecycle state. Exhausted is terminal for the
// life of the window instance.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateExhausted State = "exhausted"
)

// Config carries the window's slicing parameters.
type Config struct {
	// InitialChunk is the page-1 slice size.
	InitialChunk int
	// Chunk is the slice size for every subsequent page.
	Chunk int
}

// DefaultConfig matches the web client's windowing: a larger first screen,
// then small increments driven by the scroll sentinel.
func DefaultConfig() Config {
	return Config{InitialChunk: 30, Chunk: 10}
}

// chunkSize returns the expected slice length for a page.
func (c Config) chunkSize(page int) int {
	if page == 1 {
		return c.InitialChunk
	}
	return c.Chunk
}

// sliceWindow returns the half-open [start,end) slice for a page.
func (c Config) sliceWindow(page int) (start, end int) {
	if page == 1 {
		return 0, c.InitialChunk
	}
	start = c.InitialChunk + (page-2)*c.Chunk
	return start, start + c.Chunk
}

// NoticeLevel classifies a transient user-visible notification.
type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
)

// Notice is the toast analog: a transient notification recorded by the
// mutation/pagination layers and drained by the client on its next poll.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// Snapshot is the read-only view of a window handed to the rendering
// collaborator.
type Snapshot struct {
	Posts       []posts.PostView  `json:"posts"`
	Page        int               `json:"page"`
	State       State             `json:"state"`
	Exhausted   bool              `json:"exhausted"`
	Loading     bool              `json:"loading"`
	ActiveID    identity.Identity `json:"activePostId,omitempty"`
	ActiveMedia int               `json:"activeMediaIndex"`
	Notices     []Notice          `json:"notices,omitempty"`
}

// Localized notice messages, matching the product's client strings.
const (
	msgLoadFailed    = "পোস্ট লোড করা যায়নি"
	msgLoadStale     = "সংযোগ সমস্যা, পুরনো ফিড দেখানো হচ্ছে"
	msgLikeFailed    = "লাইক করা যায়নি"
	msgCommentFailed = "মন্তব্য করা যায়নি"
	msgDeleteFailed  = "মুছে ফেলা যায়নি"
	msgPostDeleted   = "পোস্ট মুছে ফেলা হয়েছে"
)
