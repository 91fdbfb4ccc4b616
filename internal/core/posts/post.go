// Package posts normalizes raw upstream post payloads into stable,
// render-ready view models. All shape tolerance for the backend's
// inconsistent JSON lives here and in the resolver packages it composes;
// everything past this boundary operates on fully-typed structures.
package posts

import (
	"time"

	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/media"
	"AgroFeed/internal/core/users"
)

// PostView is the fully normalized representation of a feed post.
// Raw retains the original payload so the view can be re-adapted when the
// viewer identity changes, without refetching.
type PostView struct {
	ID            identity.Identity      `json:"id"`
	Content       string                 `json:"content"`
	CreatedAt     time.Time              `json:"createdAt"`
	Author        users.AuthorView       `json:"author"`
	MediaGallery  []media.Item           `json:"mediaGallery"`
	Primary       *media.Item            `json:"primaryMedia,omitempty"`
	LikeCount     int                    `json:"likeCount"`
	LikedByViewer bool                   `json:"likedByViewer"`
	LikedUsers    []users.AuthorView     `json:"likedUsers,omitempty"`
	Comments      []CommentView          `json:"comments"`
	Raw           map[string]interface{} `json:"-"`
}

// CommentView is a normalized comment sub-document. Immutable once built.
type CommentView struct {
	ID        identity.Identity `json:"id"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"createdAt"`
	Author    users.AuthorView  `json:"author"`
}
