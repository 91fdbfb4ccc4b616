package posts

import (
	"fmt"
	"time"

	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/media"
	"AgroFeed/internal/core/users"

	"github.com/google/uuid"
)

// Adapter composes the identity, media and author resolvers into the post
// normalization pipeline. Adaptation never fails: malformed fields degrade
// through fallback chains instead of surfacing errors.
type Adapter struct {
	media *media.Resolver
	users *users.Adapter
	now   func() time.Time
	newID func() string
}

// NewAdapter returns a post adapter built on the given resolvers.
func NewAdapter(m *media.Resolver, u *users.Adapter) *Adapter {
	return &Adapter{
		media: m,
		users: u,
		now:   time.Now,
		newID: func() string { return "post-" + uuid.NewString() },
	}
}

// Adapt normalizes a raw post payload relative to the given viewer.
// The viewer only influences LikedByViewer; passing identity.None adapts
// the post anonymously.
func (a *Adapter) Adapt(rawPost map[string]interface{}, viewer identity.Identity) PostView {
	if rawPost == nil {
		rawPost = map[string]interface{}{}
	}

	id := identity.Resolve(rawPost)
	if id == identity.None {
		// Last-resort key so list rendering stays collision-free.
		id = identity.Identity(a.newID())
	}

	rawAuthor := rawPost["user"]
	if rawAuthor == nil {
		rawAuthor = rawPost["author"]
	}
	author := a.users.Adapt(rawAuthor, users.FallbackUnknownAuthor)

	gallery := a.media.BuildGallery(rawPost)
	var primary *media.Item
	if item, ok := media.Primary(gallery); ok {
		primary = &item
	}

	view := PostView{
		ID:           id,
		Content:      firstString(rawPost, "text", "content", "caption"),
		CreatedAt:    a.timestamp(rawPost, "createdAt"),
		Author:       author,
		MediaGallery: gallery,
		Primary:      primary,
		Comments:     a.adaptComments(rawPost["comments"]),
		Raw:          rawPost,
	}

	a.applyLikes(&view, rawPost, viewer)
	return view
}

// applyLikes handles the two like representations the upstream uses:
// an array of liker references on the feed path, and a bare integer count
// with a separate liked flag on the profile path.
func (a *Adapter) applyLikes(view *PostView, rawPost map[string]interface{}, viewer identity.Identity) {
	switch likes := rawPost["likes"].(type) {
	case []interface{}:
		view.LikedUsers = a.adaptLikers(likes)
		view.LikeCount = len(view.LikedUsers)
		if viewer != identity.None {
			for _, liker := range view.LikedUsers {
				likerID := liker.ID
				if likerID == identity.None {
					likerID = identity.Identity(liker.Username)
				}
				if identity.Same(likerID, viewer) {
					view.LikedByViewer = true
					break
				}
			}
		}
	case float64:
		if likes > 0 {
			view.LikeCount = int(likes)
		}
		liked, _ := rawPost["liked"].(bool)
		view.LikedByViewer = liked
	}
}

// adaptLikers maps raw like entries through the author adapter. Primitive
// entries (bare ids) are wrapped into a minimal user object the way the
// upstream's own clients do; entries without profile data get a positional
// fallback name.
func (a *Adapter) adaptLikers(entries []interface{}) []users.AuthorView {
	likers := make([]users.AuthorView, 0, len(entries))
	for i, entry := range entries {
		fallback := fmt.Sprintf("Liker %d", i+1)
		if _, ok := entry.(map[string]interface{}); !ok {
			if id := identity.Resolve(entry); id != identity.None {
				entry = map[string]interface{}{"id": string(id), "username": string(id)}
			}
		}
		likers = append(likers, a.users.Adapt(entry, fallback))
	}
	return likers
}

func (a *Adapter) adaptComments(raw interface{}) []CommentView {
	entries, ok := raw.([]interface{})
	if !ok {
		return []CommentView{}
	}

	comments := make([]CommentView, 0, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		comments = append(comments, a.AdaptComment(obj, i))
	}
	return comments
}

// AdaptComment normalizes a single raw comment sub-document. The index
// feeds the positional "Commenter N" author fallback.
func (a *Adapter) AdaptComment(rawComment map[string]interface{}, index int) CommentView {
	id := identity.Resolve(rawComment)
	if id == identity.None {
		id = identity.Identity(a.newID())
	}

	rawAuthor := rawComment["user"]
	if rawAuthor == nil {
		rawAuthor = rawComment["author"]
	}

	return CommentView{
		ID:        id,
		Text:      firstString(rawComment, "text", "content"),
		CreatedAt: a.timestamp(rawComment, "createdAt", "date"),
		Author:    a.users.Adapt(rawAuthor, fmt.Sprintf("Commenter %d", index+1)),
	}
}

// timestamp parses the first present field as RFC3339; anything missing or
// unparseable degrades to the adaptation time, never an error.
func (a *Adapter) timestamp(obj map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := obj[key].(string)
		if !ok || s == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
	}
	return a.now()
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
