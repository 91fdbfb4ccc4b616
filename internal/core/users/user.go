// Package users builds display-ready author views from the raw user
// references the upstream embeds in posts, comments and like lists.
// Adaptation is deterministic: identical input always yields an identical
// view, so cached posts can be safely re-adapted when the viewer changes.
package users

import (
	"AgroFeed/internal/core/identity"
	"AgroFeed/internal/core/media"
)

// PlaceholderAvatarURL is served whenever a user has no uploaded avatar.
const PlaceholderAvatarURL = "https://i.postimg.cc/fRVdFSbg/e1ef6545-86db-4c0b-af84-36a726924e74.png"

// Localized fallback display names. The product UI is Bengali.
const (
	FallbackUnknownUser   = "অজানা ব্যবহারকারী"
	FallbackUnknownAuthor = "অনামা লেখক"
)

// AuthorView is the render-ready representation of a post/comment author.
// Name is never empty and AvatarURL always resolves to a fetchable image.
type AuthorView struct {
	ID        identity.Identity `json:"id"`
	Name      string            `json:"name"`
	Username  string            `json:"username,omitempty"`
	AvatarURL string            `json:"avatarUrl"`
}

// Adapter builds AuthorViews, using the media resolver for avatar URLs.
type Adapter struct {
	media *media.Resolver
}

// NewAdapter returns an author adapter resolving avatar URLs through m.
func NewAdapter(m *media.Resolver) *Adapter {
	return &Adapter{media: m}
}

// Adapt builds an AuthorView from a raw user reference.
//
// A missing or non-object reference yields a placeholder view keyed by
// fallbackName. Otherwise the id falls back through resolved identity,
// username, then fallbackName; the display name through name, username,
// fallbackName; and the avatar through profileImage, avatar, placeholder.
func (a *Adapter) Adapt(rawUser interface{}, fallbackName string) AuthorView {
	obj, ok := rawUser.(map[string]interface{})
	if !ok || obj == nil {
		return AuthorView{
			ID:        identity.Identity(fallbackName),
			Name:      fallbackName,
			AvatarURL: PlaceholderAvatarURL,
		}
	}

	id := identity.Resolve(obj)
	username := stringField(obj, "username")
	if id == identity.None {
		if username != "" {
			id = identity.Identity(username)
		} else {
			id = identity.Identity(fallbackName)
		}
	}

	name := stringField(obj, "name")
	if name == "" {
		name = username
	}
	if name == "" {
		name = fallbackName
	}

	avatar := a.media.AbsoluteURL(stringField(obj, "profileImage"))
	if avatar == "" {
		avatar = a.media.AbsoluteURL(stringField(obj, "avatar"))
	}
	if avatar == "" {
		avatar = PlaceholderAvatarURL
	}

	return AuthorView{ID: id, Name: name, Username: username, AvatarURL: avatar}
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return s
}
