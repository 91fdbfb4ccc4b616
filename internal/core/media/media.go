// Package media collects candidate media references from the many payload
// shapes the upstream uses (arrays, singletons, nested media objects) and
// resolves them into an ordered, de-duplicated gallery of absolute-URL items.
// Resolution never fails: malformed candidates are silently dropped.
package media

import "strings"

// Kind tags a gallery item as image or video.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// DefaultGalleryMax is the cap applied when building a gallery from scratch.
// The rendering layer applies its own, smaller display cap.
const DefaultGalleryMax = 7

// Item is a single resolved media reference.
type Item struct {
	Kind Kind   `json:"kind"`
	URL  string `json:"url"`
}

// videoFields and imageFields are scanned in order when the payload does not
// supply an explicit gallery. Entries ending in "[]" are arrays; dotted
// entries reach into a nested media object.
var videoFields = []string{"videos[]", "video", "media.video"}
var imageFields = []string{"images[]", "image", "mediaUrl", "media", "coverPhoto", "media.images[]", "mediaFiles[]"}

// Resolver builds galleries against a configured upstream base address.
type Resolver struct {
	baseURL    string
	galleryMax int
}

// NewResolver returns a Resolver joining relative URLs onto baseURL.
// A non-positive max falls back to DefaultGalleryMax.
func NewResolver(baseURL string, galleryMax int) *Resolver {
	if galleryMax <= 0 {
		galleryMax = DefaultGalleryMax
	}
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/"), galleryMax: galleryMax}
}

// AbsoluteURL resolves a raw URL to absolute form. Already-absolute and
// blob: URLs pass through unchanged; relative paths are joined with the base
// with exactly one separating slash. Blank input yields "".
func (r *Resolver) AbsoluteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "blob:") {
		return raw
	}
	return r.baseURL + "/" + strings.TrimPrefix(raw, "/")
}

// BuildGallery assembles the media gallery for a raw post payload.
//
// If the payload already carries a populated mediaGallery array it is adopted
// as-is (each entry still gets URL resolution and kind coercion) and field
// scanning is skipped. Otherwise video-typed fields are scanned first, then
// image-typed fields; candidates are de-duplicated by resolved URL in
// first-seen order and the result is capped at the configured maximum.
func (r *Resolver) BuildGallery(rawPost map[string]interface{}) []Item {
	if rawPost == nil {
		return nil
	}

	if supplied, ok := rawPost["mediaGallery"].([]interface{}); ok && len(supplied) > 0 {
		return r.adoptGallery(supplied)
	}

	var gallery []Item
	seen := make(map[string]bool)

	collect := func(fields []string, kind Kind) {
		for _, field := range fields {
			for _, candidate := range lookupField(rawPost, field) {
				url := r.AbsoluteURL(coerceSource(candidate))
				if url == "" || seen[url] {
					continue
				}
				seen[url] = true
				gallery = append(gallery, Item{Kind: kind, URL: url})
			}
		}
	}

	collect(videoFields, KindVideo)
	collect(imageFields, KindImage)

	if len(gallery) > r.galleryMax {
		gallery = gallery[:r.galleryMax]
	}
	return gallery
}

// Primary picks the single item used by single-media rendering paths:
// the first video if any video exists, otherwise the first image.
func Primary(gallery []Item) (Item, bool) {
	for _, item := range gallery {
		if item.Kind == KindVideo {
			return item, true
		}
	}
	if len(gallery) > 0 {
		return gallery[0], true
	}
	return Item{}, false
}

// adoptGallery normalizes a pre-supplied gallery array without re-scanning
// the payload. Entries may be bare URLs or objects with url/src/path plus an
// optional kind/type tag; untagged entries default to image.
func (r *Resolver) adoptGallery(supplied []interface{}) []Item {
	var gallery []Item
	seen := make(map[string]bool)
	for _, entry := range supplied {
		url := r.AbsoluteURL(coerceSource(entry))
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		gallery = append(gallery, Item{Kind: coerceKind(entry), URL: url})
	}
	return gallery
}

// lookupField evaluates one scan-field expression against the payload and
// returns the raw candidates it yields (possibly none).
func lookupField(rawPost map[string]interface{}, field string) []interface{} {
	isArray := strings.HasSuffix(field, "[]")
	field = strings.TrimSuffix(field, "[]")

	var value interface{} = rawPost
	for _, part := range strings.Split(field, ".") {
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil
		}
		value = obj[part]
	}
	if value == nil {
		return nil
	}

	if isArray {
		arr, ok := value.([]interface{})
		if !ok {
			return nil
		}
		return arr
	}
	return []interface{}{value}
}

// coerceSource extracts a URL string from a candidate: strings are used
// directly, objects yield url, src or path in that order.
func coerceSource(candidate interface{}) string {
	switch v := candidate.(type) {
	case string:
		return v
	case map[string]interface{}:
		for _, key := range []string{"url", "src", "path"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// coerceKind reads a kind/type tag off a pre-supplied gallery entry.
func coerceKind(candidate interface{}) Kind {
	if obj, ok := candidate.(map[string]interface{}); ok {
		for _, key := range []string{"kind", "type"} {
			if s, ok := obj[key].(string); ok && strings.EqualFold(s, string(KindVideo)) {
				return KindVideo
			}
		}
	}
	return KindImage
}
