package tmdb

import "strings"

const DefaultImageBase = "https://image.tmdb.org/t/p"

// Image size buckets used across the app.
const (
	SizeThumb    = "w92"
	SizeProfile  = "w185"
	SizePoster   = "w500"
	SizeBackdrop = "w780"
	SizeOriginal = "original"
)

// ImageURL resolves an image path fragment against base and a size bucket.
// An empty path yields "" so callers can render their placeholder.
func ImageURL(base, size, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if base == "" {
		base = DefaultImageBase
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}
