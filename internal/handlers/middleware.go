package handlers

import "net/http"

const playerFrameSources = "frame-src 'self' https://player.videasy.net https://www.youtube.com;"

// FrameHeaders restricts which origins the player pages may embed and keeps
// the pages themselves out of foreign frames.
func FrameHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", playerFrameSources)
		next.ServeHTTP(w, r)
	})
}
