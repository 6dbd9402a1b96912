package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Static serves the embedded assets under prefix. Directory listings are
// refused.
func Static(prefix string, assets fs.FS) http.Handler {
	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(assets)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := strings.TrimPrefix(path.Clean(strings.TrimPrefix(r.URL.Path, prefix)), "/")
		info, err := fs.Stat(assets, clean)
		if clean == "" || clean == "." || err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}
