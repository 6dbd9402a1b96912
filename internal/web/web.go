// Package web embeds the stylesheet and script served under /static/.
package web

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"sort"
	"sync"
)

// Prefix is where the server mounts Dist.
const Prefix = "/static/"

//go:embed dist/*
var dist embed.FS

func Dist() (fs.FS, error) {
	return fs.Sub(dist, "dist")
}

// Version is a short content hash of the embedded assets, appended to asset
// URLs so browsers refetch them after a deploy.
var Version = sync.OnceValue(func() string {
	sum := sha256.New()
	entries, err := fs.ReadDir(dist, "dist")
	if err != nil {
		return "dev"
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := dist.ReadFile("dist/" + name)
		if err != nil {
			return "dev"
		}
		sum.Write([]byte(name))
		sum.Write(data)
	}
	return hex.EncodeToString(sum.Sum(nil))[:12]
})

// Path is the versioned URL of an embedded asset.
func Path(name string) string {
	return Prefix + name + "?v=" + Version()
}
