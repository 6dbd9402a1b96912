// Package suggestion defines the short search suggestion record served to
// search boxes and how it is projected from multi-search results.
package suggestion

import (
	"strings"
	"unicode/utf8"

	"github.com/handsomefox/flixora/internal/tmdb"
)

const (
	// Limit is the number of suggestions a lookup returns.
	Limit = 5
	// MinQueryLength is the shortest trimmed query that triggers a lookup.
	MinQueryLength = 2
)

type Suggestion struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Year        *int    `json:"year"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// Eligible reports whether query is long enough to look up.
func Eligible(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= MinQueryLength
}

// Href is the details page of the suggested title.
func (s Suggestion) Href() string {
	return tmdb.Title{ID: s.ID, MediaType: s.Type}.Href()
}

// FromTitles projects the first limit titles into suggestions.
func FromTitles(items []tmdb.Title, limit int) []Suggestion {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]Suggestion, 0, len(items))
	for i := range items {
		t := &items[i]
		s := Suggestion{
			ID:          t.ID,
			Title:       t.Title,
			Type:        t.MediaType,
			Year:        tmdb.ParseYear(t.ReleaseDate),
			VoteAverage: t.VoteAverage,
		}
		if t.PosterPath != "" {
			poster := t.PosterPath
			s.PosterPath = &poster
		}
		out = append(out, s)
	}
	return out
}
