package views

import (
	"fmt"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
)

// Suggestions is the dropdown fragment swapped in under the search box.
// Short queries and empty results render nothing.
func (r Renderer) Suggestions(query string, items []suggestion.Suggestion) g.Node {
	if !suggestion.Eligible(query) || len(items) == 0 {
		return g.Text("")
	}
	query = strings.TrimSpace(query)
	return h.Div(h.Class("suggestion-list"),
		h.Ul(
			g.Map(items, func(s suggestion.Suggestion) g.Node {
				return h.Li(h.A(h.Class("suggestion"), h.Href(s.Href()),
					r.thumb(s),
					h.Div(
						h.P(h.Class("name"), g.Text(s.Title)),
						h.P(h.Class("muted"), g.Text(describe(s))),
					),
				))
			}),
		),
		h.A(h.Class("see-all"), h.Href(searchHref(query)), g.Textf("See all results for %q", query)),
	)
}

func (r Renderer) thumb(s suggestion.Suggestion) g.Node {
	if s.PosterPath == nil {
		return h.Div(h.Class("thumb placeholder"))
	}
	return h.Img(h.Class("thumb"), h.Src(r.image(tmdb.SizeThumb, *s.PosterPath)), h.Alt(s.Title))
}

func describe(s suggestion.Suggestion) string {
	year := "N/A"
	if s.Year != nil {
		year = strconv.Itoa(*s.Year)
	}
	kind := "Movie"
	if s.Type == tmdb.MediaTV {
		kind = "TV Show"
	}
	out := year + " · " + kind
	if s.VoteAverage > 0 {
		out += fmt.Sprintf(" · ★ %.1f", s.VoteAverage)
	}
	return out
}
