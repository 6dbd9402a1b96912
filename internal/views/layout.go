// Package views renders the server's HTML pages with gomponents.
package views

import (
	"fmt"
	"io"
	"net/url"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	"github.com/handsomefox/flixora/internal/tmdb"
	"github.com/handsomefox/flixora/internal/web"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// Renderer holds what every page needs to resolve images.
type Renderer struct {
	ImageBase string
}

func New(imageBase string) Renderer {
	if imageBase == "" {
		imageBase = tmdb.DefaultImageBase
	}
	return Renderer{ImageBase: imageBase}
}

func (r Renderer) image(size, path string) string {
	return tmdb.ImageURL(r.ImageBase, size, path)
}

// Render writes a node, for handlers that only hold an io.Writer.
func Render(w io.Writer, n g.Node) error {
	return n.Render(w)
}

func (r Renderer) page(title string, body ...g.Node) g.Node {
	if title == "" {
		title = "Flixora"
	} else {
		title += " | Flixora"
	}
	return c.HTML5(c.HTML5Props{
		Title:    title,
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.Link(h.Rel("stylesheet"), h.Href(web.Path("app.css"))),
			h.Script(h.Src(htmxScript), g.Attr("defer")),
			h.Script(h.Src(web.Path("app.js")), g.Attr("defer")),
		},
		Body: []g.Node{
			h.Class("app"),
			navbar(),
			h.Main(g.Group(body)),
			footer(),
		},
	})
}

// bare is a page without navigation, used by the full-screen player.
func (r Renderer) bare(title string, body ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    title + " | Flixora",
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.Link(h.Rel("stylesheet"), h.Href(web.Path("app.css"))),
			h.Script(h.Src(web.Path("app.js")), g.Attr("defer")),
		},
		Body: []g.Node{h.Class("app bare"), g.Group(body)},
	})
}

func navbar() g.Node {
	return h.Nav(h.Class("navbar"),
		h.A(h.Class("brand"), h.Href("/"), g.Text("Flixora")),
		h.Ul(h.Class("nav-links"),
			h.Li(h.A(h.Href("/"), g.Text("Home"))),
			h.Li(h.A(h.Href("/movies"), g.Text("Movies"))),
			h.Li(h.A(h.Href("/tv"), g.Text("TV Shows"))),
		),
		searchBox(""),
	)
}

// searchBox asks the server for suggestions as the user types and falls back
// to the full search page on submit.
func searchBox(query string) g.Node {
	return h.Form(h.Class("search"), h.Action("/search"), h.Method("get"),
		h.Input(
			h.Type("search"),
			h.Name("q"),
			h.Value(query),
			h.Placeholder("Search movies and TV shows..."),
			h.AutoComplete("off"),
			hx.Get("/partials/suggestions"),
			hx.Trigger("keyup changed delay:300ms, search"),
			hx.Target("#suggestions"),
			hx.Swap("innerHTML"),
			g.Attr("hx-sync", "this:replace"),
		),
		h.Div(h.ID("suggestions"), h.Class("suggestions")),
	)
}

func footer() g.Node {
	return h.Footer(h.Class("footer"),
		h.P(g.Text("Flixora. Metadata from TMDB.")),
	)
}

func section(title string, items []tmdb.Title, r Renderer) g.Node {
	return h.Section(h.Class("section"),
		h.H2(g.Text(title)),
		g.If(len(items) == 0, h.P(h.Class("muted"), g.Text("Nothing to show right now."))),
		h.Div(h.Class("grid"),
			g.Map(items, func(t tmdb.Title) g.Node { return r.card(t) }),
		),
	)
}

func (r Renderer) card(t tmdb.Title) g.Node {
	return h.A(h.Class("card"), h.Href(t.Href()),
		r.poster(t.PosterPath, t.Title),
		h.Div(h.Class("card-body"),
			h.H3(g.Text(t.Title)),
			h.P(h.Class("muted"), g.Text(meta(t.Year(), t.VoteAverage))),
		),
	)
}

func (r Renderer) poster(path, alt string) g.Node {
	if path == "" {
		return h.Div(h.Class("poster placeholder"), g.Text("No image"))
	}
	return h.Img(h.Class("poster"), h.Src(r.image(tmdb.SizePoster, path)), h.Alt(alt), h.Loading("lazy"))
}

func meta(year string, vote float64) string {
	if year == "" {
		year = "N/A"
	}
	if vote <= 0 {
		return year
	}
	return fmt.Sprintf("%s · ★ %.1f", year, vote)
}

func searchHref(query string) string {
	return "/search?q=" + url.QueryEscape(query)
}
