package views

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/handsomefox/flixora/internal/tmdb"
	"github.com/handsomefox/flixora/internal/ui/carousel"
)

// HeroItems turns titles into carousel entries keyed by poster.
func HeroItems(titles []tmdb.Title) []carousel.Item {
	items := make([]carousel.Item, 0, len(titles))
	for _, t := range titles {
		items = append(items, carousel.Item{ID: t.ID, DisplayTitle: t.Title, ImageRef: t.PosterPath})
	}
	return items
}

// hero renders every eligible poster as a stacked layer; app.js rotates
// them on the same schedule the terminal carousel uses. A layer is drawn at
// its visible opacity times carousel.OverlayScale, so only the first layer
// shows before any rotation.
func (r Renderer) hero(titles []tmdb.Title) g.Node {
	eligible := carousel.Eligible(HeroItems(titles))
	if len(eligible) == 0 {
		return h.Div(h.Class("hero"),
			h.Div(h.Class("hero-fallback"), h.Style(layerOpacity(1))),
			heroCopy(),
		)
	}
	return h.Div(h.Class("hero"),
		g.Attr("data-period", strconv.FormatInt(carousel.DefaultPeriod.Milliseconds(), 10)),
		g.Attr("data-fade", strconv.FormatInt(carousel.DefaultFade.Milliseconds(), 10)),
		g.Attr("data-scale", fmt.Sprintf("%.2f", carousel.OverlayScale)),
		g.Map(eligible, func(it carousel.Item) g.Node {
			visible := 0.0
			if it.ID == eligible[0].ID {
				visible = 1
			}
			return h.Div(h.Class("hero-layer"),
				g.Attr("data-title", it.DisplayTitle),
				h.Style(fmt.Sprintf("background-image: url(%q); %s", r.image(tmdb.SizeOriginal, it.ImageRef), layerOpacity(visible))),
			)
		}),
		heroCopy(),
	)
}

func layerOpacity(visible float64) string {
	return fmt.Sprintf("opacity: %.2f", visible*carousel.OverlayScale)
}

func heroCopy() g.Node {
	return h.Div(h.Class("hero-copy"),
		h.H1(g.Text("Welcome to Flixora")),
		h.P(g.Text("Discover and watch your favorite movies and TV shows.")),
		h.Div(h.Class("hero-actions"),
			h.A(h.Class("btn btn-primary"), h.Href("/movies"), g.Text("Browse Movies")),
			h.A(h.Class("btn"), h.Href("/tv"), g.Text("Browse TV Shows")),
		),
	)
}

func (r Renderer) Home(trending []tmdb.Title) g.Node {
	return r.page("",
		r.hero(trending),
		section("Trending This Week", trending, r),
	)
}

func (r Renderer) Movies(popular, topRated, upcoming []tmdb.Title) g.Node {
	return r.page("Movies",
		h.H1(h.Class("page-title"), g.Text("Movies")),
		section("Popular Movies", popular, r),
		section("Top Rated Movies", topRated, r),
		section("Upcoming Movies", upcoming, r),
	)
}

func (r Renderer) TV(popular, topRated, airingToday []tmdb.Title) g.Node {
	return r.page("TV Shows",
		h.H1(h.Class("page-title"), g.Text("TV Shows")),
		section("Popular TV Shows", popular, r),
		section("Top Rated TV Shows", topRated, r),
		section("Airing Today", airingToday, r),
	)
}

// Search renders the full results page. failed distinguishes an upstream
// error from an empty result.
func (r Renderer) Search(query string, results []tmdb.Title, failed bool) g.Node {
	var body g.Node
	switch {
	case query == "":
		body = h.P(h.Class("muted"), g.Text("Type at least two characters to search."))
	case failed:
		body = h.P(h.Class("error"), g.Text("Search is unavailable right now. Please try again."))
	case len(results) == 0:
		body = section(fmt.Sprintf("No Results for %q", query), nil, r)
	default:
		body = section(fmt.Sprintf("Results for %q", query), results, r)
	}
	return r.page("Search",
		h.Div(h.Class("search-page"), searchBox(query)),
		body,
	)
}

// Error renders a status page.
func (r Renderer) Error(status int, message string) g.Node {
	return r.page(strconv.Itoa(status),
		h.Div(h.Class("error-page"),
			h.H1(g.Text(strconv.Itoa(status))),
			h.P(g.Text(message)),
			h.A(h.Class("btn btn-primary"), h.Href("/"), g.Text("Back to Home")),
		),
	)
}
