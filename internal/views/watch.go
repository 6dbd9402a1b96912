package views

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/handsomefox/flixora/internal/player"
	"github.com/handsomefox/flixora/internal/tmdb"
)

// WatchMovie is the full-screen player page of a movie. startAt resumes
// playback, in seconds.
func (r Renderer) WatchMovie(d *tmdb.MovieDetail, color string, startAt int) g.Node {
	id := strconv.FormatInt(d.ID, 10)
	return r.watch(d.Title.Title,
		"/movies/"+id, "Back to Details",
		h.H1(g.Text(d.Title.Title)),
		player.Movie(d.ID, color, startAt),
		player.MediaMovie,
	)
}

// WatchEpisode is the full-screen player page of one episode.
func (r Renderer) WatchEpisode(show *tmdb.ShowDetail, season *tmdb.SeasonDetail, ep tmdb.Episode, color string, startAt int) g.Node {
	code := player.EpisodeCode(season.SeasonNumber, ep.EpisodeNumber)
	return r.watch(show.Title.Title+" - "+code,
		fmt.Sprintf("/tv/%d/season/%d", show.ID, season.SeasonNumber), "Back to Episodes",
		g.Group{
			h.H1(g.Text(show.Title.Title)),
			h.P(g.Text(code+" • "+ep.Name)),
			g.If(ep.Runtime > 0, h.P(h.Class("muted"), g.Text(duration(ep.Runtime)))),
		},
		player.Episode(show.ID, season.SeasonNumber, ep.EpisodeNumber, color, startAt),
		player.MediaTV,
	)
}

func (r Renderer) watch(title, backHref, backLabel string, heading g.Node, src, mediaType string) g.Node {
	return r.bare(title,
		h.Div(h.Class("watch"),
			g.Attr("data-player-origin", player.Origin),
			g.Attr("data-media-type", mediaType),
			h.Div(h.Class("watch-bar"),
				h.A(h.Href(backHref), g.Text("← "+backLabel)),
				h.Div(h.Class("watch-title"), heading),
				h.Div(h.Class("spacer")),
			),
			g.El("iframe",
				h.Class("player"),
				h.Src(src),
				h.TitleAttr(title),
				g.Attr("allow", "encrypted-media; autoplay; fullscreen"),
				g.Attr("allowfullscreen"),
			),
		),
	)
}
