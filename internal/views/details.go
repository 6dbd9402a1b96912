package views

import (
	"fmt"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/handsomefox/flixora/internal/tmdb"
)

const castLimit = 12

func (r Renderer) backdrop(path string) g.Node {
	if path == "" {
		return h.Div(h.Class("backdrop placeholder"))
	}
	return h.Div(h.Class("backdrop"),
		h.Style(fmt.Sprintf("background-image: url(%q)", r.image(tmdb.SizeOriginal, path))),
	)
}

func genres(list []tmdb.Genre) g.Node {
	return h.Ul(h.Class("genres"),
		g.Map(list, func(gn tmdb.Genre) g.Node { return h.Li(g.Text(gn.Name)) }),
	)
}

func (r Renderer) cast(members []tmdb.CastMember) g.Node {
	if len(members) == 0 {
		return nil
	}
	if len(members) > castLimit {
		members = members[:castLimit]
	}
	return h.Section(h.Class("section"),
		h.H2(g.Text("Cast")),
		h.Div(h.Class("cast"),
			g.Map(members, func(m tmdb.CastMember) g.Node {
				var photo g.Node = h.Div(h.Class("avatar placeholder"))
				if m.ProfilePath != "" {
					photo = h.Img(h.Class("avatar"), h.Src(r.image(tmdb.SizeProfile, m.ProfilePath)), h.Alt(m.Name), h.Loading("lazy"))
				}
				return h.Div(h.Class("cast-member"),
					photo,
					h.P(h.Class("name"), g.Text(m.Name)),
					h.P(h.Class("muted"), g.Text(m.Character)),
				)
			}),
		),
	)
}

func trailer(v tmdb.Video, ok bool) g.Node {
	if !ok {
		return nil
	}
	return h.Section(h.Class("section"),
		h.H2(g.Text("Trailer")),
		h.Div(h.Class("trailer"),
			g.El("iframe",
				h.Src("https://www.youtube.com/embed/"+v.Key),
				h.TitleAttr(v.Name),
				g.Attr("allow", "encrypted-media; fullscreen"),
				g.Attr("allowfullscreen"),
			),
		),
	)
}

func duration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func facts(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}

func (r Renderer) MovieDetail(d *tmdb.MovieDetail) g.Node {
	vote := ""
	if d.VoteAverage > 0 {
		vote = fmt.Sprintf("★ %.1f (%d votes)", d.VoteAverage, d.VoteCount)
	}
	return r.page(d.Title.Title,
		r.backdrop(d.BackdropPath),
		h.Div(h.Class("details"),
			r.poster(d.PosterPath, d.Title.Title),
			h.Div(h.Class("details-body"),
				h.H1(g.Text(d.Title.Title)),
				g.If(d.Tagline != "", h.P(h.Class("tagline"), g.Text(d.Tagline))),
				h.P(h.Class("muted"), g.Text(facts(d.Year(), duration(d.Runtime), d.Status, vote))),
				genres(d.Genres),
				h.P(g.Text(d.Overview)),
				h.Div(h.Class("actions"),
					h.A(h.Class("btn btn-primary"), h.Href("/watch/movie/"+strconv.FormatInt(d.ID, 10)), g.Text("Watch Now")),
					g.If(d.IMDbID != "", h.A(h.Class("btn"), h.Href("https://www.imdb.com/title/"+d.IMDbID+"/"), h.Target("_blank"), h.Rel("noopener"), g.Text("IMDb"))),
				),
			),
		),
		trailer(d.Trailer()),
		r.cast(d.Cast),
	)
}

func (r Renderer) ShowDetail(d *tmdb.ShowDetail) g.Node {
	showID := strconv.FormatInt(d.ID, 10)
	seasons := d.Seasons
	return r.page(d.Title.Title,
		r.backdrop(d.BackdropPath),
		h.Div(h.Class("details"),
			r.poster(d.PosterPath, d.Title.Title),
			h.Div(h.Class("details-body"),
				h.H1(g.Text(d.Title.Title)),
				g.If(d.Tagline != "", h.P(h.Class("tagline"), g.Text(d.Tagline))),
				h.P(h.Class("muted"), g.Text(facts(
					d.Year(),
					fmt.Sprintf("%d seasons", d.NumberOfSeasons),
					fmt.Sprintf("%d episodes", d.NumberOfEpisodes),
					d.Status,
				))),
				genres(d.Genres),
				h.P(g.Text(d.Overview)),
				g.Iff(len(seasons) > 0, func() g.Node {
					return h.Div(h.Class("actions"),
						h.A(h.Class("btn btn-primary"), h.Href(fmt.Sprintf("/tv/%s/season/%d", showID, firstSeason(seasons))), g.Text("Episodes")),
					)
				}),
			),
		),
		h.Section(h.Class("section"),
			h.H2(g.Text("Seasons")),
			h.Div(h.Class("grid"),
				g.Map(seasons, func(s tmdb.Season) g.Node {
					return h.A(h.Class("card"), h.Href(fmt.Sprintf("/tv/%s/season/%d", showID, s.SeasonNumber)),
						r.poster(s.PosterPath, s.Name),
						h.Div(h.Class("card-body"),
							h.H3(g.Text(s.Name)),
							h.P(h.Class("muted"), g.Text(facts(yearOf(s.AirDate), fmt.Sprintf("%d episodes", s.EpisodeCount)))),
						),
					)
				}),
			),
		),
		trailer(d.Trailer()),
		r.cast(d.Cast),
	)
}

// firstSeason prefers season 1 over specials.
func firstSeason(seasons []tmdb.Season) int {
	for _, s := range seasons {
		if s.SeasonNumber > 0 {
			return s.SeasonNumber
		}
	}
	if len(seasons) == 0 {
		return 1
	}
	return seasons[0].SeasonNumber
}

func yearOf(date string) string {
	if y := tmdb.ParseYear(date); y != nil {
		return strconv.Itoa(*y)
	}
	return ""
}

func (r Renderer) Season(show *tmdb.ShowDetail, season *tmdb.SeasonDetail) g.Node {
	showID := strconv.FormatInt(show.ID, 10)
	return r.page(show.Title.Title+" "+season.Name,
		h.Div(h.Class("season-header"),
			h.A(h.Href("/tv/"+showID), g.Text("← "+show.Title.Title)),
			h.H1(g.Text(season.Name)),
			g.If(season.Overview != "", h.P(g.Text(season.Overview))),
		),
		h.Ol(h.Class("episodes"),
			g.Map(season.Episodes, func(ep tmdb.Episode) g.Node {
				href := fmt.Sprintf("/watch/tv/%s/%d/%d", showID, season.SeasonNumber, ep.EpisodeNumber)
				var still g.Node = h.Div(h.Class("still placeholder"))
				if ep.StillPath != "" {
					still = h.Img(h.Class("still"), h.Src(r.image(tmdb.SizeBackdrop, ep.StillPath)), h.Alt(ep.Name), h.Loading("lazy"))
				}
				return h.Li(h.Class("episode"),
					h.A(h.Href(href), still),
					h.Div(h.Class("episode-body"),
						h.H3(h.A(h.Href(href), g.Text(fmt.Sprintf("%d. %s", ep.EpisodeNumber, ep.Name)))),
						h.P(h.Class("muted"), g.Text(facts(ep.AirDate, duration(ep.Runtime)))),
						h.P(g.Text(ep.Overview)),
					),
				)
			}),
		),
	)
}
