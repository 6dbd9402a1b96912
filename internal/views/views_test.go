package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, n))
	return buf.String()
}

func TestHomeHeroSkipsTitlesWithoutPoster(t *testing.T) {
	r := New("")
	out := render(t, r.Home([]tmdb.Title{
		{ID: 1, MediaType: tmdb.MediaMovie, Title: "Alien", PosterPath: "/alien.jpg", BackdropPath: "/alien-bd.jpg"},
		{ID: 2, MediaType: tmdb.MediaMovie, Title: "No Poster", BackdropPath: "/np.jpg"},
		{ID: 3, MediaType: tmdb.MediaMovie, Title: "Heat", PosterPath: "/heat.jpg"},
	}))

	assert.Equal(t, 2, strings.Count(out, `class="hero-layer"`))
	assert.Contains(t, out, "https://image.tmdb.org/t/p/original/alien.jpg")
	assert.NotContains(t, out, "/np.jpg")
	assert.Contains(t, out, `data-period="7000"`)
	assert.Contains(t, out, `data-fade="1000"`)
	assert.Contains(t, out, `data-scale="0.30"`)
	assert.Equal(t, 1, strings.Count(out, "opacity: 0.30"), "only the first layer is shown")
	assert.Equal(t, 1, strings.Count(out, "opacity: 0.00"))
	assert.Contains(t, out, `href="/movies/2"`, "every title still gets a card")
}

func TestHomeWithoutPostersRendersFallback(t *testing.T) {
	out := render(t, New("").Home(nil))
	assert.Contains(t, out, "hero-fallback")
	assert.Contains(t, out, "opacity: 0.30")
	assert.NotContains(t, out, "hero-layer")
	assert.Contains(t, out, "Nothing to show right now.")
}

func TestSearchBoxIsDebouncedThroughHtmx(t *testing.T) {
	out := render(t, New("").Movies(nil, nil, nil))
	assert.Contains(t, out, `hx-get="/partials/suggestions"`)
	assert.Contains(t, out, `hx-trigger="keyup changed delay:300ms, search"`)
	assert.Contains(t, out, `hx-target="#suggestions"`)
}

func TestSuggestionsPartial(t *testing.T) {
	r := New("https://img.example/t/p")
	year := 1979
	poster := "/alien.jpg"
	items := []suggestion.Suggestion{
		{ID: 348, Title: "Alien", Type: tmdb.MediaMovie, Year: &year, PosterPath: &poster, VoteAverage: 8.1},
		{ID: 9, Title: "Alien Nation", Type: tmdb.MediaTV},
	}

	out := render(t, r.Suggestions(" alien ", items))
	assert.Contains(t, out, `href="/movies/348"`)
	assert.Contains(t, out, `href="/tv/9"`)
	assert.Contains(t, out, "https://img.example/t/p/w92/alien.jpg")
	assert.Contains(t, out, "1979 · Movie · ★ 8.1")
	assert.Contains(t, out, "N/A · TV Show")
	assert.Contains(t, out, `href="/search?q=alien"`)
	assert.Contains(t, out, "See all results for &#34;alien&#34;")

	assert.Empty(t, render(t, r.Suggestions("a", items)))
	assert.Empty(t, render(t, r.Suggestions("alien", nil)))
}

func TestSearchStates(t *testing.T) {
	r := New("")
	assert.Contains(t, render(t, r.Search("", nil, false)), "Type at least two characters")
	assert.Contains(t, render(t, r.Search("zzzz", nil, true)), "Search is unavailable")
	assert.Contains(t, render(t, r.Search("zzzz", nil, false)), "No Results for &#34;zzzz&#34;")
	assert.Contains(t, render(t, r.Search("up", []tmdb.Title{{ID: 14160, MediaType: tmdb.MediaMovie, Title: "Up"}}, false)), `href="/movies/14160"`)
}

func TestMovieDetail(t *testing.T) {
	d := &tmdb.MovieDetail{
		Title:   tmdb.Title{ID: 603, MediaType: tmdb.MediaMovie, Title: "The Matrix", ReleaseDate: "1999-03-30", VoteAverage: 8.2, VoteCount: 100},
		Runtime: 136,
		IMDbID:  "tt0133093",
		Genres:  []tmdb.Genre{{ID: 28, Name: "Action"}},
		Videos:  []tmdb.Video{{Key: "abc", Site: "YouTube", Type: "Trailer", Name: "Trailer"}},
	}
	out := render(t, New("").MovieDetail(d))
	assert.Contains(t, out, "1999 · 2h 16m")
	assert.Contains(t, out, `href="/watch/movie/603"`)
	assert.Contains(t, out, "https://www.imdb.com/title/tt0133093/")
	assert.Contains(t, out, "https://www.youtube.com/embed/abc")
	assert.Contains(t, out, "Action")
}

func TestShowDetailLinksSeasons(t *testing.T) {
	d := &tmdb.ShowDetail{
		Title:           tmdb.Title{ID: 1399, MediaType: tmdb.MediaTV, Title: "Game of Thrones"},
		NumberOfSeasons: 1,
		Seasons: []tmdb.Season{
			{Name: "Specials", SeasonNumber: 0},
			{Name: "Season 1", SeasonNumber: 1, EpisodeCount: 10},
		},
	}
	out := render(t, New("").ShowDetail(d))
	assert.Contains(t, out, `href="/tv/1399/season/0"`)
	assert.Contains(t, out, `href="/tv/1399/season/1"`)
	assert.Contains(t, out, "10 episodes")
	assert.Contains(t, out, "Episodes</a>")
}

func TestShowDetailWithoutSeasons(t *testing.T) {
	d := &tmdb.ShowDetail{Title: tmdb.Title{ID: 99, MediaType: tmdb.MediaTV, Title: "Coming Soon"}}
	out := render(t, New("").ShowDetail(d))
	assert.Contains(t, out, "Coming Soon")
	assert.NotContains(t, out, "/tv/99/season/")
	assert.Equal(t, 1, firstSeason(nil))
}

func TestSeasonLinksEpisodesToPlayer(t *testing.T) {
	show := &tmdb.ShowDetail{Title: tmdb.Title{ID: 1399, Title: "Game of Thrones"}}
	season := &tmdb.SeasonDetail{ShowID: 1399, Name: "Season 1", SeasonNumber: 1, Episodes: []tmdb.Episode{
		{EpisodeNumber: 1, Name: "Winter Is Coming", Runtime: 62},
	}}
	out := render(t, New("").Season(show, season))
	assert.Contains(t, out, `href="/watch/tv/1399/1/1"`)
	assert.Contains(t, out, "1. Winter Is Coming")
	assert.Contains(t, out, "1h 2m")
}

func TestWatchPagesEmbedPlayer(t *testing.T) {
	r := New("")
	movie := render(t, r.WatchMovie(&tmdb.MovieDetail{Title: tmdb.Title{ID: 603, Title: "The Matrix"}}, "F59E0B", 95))
	assert.Contains(t, movie, `src="https://player.videasy.net/movie/603?color=F59E0B&amp;progress=95"`)
	assert.Contains(t, movie, `href="/movies/603"`)
	assert.NotContains(t, movie, `class="navbar"`)

	show := &tmdb.ShowDetail{Title: tmdb.Title{ID: 1399, Title: "Game of Thrones"}}
	season := &tmdb.SeasonDetail{SeasonNumber: 1}
	ep := tmdb.Episode{EpisodeNumber: 2, Name: "The Kingsroad"}
	out := render(t, r.WatchEpisode(show, season, ep, "F59E0B", 0))
	assert.Contains(t, out, "https://player.videasy.net/tv/1399/1/2?color=F59E0B&amp;nextEpisode=true")
	assert.Contains(t, out, "S01E02 • The Kingsroad")
	assert.Contains(t, out, `href="/tv/1399/season/1"`)
}

func TestErrorPage(t *testing.T) {
	out := render(t, New("").Error(404, "Not found"))
	assert.Contains(t, out, "<h1>404</h1>")
	assert.Contains(t, out, "Not found")
}
