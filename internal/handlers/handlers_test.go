package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/handsomefox/flixora/internal/store"
	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
)

type fakeCatalog struct {
	titles    []tmdb.Title
	search    []tmdb.Title
	searchErr error
	listErr   error
	queries   []string
	mu        sync.Mutex
}

func (f *fakeCatalog) list(context.Context) ([]tmdb.Title, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.titles, nil
}

func (f *fakeCatalog) TrendingMovies(ctx context.Context) ([]tmdb.Title, error)    { return f.list(ctx) }
func (f *fakeCatalog) PopularMovies(ctx context.Context) ([]tmdb.Title, error)     { return f.list(ctx) }
func (f *fakeCatalog) TopRatedMovies(ctx context.Context) ([]tmdb.Title, error)    { return f.list(ctx) }
func (f *fakeCatalog) UpcomingMovies(ctx context.Context) ([]tmdb.Title, error)    { return f.list(ctx) }
func (f *fakeCatalog) PopularSeries(ctx context.Context) ([]tmdb.Title, error)     { return f.list(ctx) }
func (f *fakeCatalog) TopRatedSeries(ctx context.Context) ([]tmdb.Title, error)    { return f.list(ctx) }
func (f *fakeCatalog) AiringTodaySeries(ctx context.Context) ([]tmdb.Title, error) { return f.list(ctx) }

func (f *fakeCatalog) SearchMulti(_ context.Context, query string) ([]tmdb.Title, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.search, f.searchErr
}

func (f *fakeCatalog) MovieDetails(_ context.Context, id int64) (*tmdb.MovieDetail, error) {
	if id != 603 {
		return nil, &tmdb.StatusError{Status: http.StatusNotFound}
	}
	return &tmdb.MovieDetail{Title: tmdb.Title{ID: 603, MediaType: tmdb.MediaMovie, Title: "The Matrix", BackdropPath: "/bd.jpg"}}, nil
}

func (f *fakeCatalog) ShowDetails(_ context.Context, id int64) (*tmdb.ShowDetail, error) {
	return &tmdb.ShowDetail{Title: tmdb.Title{ID: id, MediaType: tmdb.MediaTV, Title: "Game of Thrones"}}, nil
}

func (f *fakeCatalog) SeasonDetails(_ context.Context, id int64, season int) (*tmdb.SeasonDetail, error) {
	return &tmdb.SeasonDetail{ShowID: id, SeasonNumber: season, Name: "Season 1", Episodes: []tmdb.Episode{
		{EpisodeNumber: 1, Name: "Winter Is Coming"},
		{EpisodeNumber: 2, Name: "The Kingsroad"},
	}}, nil
}

type fakeProgress struct {
	mu    sync.Mutex
	items map[string]store.Progress
}

func (f *fakeProgress) SaveProgress(_ context.Context, p *store.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[string]store.Progress{}
	}
	row := *p
	row.UpdatedAt = "2026-01-01T00:00:00.000000000Z"
	f.items[p.Key] = row
	return nil
}

func (f *fakeProgress) GetProgress(_ context.Context, key string) (store.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[key]
	if !ok {
		return store.Progress{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProgress) ListRecent(_ context.Context, limit int) ([]store.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.Progress, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProgress) DeleteProgress(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[key]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, key)
	return nil
}

func newTestServer(t *testing.T, catalog *fakeCatalog, progress *fakeProgress, opts ...func(*Config)) *httptest.Server {
	t.Helper()
	cfg := &Config{Catalog: catalog, Progress: progress, SearchRate: rate.Inf}
	for _, opt := range opts {
		opt(cfg)
	}
	h, err := New(t.Context(), cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(t.Context(), &Config{Progress: &fakeProgress{}})
	require.Error(t, err)
	_, err = New(t.Context(), &Config{Catalog: &fakeCatalog{}})
	require.Error(t, err)
}

func TestSuggestionsShortQueryIsEmptyWithoutLookup(t *testing.T) {
	catalog := &fakeCatalog{}
	srv := newTestServer(t, catalog, &fakeProgress{})

	for _, q := range []string{"", "a", "%20a%20"} {
		resp, body := get(t, srv.URL+"/api/search/suggestions?q="+q)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, body)
	}
	assert.Empty(t, catalog.queries)
}

func TestSuggestionsProjectFirstFive(t *testing.T) {
	catalog := &fakeCatalog{}
	for i := range 7 {
		catalog.search = append(catalog.search, tmdb.Title{ID: int64(i + 1), MediaType: tmdb.MediaMovie, Title: "Alien", ReleaseDate: "1979-05-25", PosterPath: "/a.jpg"})
	}
	catalog.search[1].MediaType = tmdb.MediaTV
	catalog.search[1].ReleaseDate = ""
	catalog.search[1].PosterPath = ""
	srv := newTestServer(t, catalog, &fakeProgress{})

	resp, body := get(t, srv.URL+"/api/search/suggestions?q=+alien+")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []suggestion.Suggestion
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, suggestion.Limit)
	assert.Equal(t, []string{"alien"}, catalog.queries)
	require.NotNil(t, got[0].Year)
	assert.Equal(t, 1979, *got[0].Year)
	assert.Equal(t, "tv", got[1].Type)
	assert.Nil(t, got[1].Year)
	assert.Nil(t, got[1].PosterPath)
	assert.Contains(t, body, `"poster_path":null`)
}

func TestSuggestionsFailureIsEmpty(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{searchErr: errors.New("tmdb down")}, &fakeProgress{})
	resp, body := get(t, srv.URL+"/api/search/suggestions?q=dune")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
}

func TestSearchRequiresQuery(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeProgress{})
	resp, body := get(t, srv.URL+"/api/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Query parameter is required"}`, body)
}

func TestSearchUpstreamFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{searchErr: errors.New("connection reset")}, &fakeProgress{})
	resp, body := get(t, srv.URL+"/api/search?q=dune")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch search results from TMDB","details":"connection reset"}`, body)
}

func TestListEndpoints(t *testing.T) {
	catalog := &fakeCatalog{titles: []tmdb.Title{{ID: 1, MediaType: tmdb.MediaMovie, Title: "Alien"}}}
	srv := newTestServer(t, catalog, &fakeProgress{})

	for _, path := range []string{
		"/api/trending", "/api/movies/popular", "/api/movies/top-rated", "/api/movies/upcoming",
		"/api/tv/popular", "/api/tv/top-rated", "/api/tv/airing-today",
	} {
		resp, body := get(t, srv.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, `"title":"Alien"`, path)
	}

	catalog.listErr = errors.New("boom")
	resp, _ := get(t, srv.URL+"/api/trending")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestMovieDetailsNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeProgress{})

	resp, _ := get(t, srv.URL+"/api/movies/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/api/movies/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, body := get(t, srv.URL+"/api/movies/603")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "The Matrix")
}

func TestWatchPagesCarryFrameHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeProgress{})

	for _, path := range []string{"/watch/movie/603", "/watch/tv/1399/1/2"} {
		resp, body := get(t, srv.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"), path)
		assert.Equal(t, "frame-src 'self' https://player.videasy.net https://www.youtube.com;", resp.Header.Get("Content-Security-Policy"), path)
		assert.Contains(t, body, "https://player.videasy.net/", path)
	}

	resp, _ := get(t, srv.URL+"/movies/603")
	assert.Empty(t, resp.Header.Get("X-Frame-Options"))

	resp, _ = get(t, srv.URL+"/watch/tv/1399/1/9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProgressRoundTripResumesPlayer(t *testing.T) {
	progress := &fakeProgress{}
	srv := newTestServer(t, &fakeCatalog{}, progress)

	resp, _ := get(t, srv.URL+"/api/progress/tv_1399_1_2")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := `{"id":1399,"type":"tv","progress":10,"timestamp":321.7,"duration":3200,"season":1,"episode":2,"title":"Game of Thrones"}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/progress", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	put, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	put.Body.Close()
	require.Equal(t, http.StatusOK, put.StatusCode)

	resp, got := get(t, srv.URL+"/api/progress/tv_1399_1_2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, got, `"timestamp":321.7`)
	assert.Contains(t, got, `"season":1`)
	assert.Contains(t, got, `"title":"Game of Thrones"`)

	_, watch := get(t, srv.URL+"/api/watch/tv/1399/1/2")
	assert.Contains(t, watch, `"start_at":321`)
	assert.Contains(t, watch, `progress=321`)
	assert.Contains(t, watch, `"episode_name":"The Kingsroad"`)

	_, recent := get(t, srv.URL+"/api/progress?limit=5")
	assert.Contains(t, recent, `"key":"tv_1399_1_2"`)
}

func TestProgressDelete(t *testing.T) {
	progress := &fakeProgress{}
	require.NoError(t, progress.SaveProgress(t.Context(), &store.Progress{Key: "movie_603", TMDBID: 603, MediaType: "movie", Position: 90}))
	srv := newTestServer(t, &fakeCatalog{}, progress)

	del := func() int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/progress/movie_603", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusNoContent, del())
	assert.Equal(t, http.StatusNotFound, del())

	resp, _ := get(t, srv.URL+"/api/progress/movie_603")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, watch := get(t, srv.URL+"/api/watch/movie/603")
	assert.Contains(t, watch, `"start_at":0`)
}

func TestProgressRejectsBadMessages(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeProgress{})

	for _, body := range []string{
		`{"id":1399,"type":"tv","progress":10}`,
		`{"id":0,"type":"movie"}`,
		`{"id":1,"type":"movie","unknown":true}`,
		`not json`,
	} {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/progress", strings.NewReader(body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestSearchIsRateLimited(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{}, &fakeProgress{}, func(c *Config) {
		c.SearchRate = rate.Limit(0.0001)
		c.SearchBurst = 2
	})

	for range 2 {
		resp, _ := get(t, srv.URL+"/api/search/suggestions?q=dune")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body := get(t, srv.URL+"/api/search/suggestions?q=dune")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"too many requests"}`, body)

	resp, _ = get(t, srv.URL+"/api/trending")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "lists are not limited")
}

func TestPagesRender(t *testing.T) {
	catalog := &fakeCatalog{
		titles: []tmdb.Title{{ID: 1, MediaType: tmdb.MediaMovie, Title: "Alien", BackdropPath: "/a.jpg"}},
		search: []tmdb.Title{{ID: 2, MediaType: tmdb.MediaTV, Title: "Alien Nation"}},
	}
	srv := newTestServer(t, catalog, &fakeProgress{})

	for path, want := range map[string]string{
		"/":                           "Trending This Week",
		"/movies":                     "Upcoming Movies",
		"/tv":                         "Airing Today",
		"/search?q=alien":             "Alien Nation",
		"/partials/suggestions?q=ali": `href="/tv/2"`,
		"/movies/603":                 "The Matrix",
		"/tv/1399":                    "Game of Thrones",
		"/tv/1399/season/1":           "Winter Is Coming",
	} {
		resp, body := get(t, srv.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html", path)
		assert.Contains(t, body, want, path)
	}

	resp, body := get(t, srv.URL+"/movies/42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "<h1>404</h1>")

	resp, _ = get(t, srv.URL+"/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
