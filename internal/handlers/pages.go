package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/player"
	"github.com/handsomefox/flixora/internal/tmdb"
)

// Browse pages render empty sections when a TMDB list fails.
func (h *Handler) getHomePage(w http.ResponseWriter, r *http.Request) error {
	trending, err := h.catalog.TrendingMovies(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "trending failed", logger.Error(err))
	}
	writeHTML(w, http.StatusOK, h.views.Home(trending))
	return nil
}

func (h *Handler) getMoviesPage(w http.ResponseWriter, r *http.Request) error {
	lists := h.lists(r, h.catalog.PopularMovies, h.catalog.TopRatedMovies, h.catalog.UpcomingMovies)
	writeHTML(w, http.StatusOK, h.views.Movies(lists[0], lists[1], lists[2]))
	return nil
}

func (h *Handler) getTVPage(w http.ResponseWriter, r *http.Request) error {
	lists := h.lists(r, h.catalog.PopularSeries, h.catalog.TopRatedSeries, h.catalog.AiringTodaySeries)
	writeHTML(w, http.StatusOK, h.views.TV(lists[0], lists[1], lists[2]))
	return nil
}

// lists fetches several title lists concurrently. A failed list comes back
// empty.
func (h *Handler) lists(r *http.Request, fetches ...func(context.Context) ([]tmdb.Title, error)) [][]tmdb.Title {
	out := make([][]tmdb.Title, len(fetches))
	p := pool.New().WithContext(r.Context())
	for i, fetch := range fetches {
		p.Go(func(ctx context.Context) error {
			items, err := fetch(ctx)
			if err != nil {
				slog.WarnContext(ctx, "list fetch failed", slog.String("path", r.URL.Path), logger.Error(err))
				return nil
			}
			out[i] = items
			return nil
		})
	}
	_ = p.Wait()
	return out
}

func (h *Handler) getSearchPage(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeHTML(w, http.StatusOK, h.views.Search("", nil, false))
		return nil
	}
	results, err := h.catalog.SearchMulti(r.Context(), query)
	if err != nil {
		slog.WarnContext(r.Context(), "search failed", slog.String("query", query), logger.Error(err))
	}
	writeHTML(w, http.StatusOK, h.views.Search(query, results, err != nil))
	return nil
}

func (h *Handler) getSuggestionsPartial(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query().Get("q")
	writeHTML(w, http.StatusOK, h.views.Suggestions(query, h.suggest(r.Context(), query)))
	return nil
}

func (h *Handler) getMoviePage(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return notFound("Movie not found.")
	}
	detail, err := h.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		return upstream("Could not load this movie", err)
	}
	writeHTML(w, http.StatusOK, h.views.MovieDetail(detail))
	return nil
}

func (h *Handler) getShowPage(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return notFound("TV show not found.")
	}
	detail, err := h.catalog.ShowDetails(r.Context(), id)
	if err != nil {
		return upstream("Could not load this TV show", err)
	}
	writeHTML(w, http.StatusOK, h.views.ShowDetail(detail))
	return nil
}

func (h *Handler) getSeasonPage(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return notFound("TV show not found.")
	}
	number, err := numberParam(r, "season")
	if err != nil {
		return notFound("Season not found.")
	}

	var (
		show   *tmdb.ShowDetail
		season *tmdb.SeasonDetail
	)
	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		var err error
		if show, err = h.catalog.ShowDetails(ctx, id); err != nil {
			return upstream("Could not load this TV show", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if season, err = h.catalog.SeasonDetails(ctx, id, number); err != nil {
			return upstream("Could not load this season", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	writeHTML(w, http.StatusOK, h.views.Season(show, season))
	return nil
}

func (h *Handler) getWatchMoviePage(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return notFound("Movie not found.")
	}
	detail, err := h.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		return upstream("Could not load this movie", err)
	}
	start := h.resumeAt(r.Context(), player.ProgressKey(player.MediaMovie, id, 0, 0))
	writeHTML(w, http.StatusOK, h.views.WatchMovie(detail, h.playerColor, start))
	return nil
}

func (h *Handler) getWatchEpisodePage(w http.ResponseWriter, r *http.Request) error {
	show, season, ep, err := h.episode(r)
	if err != nil {
		return err
	}
	start := h.resumeAt(r.Context(), player.ProgressKey(player.MediaTV, show.ID, season.SeasonNumber, ep.EpisodeNumber))
	writeHTML(w, http.StatusOK, h.views.WatchEpisode(show, season, ep, h.playerColor, start))
	return nil
}
