package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/player"
	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
)

type listResponse struct {
	Results []tmdb.Title `json:"results"`
}

type watchResponse struct {
	TMDBID      int64   `json:"tmdb_id"`
	MediaType   string  `json:"media_type"`
	Title       string  `json:"title"`
	Season      *int    `json:"season,omitempty"`
	Episode     *int    `json:"episode,omitempty"`
	EpisodeName string  `json:"episode_name,omitempty"`
	ProgressKey string  `json:"progress_key"`
	StartAt     int     `json:"start_at"`
	EmbedURL    string  `json:"embed_url"`
	Backdrop    *string `json:"backdrop_path"`
}

func (h *Handler) getTrending(w http.ResponseWriter, r *http.Request) error {
	return h.getList(h.catalog.TrendingMovies)(w, r)
}

func (h *Handler) getList(fetch func(context.Context) ([]tmdb.Title, error)) HandlerWithErr {
	return func(w http.ResponseWriter, r *http.Request) error {
		items, err := fetch(r.Context())
		if err != nil {
			return upstream("Failed to fetch titles from TMDB", err)
		}
		if items == nil {
			items = []tmdb.Title{}
		}
		writeJSON(w, http.StatusOK, &listResponse{Results: items})
		return nil
	}
}

func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) error {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		return badRequest("Query parameter is required")
	}
	items, err := h.catalog.SearchMulti(r.Context(), query)
	if err != nil {
		return &Error{Status: http.StatusBadGateway, Message: "Failed to fetch search results from TMDB", Details: err.Error()}
	}
	if items == nil {
		items = []tmdb.Title{}
	}
	writeJSON(w, http.StatusOK, &listResponse{Results: items})
	return nil
}

// getSuggestions never fails: short queries and upstream errors both yield
// an empty list.
func (h *Handler) getSuggestions(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, h.suggest(r.Context(), r.URL.Query().Get("q")))
	return nil
}

func (h *Handler) suggest(ctx context.Context, query string) []suggestion.Suggestion {
	if !suggestion.Eligible(query) {
		return []suggestion.Suggestion{}
	}
	items, err := h.catalog.SearchMulti(ctx, strings.TrimSpace(query))
	if err != nil {
		slog.WarnContext(ctx, "suggestions lookup failed", slog.String("query", query), logger.Error(err))
		return []suggestion.Suggestion{}
	}
	return suggestion.FromTitles(items, suggestion.Limit)
}

func (h *Handler) getMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	detail, err := h.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		return upstream("Failed to fetch movie", err)
	}
	writeJSON(w, http.StatusOK, detail)
	return nil
}

func (h *Handler) getShow(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	detail, err := h.catalog.ShowDetails(r.Context(), id)
	if err != nil {
		return upstream("Failed to fetch TV show", err)
	}
	writeJSON(w, http.StatusOK, detail)
	return nil
}

func (h *Handler) getSeason(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	season, err := numberParam(r, "season")
	if err != nil {
		return badRequest(err.Error())
	}
	detail, err := h.catalog.SeasonDetails(r.Context(), id, season)
	if err != nil {
		return upstream("Failed to fetch season", err)
	}
	writeJSON(w, http.StatusOK, detail)
	return nil
}

func (h *Handler) getWatchMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return badRequest(err.Error())
	}
	detail, err := h.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		return upstream("Failed to fetch movie", err)
	}
	key := player.ProgressKey(player.MediaMovie, id, 0, 0)
	start := h.resumeAt(r.Context(), key)
	writeJSON(w, http.StatusOK, &watchResponse{
		TMDBID:      id,
		MediaType:   player.MediaMovie,
		Title:       detail.Title.Title,
		ProgressKey: key,
		StartAt:     start,
		EmbedURL:    player.Movie(id, h.playerColor, start),
		Backdrop:    optionalString(detail.BackdropPath),
	})
	return nil
}

func (h *Handler) getWatchEpisode(w http.ResponseWriter, r *http.Request) error {
	show, season, ep, err := h.episode(r)
	if err != nil {
		return err
	}
	key := player.ProgressKey(player.MediaTV, show.ID, season.SeasonNumber, ep.EpisodeNumber)
	start := h.resumeAt(r.Context(), key)
	writeJSON(w, http.StatusOK, &watchResponse{
		TMDBID:      show.ID,
		MediaType:   player.MediaTV,
		Title:       show.Title.Title,
		Season:      &season.SeasonNumber,
		Episode:     &ep.EpisodeNumber,
		EpisodeName: ep.Name,
		ProgressKey: key,
		StartAt:     start,
		EmbedURL:    player.Episode(show.ID, season.SeasonNumber, ep.EpisodeNumber, h.playerColor, start),
		Backdrop:    optionalString(show.BackdropPath),
	})
	return nil
}

// episode resolves the show, season and episode named by the route.
func (h *Handler) episode(r *http.Request) (*tmdb.ShowDetail, *tmdb.SeasonDetail, tmdb.Episode, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, nil, tmdb.Episode{}, badRequest(err.Error())
	}
	seasonNumber, err := numberParam(r, "season")
	if err != nil {
		return nil, nil, tmdb.Episode{}, badRequest(err.Error())
	}
	episodeNumber, err := numberParam(r, "episode")
	if err != nil {
		return nil, nil, tmdb.Episode{}, badRequest(err.Error())
	}

	var (
		show   *tmdb.ShowDetail
		season *tmdb.SeasonDetail
	)
	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		var err error
		if show, err = h.catalog.ShowDetails(ctx, id); err != nil {
			return upstream("Failed to fetch TV show", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if season, err = h.catalog.SeasonDetails(ctx, id, seasonNumber); err != nil {
			return upstream("Failed to fetch season", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, tmdb.Episode{}, err
	}
	ep, ok := season.Episode(episodeNumber)
	if !ok {
		return nil, nil, tmdb.Episode{}, notFound("Episode not found")
	}
	return show, season, ep, nil
}

func optionalString(val string) *string {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	return &val
}
