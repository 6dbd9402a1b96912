// Package handlers wires HTTP routing, the JSON API and the HTML pages.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/handsomefox/flixora/internal/player"
	"github.com/handsomefox/flixora/internal/store"
	"github.com/handsomefox/flixora/internal/tmdb"
	"github.com/handsomefox/flixora/internal/views"
)

// ProgressStore keeps the player's resume positions.
type ProgressStore interface {
	SaveProgress(ctx context.Context, p *store.Progress) error
	GetProgress(ctx context.Context, key string) (store.Progress, error)
	ListRecent(ctx context.Context, limit int) ([]store.Progress, error)
	DeleteProgress(ctx context.Context, key string) error
}

type Handler struct {
	catalog     tmdb.API
	progress    ProgressStore
	views       views.Renderer
	playerColor string
	limiter     *IPRateLimiter
	origins     []string
}

type Config struct {
	Catalog   tmdb.API
	Progress  ProgressStore
	ImageBase string
	// PlayerColor is the hex accent passed to the embedded player.
	PlayerColor string
	// SearchRate and SearchBurst bound search requests per client IP.
	SearchRate  rate.Limit
	SearchBurst int
	// AllowedOrigins for the JSON API; empty allows any origin.
	AllowedOrigins []string
}

func New(ctx context.Context, cfg *Config) (*Handler, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg.Progress == nil {
		return nil, errors.New("progress store is required")
	}

	color := strings.TrimPrefix(strings.TrimSpace(cfg.PlayerColor), "#")
	if color == "" {
		color = player.DefaultColor
	}
	limit, burst := cfg.SearchRate, cfg.SearchBurst
	if limit <= 0 {
		limit = rate.Every(100 * time.Millisecond)
	}
	if burst <= 0 {
		burst = 20
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Handler{
		catalog:     cfg.Catalog,
		progress:    cfg.Progress,
		views:       views.New(cfg.ImageBase),
		playerColor: color,
		limiter:     NewIPRateLimiter(ctx, limit, burst),
		origins:     origins,
	}, nil
}

// RegisterRoutes mounts the JSON API under /api and the HTML pages at the
// root of r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", h.registerAPI)

	r.Method(http.MethodGet, "/", AdaptPage(h.views, h.getHomePage))
	r.Method(http.MethodGet, "/movies", AdaptPage(h.views, h.getMoviesPage))
	r.Method(http.MethodGet, "/movies/{id}", AdaptPage(h.views, h.getMoviePage))
	r.Method(http.MethodGet, "/tv", AdaptPage(h.views, h.getTVPage))
	r.Method(http.MethodGet, "/tv/{id}", AdaptPage(h.views, h.getShowPage))
	r.Method(http.MethodGet, "/tv/{id}/season/{season}", AdaptPage(h.views, h.getSeasonPage))

	r.Group(func(r chi.Router) {
		r.Use(h.limiter.Middleware)
		r.Method(http.MethodGet, "/search", AdaptPage(h.views, h.getSearchPage))
		r.Method(http.MethodGet, "/partials/suggestions", AdaptPage(h.views, h.getSuggestionsPartial))
	})

	r.Route("/watch", func(r chi.Router) {
		r.Use(FrameHeaders)
		r.Method(http.MethodGet, "/movie/{id}", AdaptPage(h.views, h.getWatchMoviePage))
		r.Method(http.MethodGet, "/tv/{id}/{season}/{episode}", AdaptPage(h.views, h.getWatchEpisodePage))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, http.StatusNotFound, h.views.Error(http.StatusNotFound, "This page could not be found."))
	})
}

func (h *Handler) registerAPI(r chi.Router) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Method(http.MethodGet, "/trending", Adapt(h.getTrending))
	r.Method(http.MethodGet, "/movies/popular", Adapt(h.getList(h.catalog.PopularMovies)))
	r.Method(http.MethodGet, "/movies/top-rated", Adapt(h.getList(h.catalog.TopRatedMovies)))
	r.Method(http.MethodGet, "/movies/upcoming", Adapt(h.getList(h.catalog.UpcomingMovies)))
	r.Method(http.MethodGet, "/movies/{id}", Adapt(h.getMovie))
	r.Method(http.MethodGet, "/tv/popular", Adapt(h.getList(h.catalog.PopularSeries)))
	r.Method(http.MethodGet, "/tv/top-rated", Adapt(h.getList(h.catalog.TopRatedSeries)))
	r.Method(http.MethodGet, "/tv/airing-today", Adapt(h.getList(h.catalog.AiringTodaySeries)))
	r.Method(http.MethodGet, "/tv/{id}", Adapt(h.getShow))
	r.Method(http.MethodGet, "/tv/{id}/season/{season}", Adapt(h.getSeason))

	r.Group(func(r chi.Router) {
		r.Use(h.limiter.Middleware)
		r.Method(http.MethodGet, "/search", Adapt(h.getSearch))
		r.Method(http.MethodGet, "/search/suggestions", Adapt(h.getSuggestions))
	})

	r.Method(http.MethodGet, "/watch/movie/{id}", Adapt(h.getWatchMovie))
	r.Method(http.MethodGet, "/watch/tv/{id}/{season}/{episode}", Adapt(h.getWatchEpisode))

	r.Method(http.MethodPut, "/progress", Adapt(h.putProgress))
	r.Method(http.MethodGet, "/progress", Adapt(h.getRecentProgress))
	r.Method(http.MethodGet, "/progress/{key}", Adapt(h.getProgress))
	r.Method(http.MethodDelete, "/progress/{key}", Adapt(h.deleteProgress))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "not found"})
	})
}
