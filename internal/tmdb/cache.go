package tmdb

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// sharedFetchTimeout bounds an upstream call that several requests wait on.
const sharedFetchTimeout = 30 * time.Second

// API is the catalog surface the rest of the app consumes. *Client and
// *Cached both implement it.
type API interface {
	TrendingMovies(ctx context.Context) ([]Title, error)
	PopularMovies(ctx context.Context) ([]Title, error)
	TopRatedMovies(ctx context.Context) ([]Title, error)
	UpcomingMovies(ctx context.Context) ([]Title, error)
	PopularSeries(ctx context.Context) ([]Title, error)
	TopRatedSeries(ctx context.Context) ([]Title, error)
	AiringTodaySeries(ctx context.Context) ([]Title, error)
	SearchMulti(ctx context.Context, query string) ([]Title, error)
	MovieDetails(ctx context.Context, id int64) (*MovieDetail, error)
	ShowDetails(ctx context.Context, id int64) (*ShowDetail, error)
	SeasonDetails(ctx context.Context, id int64, season int) (*SeasonDetail, error)
}

var (
	_ API = (*Client)(nil)
	_ API = (*Cached)(nil)
)

// Cached keeps list and detail responses for a while and collapses concurrent
// identical requests into one upstream call. Search passes straight through.
type Cached struct {
	API

	entries *expirable.LRU[string, any]
	group   singleflight.Group
}

func NewCached(api API, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = 256
	}
	return &Cached{
		API:     api,
		entries: expirable.NewLRU[string, any](size, nil, ttl),
	}
}

func (c *Cached) TrendingMovies(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "trending:movie", c.API.TrendingMovies)
}

func (c *Cached) PopularMovies(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "popular:movie", c.API.PopularMovies)
}

func (c *Cached) TopRatedMovies(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "top_rated:movie", c.API.TopRatedMovies)
}

func (c *Cached) UpcomingMovies(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "upcoming:movie", c.API.UpcomingMovies)
}

func (c *Cached) PopularSeries(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "popular:tv", c.API.PopularSeries)
}

func (c *Cached) TopRatedSeries(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "top_rated:tv", c.API.TopRatedSeries)
}

func (c *Cached) AiringTodaySeries(ctx context.Context) ([]Title, error) {
	return cachedList(ctx, c, "airing_today:tv", c.API.AiringTodaySeries)
}

func (c *Cached) MovieDetails(ctx context.Context, id int64) (*MovieDetail, error) {
	return cached(ctx, c, fmt.Sprintf("movie:%d", id), func(ctx context.Context) (*MovieDetail, error) {
		return c.API.MovieDetails(ctx, id)
	})
}

func (c *Cached) ShowDetails(ctx context.Context, id int64) (*ShowDetail, error) {
	return cached(ctx, c, fmt.Sprintf("tv:%d", id), func(ctx context.Context) (*ShowDetail, error) {
		return c.API.ShowDetails(ctx, id)
	})
}

func (c *Cached) SeasonDetails(ctx context.Context, id int64, season int) (*SeasonDetail, error) {
	return cached(ctx, c, fmt.Sprintf("tv:%d:season:%d", id, season), func(ctx context.Context) (*SeasonDetail, error) {
		return c.API.SeasonDetails(ctx, id, season)
	})
}

func cachedList(ctx context.Context, c *Cached, key string, fetch func(context.Context) ([]Title, error)) ([]Title, error) {
	items, err := cached(ctx, c, key, fetch)
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func cached[T any](ctx context.Context, c *Cached, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.entries.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	// The shared call outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		val, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, val)
		return val, nil
	})
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
