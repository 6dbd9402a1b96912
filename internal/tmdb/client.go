// Package tmdb wraps the TMDB API for browsing lists, searching and fetching details.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultAttempts = 3
	defaultDelay    = 250 * time.Millisecond
)

const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

type Client struct {
	apiKey    string
	readToken string
	baseURL   string
	http      *http.Client
	attempts  uint
	delay     time.Duration
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets how many times a transient failure is attempted and the
// initial backoff between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts == 0 {
			attempts = 1
		}
		c.attempts = attempts
		c.delay = delay
	}
}

// StatusError is returned when TMDB answers with a non-success status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb: status %d", e.Status)
	}
	return fmt.Sprintf("tmdb: status %d: %s", e.Status, e.Body)
}

func New(apiKey, readToken string, opts ...Option) *Client {
	if strings.TrimSpace(readToken) == "" && looksLikeJWT(apiKey) {
		readToken = apiKey
		apiKey = ""
	}
	c := &Client{
		apiKey:    apiKey,
		readToken: readToken,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) TrendingMovies(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/trending/movie/week", MediaMovie)
}

func (c *Client) PopularMovies(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/movie/popular", MediaMovie)
}

func (c *Client) TopRatedMovies(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/movie/top_rated", MediaMovie)
}

func (c *Client) UpcomingMovies(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/movie/upcoming", MediaMovie)
}

func (c *Client) PopularSeries(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/tv/popular", MediaTV)
}

func (c *Client) TopRatedSeries(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/tv/top_rated", MediaTV)
}

func (c *Client) AiringTodaySeries(ctx context.Context) ([]Title, error) {
	return c.list(ctx, "/tv/airing_today", MediaTV)
}

// SearchMulti runs a multi search and keeps only movies and series, in the
// order TMDB ranked them.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]Title, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("include_adult", "false")
	values.Set("page", "1")

	var payload pageResponse
	if err := c.getJSON(ctx, "/search/multi", values, &payload); err != nil {
		return nil, err
	}
	return payload.titles(""), nil
}

func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetail, error) {
	if id <= 0 {
		return nil, errors.New("invalid movie id")
	}
	values := url.Values{}
	values.Set("append_to_response", "credits,videos")

	var payload movieDetailResponse
	if err := c.getJSON(ctx, "/movie/"+strconv.FormatInt(id, 10), values, &payload); err != nil {
		return nil, err
	}
	return payload.detail(), nil
}

func (c *Client) ShowDetails(ctx context.Context, id int64) (*ShowDetail, error) {
	if id <= 0 {
		return nil, errors.New("invalid series id")
	}
	values := url.Values{}
	values.Set("append_to_response", "credits,videos")

	var payload showDetailResponse
	if err := c.getJSON(ctx, "/tv/"+strconv.FormatInt(id, 10), values, &payload); err != nil {
		return nil, err
	}
	return payload.detail(), nil
}

func (c *Client) SeasonDetails(ctx context.Context, id int64, season int) (*SeasonDetail, error) {
	if id <= 0 || season < 0 {
		return nil, errors.New("invalid season")
	}
	path := fmt.Sprintf("/tv/%d/season/%d", id, season)

	var payload SeasonDetail
	if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	payload.ShowID = id
	return &payload, nil
}

func (c *Client) list(ctx context.Context, path, mediaType string) ([]Title, error) {
	var payload pageResponse
	if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return payload.titles(mediaType), nil
}

func (c *Client) getJSON(ctx context.Context, path string, values url.Values, dst any) error {
	if c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	return retry.Do(
		func() error { return c.fetch(ctx, endpoint, dst) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
	)
}

func (c *Client) fetch(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	c.applyAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(statusErr, cerr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return resp.Body.Close()
}

// transient reports whether a failed request is worth repeating: rate limits,
// server errors and transport failures, but never a cancelled caller.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == http.StatusTooManyRequests || statusErr.Status >= 500
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func (c *Client) applyAuth(req *http.Request) {
	if strings.TrimSpace(c.readToken) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.readToken))
}

func looksLikeJWT(token string) bool {
	parts := strings.Split(strings.TrimSpace(token), ".")
	return len(parts) == 3 && len(token) > 80
}
