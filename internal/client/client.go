// Package client talks to the Flixora server API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/handsomefox/flixora/internal/suggestion"
	"github.com/handsomefox/flixora/internal/tmdb"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for non-2xx answers.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server: status %d", e.Status)
	}
	return fmt.Sprintf("server: status %d: %s", e.Status, e.Message)
}

// Suggest looks up search suggestions. Queries the server considers too
// short come back as an empty list.
func (c *Client) Suggest(ctx context.Context, query string) ([]suggestion.Suggestion, error) {
	values := url.Values{}
	values.Set("q", query)

	var out []suggestion.Suggestion
	if err := c.get(ctx, "/api/search/suggestions", values, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type listResponse struct {
	Results []tmdb.Title `json:"results"`
}

// Trending returns this week's trending movies. Transient failures are
// retried once since it runs at startup, when the server may still be
// coming up.
func (c *Client) Trending(ctx context.Context) ([]tmdb.Title, error) {
	var out listResponse
	err := retry.Do(
		func() error { return c.get(ctx, "/api/trending", nil, &out) },
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Status >= http.StatusInternalServerError
			}
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
	)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dst any) error {
	endpoint := c.baseURL + path
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(statusErr, cerr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return fmt.Errorf("decode server response: %w", err)
	}
	return resp.Body.Close()
}

// errorMessage pulls the "error" field out of an error body, falling back
// to the raw text.
func errorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 512))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
