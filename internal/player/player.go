// Package player builds videasy embed URLs and the keys its progress
// events are stored under.
package player

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	Origin       = "https://player.videasy.net"
	DefaultColor = "F59E0B"

	MediaMovie = "movie"
	MediaTV    = "tv"
)

// Options describe one player embed. Season and Episode only apply to
// series, as do the three episode toggles.
type Options struct {
	MediaType string
	TMDBID    int64
	Season    int
	Episode   int

	Color     string
	StartTime int

	NextEpisode         bool
	EpisodeSelector     bool
	AutoplayNextEpisode bool
}

// EmbedURL returns the iframe src for opts. Query parameters keep the order
// the player documents: color, progress, then the episode toggles.
func EmbedURL(opts Options) string {
	var b strings.Builder
	b.WriteString(Origin)
	b.WriteString("/")
	b.WriteString(opts.MediaType)
	b.WriteString("/")
	b.WriteString(strconv.FormatInt(opts.TMDBID, 10))
	if opts.MediaType == MediaTV && opts.Season > 0 && opts.Episode > 0 {
		fmt.Fprintf(&b, "/%d/%d", opts.Season, opts.Episode)
	}

	color := strings.TrimPrefix(strings.TrimSpace(opts.Color), "#")
	if color == "" {
		color = DefaultColor
	}
	params := []string{"color=" + url.QueryEscape(color)}
	if opts.StartTime > 0 {
		params = append(params, "progress="+strconv.Itoa(opts.StartTime))
	}
	if opts.MediaType == MediaTV {
		if opts.NextEpisode {
			params = append(params, "nextEpisode=true")
		}
		if opts.EpisodeSelector {
			params = append(params, "episodeSelector=true")
		}
		if opts.AutoplayNextEpisode {
			params = append(params, "autoplayNextEpisode=true")
		}
	}
	b.WriteString("?")
	b.WriteString(strings.Join(params, "&"))
	return b.String()
}

// Movie is the embed used by the movie watch page.
func Movie(id int64, color string, startTime int) string {
	return EmbedURL(Options{MediaType: MediaMovie, TMDBID: id, Color: color, StartTime: startTime})
}

// Episode is the embed used by the episode watch page, with every episode
// control switched on.
func Episode(id int64, season, episode int, color string, startTime int) string {
	return EmbedURL(Options{
		MediaType:           MediaTV,
		TMDBID:              id,
		Season:              season,
		Episode:             episode,
		Color:               color,
		StartTime:           startTime,
		NextEpisode:         true,
		EpisodeSelector:     true,
		AutoplayNextEpisode: true,
	})
}

// ProgressKey identifies a bookmark: movie_{id} or tv_{id}_{season}_{episode}.
func ProgressKey(mediaType string, id int64, season, episode int) string {
	if mediaType == MediaMovie {
		return "movie_" + strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("tv_%d_%d_%d", id, season, episode)
}

// ProgressMessage is the payload the player posts to its parent window.
type ProgressMessage struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Progress  float64 `json:"progress"`
	Timestamp float64 `json:"timestamp"`
	Duration  float64 `json:"duration"`
	Season    *int    `json:"season,omitempty"`
	Episode   *int    `json:"episode,omitempty"`
}

var (
	ErrBadID     = errors.New("player: id must be positive")
	ErrBadType   = errors.New("player: type must be movie or tv")
	ErrNoEpisode = errors.New("player: tv progress needs season and episode")
)

func (m ProgressMessage) Validate() error {
	if m.ID <= 0 {
		return ErrBadID
	}
	switch m.Type {
	case MediaMovie:
	case MediaTV:
		if m.Season == nil || m.Episode == nil {
			return ErrNoEpisode
		}
	default:
		return ErrBadType
	}
	return nil
}

// Key is the progress key of the message.
func (m ProgressMessage) Key() string {
	var season, episode int
	if m.Season != nil {
		season = *m.Season
	}
	if m.Episode != nil {
		episode = *m.Episode
	}
	return ProgressKey(m.Type, m.ID, season, episode)
}

// EpisodeCode renders S01E02.
func EpisodeCode(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}
