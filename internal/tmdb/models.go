package tmdb

import (
	"strconv"
	"strings"
)

// Title is a movie or series as it appears in lists and search results.
type Title struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
}

// Year returns the release year, or "" when TMDB has no date.
func (t Title) Year() string { return yearFromDate(t.ReleaseDate) }

// Href is the details page path for the title.
func (t Title) Href() string {
	if t.MediaType == MediaTV {
		return "/tv/" + strconv.FormatInt(t.ID, 10)
	}
	return "/movies/" + strconv.FormatInt(t.ID, 10)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type Company struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

type MovieDetail struct {
	Title
	Tagline   string       `json:"tagline,omitempty"`
	Runtime   int          `json:"runtime,omitempty"`
	Status    string       `json:"status,omitempty"`
	IMDbID    string       `json:"imdb_id,omitempty"`
	Genres    []Genre      `json:"genres"`
	Cast      []CastMember `json:"cast"`
	Videos    []Video      `json:"videos"`
	Companies []Company    `json:"production_companies"`
}

// Trailer returns the first YouTube trailer, preferring official ones.
func (d *MovieDetail) Trailer() (Video, bool) { return pickTrailer(d.Videos) }

type Season struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	AirDate      string  `json:"air_date"`
	PosterPath   string  `json:"poster_path"`
	SeasonNumber int     `json:"season_number"`
	EpisodeCount int     `json:"episode_count"`
	VoteAverage  float64 `json:"vote_average"`
}

type ShowDetail struct {
	Title
	Tagline          string       `json:"tagline,omitempty"`
	Status           string       `json:"status,omitempty"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	Genres           []Genre      `json:"genres"`
	Seasons          []Season     `json:"seasons"`
	Networks         []Company    `json:"networks"`
	Companies        []Company    `json:"production_companies"`
	Cast             []CastMember `json:"cast"`
	Videos           []Video      `json:"videos"`
}

func (d *ShowDetail) Trailer() (Video, bool) { return pickTrailer(d.Videos) }

type Episode struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	Runtime       int     `json:"runtime"`
	StillPath     string  `json:"still_path"`
	VoteAverage   float64 `json:"vote_average"`
}

type SeasonDetail struct {
	ID           int64     `json:"id"`
	ShowID       int64     `json:"show_id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	AirDate      string    `json:"air_date"`
	PosterPath   string    `json:"poster_path"`
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode looks up an episode by its number within the season.
func (s *SeasonDetail) Episode(number int) (Episode, bool) {
	for _, ep := range s.Episodes {
		if ep.EpisodeNumber == number {
			return ep, true
		}
	}
	return Episode{}, false
}

type rawTitle struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
}

func (r *rawTitle) title(mediaType string) Title {
	t := Title{
		ID:           r.ID,
		MediaType:    mediaType,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		Popularity:   r.Popularity,
	}
	if mediaType == MediaTV {
		t.Title = r.Name
		t.ReleaseDate = r.FirstAirDate
	} else {
		t.Title = r.Title
		t.ReleaseDate = r.ReleaseDate
	}
	return t
}

type pageResponse struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
	Results      []rawTitle `json:"results"`
}

// titles converts a page of raw results. An empty mediaTypeOverride keeps
// each result's own media_type and drops anything that is not a movie or
// series (multi search also returns people).
func (p *pageResponse) titles(mediaTypeOverride string) []Title {
	out := make([]Title, 0, len(p.Results))
	for i := range p.Results {
		r := &p.Results[i]
		mediaType := r.MediaType
		if mediaTypeOverride != "" {
			mediaType = mediaTypeOverride
		}
		if mediaType != MediaMovie && mediaType != MediaTV {
			continue
		}
		out = append(out, r.title(mediaType))
	}
	return out
}

type movieDetailResponse struct {
	rawTitle
	Tagline   string    `json:"tagline"`
	Runtime   int       `json:"runtime"`
	Status    string    `json:"status"`
	IMDbID    string    `json:"imdb_id"`
	Genres    []Genre   `json:"genres"`
	Companies []Company `json:"production_companies"`
	Credits   struct {
		Cast []CastMember `json:"cast"`
	} `json:"credits"`
	Videos struct {
		Results []Video `json:"results"`
	} `json:"videos"`
}

func (p *movieDetailResponse) detail() *MovieDetail {
	return &MovieDetail{
		Title:     p.title(MediaMovie),
		Tagline:   p.Tagline,
		Runtime:   p.Runtime,
		Status:    p.Status,
		IMDbID:    p.IMDbID,
		Genres:    p.Genres,
		Cast:      p.Credits.Cast,
		Videos:    p.Videos.Results,
		Companies: p.Companies,
	}
}

type showDetailResponse struct {
	rawTitle
	Tagline          string    `json:"tagline"`
	Status           string    `json:"status"`
	NumberOfSeasons  int       `json:"number_of_seasons"`
	NumberOfEpisodes int       `json:"number_of_episodes"`
	Genres           []Genre   `json:"genres"`
	Seasons          []Season  `json:"seasons"`
	Networks         []Company `json:"networks"`
	Companies        []Company `json:"production_companies"`
	Credits          struct {
		Cast []CastMember `json:"cast"`
	} `json:"credits"`
	Videos struct {
		Results []Video `json:"results"`
	} `json:"videos"`
}

func (p *showDetailResponse) detail() *ShowDetail {
	return &ShowDetail{
		Title:            p.title(MediaTV),
		Tagline:          p.Tagline,
		Status:           p.Status,
		NumberOfSeasons:  p.NumberOfSeasons,
		NumberOfEpisodes: p.NumberOfEpisodes,
		Genres:           p.Genres,
		Seasons:          p.Seasons,
		Networks:         p.Networks,
		Companies:        p.Companies,
		Cast:             p.Credits.Cast,
		Videos:           p.Videos.Results,
	}
}

func pickTrailer(videos []Video) (Video, bool) {
	var fallback *Video
	for i := range videos {
		v := &videos[i]
		if v.Site != "YouTube" || v.Type != "Trailer" {
			continue
		}
		if v.Official {
			return *v, true
		}
		if fallback == nil {
			fallback = v
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Video{}, false
}

func yearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// ParseYear turns a release date or year into a number, nil when absent.
func ParseYear(date string) *int {
	year := yearFromDate(strings.TrimSpace(date))
	if year == "" {
		return nil
	}
	val, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	return &val
}
