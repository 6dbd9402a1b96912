package suggestion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsomefox/flixora/internal/tmdb"
)

func TestEligible(t *testing.T) {
	assert.False(t, Eligible(""))
	assert.False(t, Eligible("a"))
	assert.False(t, Eligible("  a  "))
	assert.True(t, Eligible("ab"))
	assert.True(t, Eligible(" é€ "))
}

func TestFromTitlesTruncatesAndProjects(t *testing.T) {
	items := []tmdb.Title{
		{ID: 1, MediaType: tmdb.MediaMovie, Title: "Alien", ReleaseDate: "1979-05-25", PosterPath: "/a.jpg", VoteAverage: 8.1},
		{ID: 2, MediaType: tmdb.MediaTV, Title: "Andor", ReleaseDate: "2022-09-21"},
		{ID: 3, MediaType: tmdb.MediaMovie, Title: "Aliens"},
		{ID: 4, MediaType: tmdb.MediaMovie, Title: "Alien 3"},
		{ID: 5, MediaType: tmdb.MediaMovie, Title: "Prometheus"},
		{ID: 6, MediaType: tmdb.MediaMovie, Title: "Covenant"},
	}

	got := FromTitles(items, Limit)
	require.Len(t, got, Limit)

	require.NotNil(t, got[0].Year)
	assert.Equal(t, 1979, *got[0].Year)
	require.NotNil(t, got[0].PosterPath)
	assert.Equal(t, "/a.jpg", *got[0].PosterPath)
	assert.Equal(t, "tv", got[1].Type)
	assert.Nil(t, got[1].PosterPath)
	assert.Nil(t, got[2].Year)
	assert.Equal(t, "/tv/2", got[1].Href())
}

func TestSuggestionWireFormat(t *testing.T) {
	year := 1979
	raw, err := json.Marshal(Suggestion{ID: 1, Title: "Alien", Type: "movie", Year: &year, VoteAverage: 8.1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"Alien","type":"movie","year":1979,"poster_path":null,"vote_average":8.1}`, string(raw))
}
