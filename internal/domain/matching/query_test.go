package matching

import (
	"net/url"
	"testing"

	"pet-lost-found/internal/domain/pets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchQuery_ListModeDefaults(t *testing.T) {
	q, err := ParseSearchQuery(url.Values{}, DefaultConfig())
	require.NoError(t, err)

	assert.Nil(t, q.Center)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, pets.StatusLostOrFound, q.Status)
}

func TestParseSearchQuery_GeoMode(t *testing.T) {
	q, err := ParseSearchQuery(url.Values{
		"species":  {"Dog"},
		"location": {"32.0662,34.7778"},
		"radius":   {"5"},
		"limit":    {"500"},
		"search":   {" rex "},
		"status":   {"found"},
	}, DefaultConfig())
	require.NoError(t, err)

	require.NotNil(t, q.Center)
	assert.Equal(t, 32.0662, q.Center.Lat)
	assert.Equal(t, 34.7778, q.Center.Lng)
	assert.Equal(t, 5.0, q.RadiusKm)
	assert.Equal(t, 100, q.Limit, "limit is capped")
	assert.Equal(t, pets.Species("dog"), q.Species)
	assert.Equal(t, "rex", q.NameContains)
	assert.Equal(t, pets.StatusFound, q.Status)
}

func TestParseSearchQuery_Rejects(t *testing.T) {
	cases := map[string]url.Values{
		"location without radius": {"location": {"1,2"}},
		"radius without location": {"radius": {"3"}},
		"malformed location":      {"location": {"abc"}, "radius": {"3"}},
		"lat out of range":        {"location": {"95,2"}, "radius": {"3"}},
		"zero radius":             {"location": {"1,2"}, "radius": {"0"}},
		"infinite radius":         {"location": {"1,2"}, "radius": {"Inf"}},
		"nan radius":              {"location": {"1,2"}, "radius": {"NaN"}},
		"negative limit":          {"limit": {"-1"}},
		"non-integer offset":      {"offset": {"1.5"}},
		"unknown status":          {"status": {"adopted"}},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSearchQuery(v, DefaultConfig())
			assert.ErrorIs(t, err, pets.ErrInvalidInput)
		})
	}
}
