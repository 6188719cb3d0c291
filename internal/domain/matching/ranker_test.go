package matching

import (
	"testing"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(lng, lat float64) *pets.Place {
	p := geo.Point{Lng: lng, Lat: lat}
	return &pets.Place{Coordinates: &p}
}

func TestRank_OrdersByDistanceWithUnresolvableLast(t *testing.T) {
	center := geo.NewPoint(0.5, 0.5)

	records := []pets.Pet{
		{ID: "none"},
		{ID: "far", Location: place(3, 3)},
		{ID: "near", Location: place(0.5, 0.6)},
		{ID: "sentinel", Location: place(0, 0)},
	}

	ranked := Rank(records, center)
	require.Len(t, ranked, 4)

	assert.Equal(t, "near", ranked[0].Pet.ID)
	assert.Equal(t, "far", ranked[1].Pet.ID)
	assert.Nil(t, ranked[2].DistanceKm)
	assert.Nil(t, ranked[3].DistanceKm)
	// sin ubicación: desempate por id
	assert.Equal(t, "none", ranked[2].Pet.ID)
	assert.Equal(t, "sentinel", ranked[3].Pet.ID)
}

func TestRank_CollocatedIsZeroNotNil(t *testing.T) {
	center := geo.NewPoint(10, 10)
	ranked := Rank([]pets.Pet{{ID: "a", Location: place(10, 10)}}, center)

	require.NotNil(t, ranked[0].DistanceKm)
	assert.Zero(t, *ranked[0].DistanceKm)
}

func TestRank_TiesBrokenByID(t *testing.T) {
	center := geo.NewPoint(1, 1)
	ranked := Rank([]pets.Pet{
		{ID: "b", Location: place(2, 2)},
		{ID: "a", Location: place(2, 2)},
	}, center)

	assert.Equal(t, "a", ranked[0].Pet.ID)
	assert.Equal(t, "b", ranked[1].Pet.ID)
}

func TestRank_UsesResolvedLocation(t *testing.T) {
	center := geo.NewPoint(0, 10)
	p := pets.Pet{
		ID:           "x",
		Location:     place(50, 50),
		FoundDetails: &pets.FoundDetails{Location: *place(10, 0.01)},
	}

	ranked := Rank([]pets.Pet{p}, center)
	require.NotNil(t, ranked[0].DistanceKm)
	assert.Less(t, *ranked[0].DistanceKm, 2.0)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, 2, 0))
	assert.Equal(t, []int{3, 4}, Paginate(items, 2, 2))
	assert.Equal(t, []int{5}, Paginate(items, 2, 4))
	assert.Empty(t, Paginate(items, 2, 5))
	assert.Equal(t, items, Paginate(items, 0, 0))
}
