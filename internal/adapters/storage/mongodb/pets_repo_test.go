package mongodb

import (
	"testing"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilter(t *testing.T) {
	assert.Empty(t, buildFilter(pets.Filter{}))

	f := buildFilter(pets.Filter{
		OwnerUserID:  "u1",
		Species:      pets.SpeciesDog,
		Status:       pets.StatusLostOrFound,
		NameContains: "max.",
	})
	assert.Equal(t, "u1", f["ownerUserId"])
	assert.Equal(t, "dog", f["species"])
	assert.Equal(t, bson.A{bson.M{"isLost": true}, bson.M{"isFound": true}}, f["$or"])
	assert.Equal(t, bson.M{"$regex": `max\.`, "$options": "i"}, f["name"])
}

func TestBuildFilter_SingleStatus(t *testing.T) {
	assert.Equal(t, bson.M{"isLost": true}, buildFilter(pets.Filter{Status: pets.StatusLost}))
	assert.Equal(t, bson.M{"isFound": true}, buildFilter(pets.Filter{Status: pets.StatusFound}))
}

func TestNearFilter(t *testing.T) {
	center := geo.NewPoint(32.0662, 34.7778)
	f, err := nearFilter(pets.FieldFoundAt, center, 5000, pets.Filter{Species: pets.SpeciesCat})
	require.NoError(t, err)

	assert.Equal(t, "cat", f["species"])
	assert.Equal(t, bson.M{"$near": bson.M{
		"$geometry":    bson.M{"type": "Point", "coordinates": bson.A{34.7778, 32.0662}},
		"$maxDistance": 5000.0,
	}}, f["foundDetails.location.geo"])
}

func TestNearFilter_RejectsLegacyPair(t *testing.T) {
	_, err := nearFilter(pets.FieldLastSeen, geo.NewPoint(1, 1), 1000, pets.Filter{})
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestCenterSphereFilter(t *testing.T) {
	f, err := centerSphereFilter(pets.FieldLastSeen, geo.NewPoint(10, 20), 0.002, pets.Filter{})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$geoWithin": bson.M{
		"$centerSphere": bson.A{bson.A{20.0, 10.0}, 0.002},
	}}, f["lostDetails.lastSeen.coordinates"])
}

func TestPullMatchResults(t *testing.T) {
	at := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	filter, update := pullMatchResults("found-1", at)

	assert.Equal(t, bson.M{"matchResults.petId": "found-1"}, filter)
	assert.Equal(t, bson.M{"matchResults": bson.M{"petId": "found-1"}}, update["$pull"])
	assert.Equal(t, bson.M{"updatedAt": at}, update["$set"])
}

func TestToDoc_CoordinateShapes(t *testing.T) {
	p := pets.Pet{
		ID:       "p1",
		Species:  pets.SpeciesDog,
		IsLost:   true,
		Location: &pets.Place{Address: "home", Coordinates: &geo.Point{Lng: 34.78, Lat: 32.07}},
		LostDetails: &pets.LostDetails{
			LastSeen: pets.Place{Address: "park", Coordinates: &geo.Point{Lng: 34.79, Lat: 32.08}},
		},
		FoundDetails: &pets.FoundDetails{Location: pets.Place{Address: "street"}},
	}

	raw, err := bson.Marshal(toDoc(p))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	loc := m["location"].(bson.M)["geo"].(bson.M)
	assert.Equal(t, "Point", loc["type"])
	assert.Equal(t, bson.A{34.78, 32.07}, loc["coordinates"])

	lastSeen := m["lostDetails"].(bson.M)["lastSeen"].(bson.M)
	assert.Equal(t, bson.A{34.79, 32.08}, lastSeen["coordinates"])

	found := m["foundDetails"].(bson.M)["location"].(bson.M)
	_, hasGeo := found["geo"]
	assert.False(t, hasGeo)

	assert.IsType(t, bson.A{}, m["matchResults"])
	assert.Empty(t, m["matchResults"])
	assert.IsType(t, bson.A{}, m["phones"])
}

func TestDocRoundTrip(t *testing.T) {
	age := 3.0
	at := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	p := pets.Pet{
		ID:          "p1",
		OwnerUserID: "u1",
		Name:        "Max",
		Species:     pets.SpeciesDog,
		Age:         &age,
		Weight:      &pets.Weight{Value: 12, Unit: pets.WeightKg},
		Phones:      []string{"+972500000000"},
		IsLost:      true,
		LostDetails: &pets.LostDetails{
			LastSeen: pets.Place{Address: "park", Coordinates: &geo.Point{Lng: 34.79, Lat: 32.08}},
			Date:     &at,
		},
		MatchResults: []pets.MatchResult{{PetID: "f1", Score: 4, MatchedAt: at}},
		CreatedAt:    at,
		UpdatedAt:    at,
	}

	assert.Equal(t, p, toDoc(p).toPet())
}

func TestProfileUpdate_LeavesMatchResultsAlone(t *testing.T) {
	at := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	update, err := profileUpdate(pets.Pet{
		ID:           "p1",
		Name:         "Max",
		Species:      pets.SpeciesDog,
		Breed:        "mixed",
		IsLost:       true,
		LostDetails:  &pets.LostDetails{LastSeen: pets.Place{Address: "park", Coordinates: &geo.Point{Lng: 34.79, Lat: 32.08}}},
		MatchResults: []pets.MatchResult{{PetID: "f1", Score: 4, MatchedAt: at}},
		CreatedAt:    at.Add(-time.Hour),
		UpdatedAt:    at,
	})
	require.NoError(t, err)

	set := update["$set"].(bson.M)
	assert.NotContains(t, set, "matchResults")
	assert.NotContains(t, set, "createdAt")
	assert.NotContains(t, set, "_id")
	assert.Equal(t, "Max", set["name"])
	assert.Equal(t, "mixed", set["breed"])
	assert.Equal(t, true, set["isLost"])
	assert.Equal(t, at, set["updatedAt"].(primitive.DateTime).Time().UTC())

	unset := update["$unset"].(bson.M)
	assert.Contains(t, unset, "foundDetails")
	assert.Contains(t, unset, "location")
	assert.NotContains(t, unset, "lostDetails")
	assert.NotContains(t, unset, "breed")
}
