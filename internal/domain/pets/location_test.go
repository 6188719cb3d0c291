package pets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation_Priority(t *testing.T) {
	base := &Place{Address: "home", Coordinates: pt(1, 1)}
	lost := &LostDetails{LastSeen: Place{Address: "park", Coordinates: pt(2, 2)}}
	found := &FoundDetails{Location: Place{Address: "shelter", Coordinates: pt(3, 3)}}

	cases := []struct {
		name string
		pet  Pet
		kind LocationKind
		addr string
	}{
		{"found wins over all", Pet{Location: base, LostDetails: lost, FoundDetails: found}, LocationFound, "shelter"},
		{"lost wins over base", Pet{Location: base, LostDetails: lost}, LocationLost, "park"},
		{"base only", Pet{Location: base}, LocationBase, "home"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loc, ok := ResolveLocation(tc.pet)
			require.True(t, ok)
			assert.Equal(t, tc.kind, loc.Kind)
			assert.Equal(t, tc.addr, loc.Address)
		})
	}
}

func TestResolveLocation_SkipsSentinelAndFallsThrough(t *testing.T) {
	p := Pet{
		Location:     &Place{Address: "home", Coordinates: pt(-58.4, -34.6)},
		FoundDetails: &FoundDetails{Location: Place{Address: "nowhere", Coordinates: pt(0, 0)}},
		LostDetails:  &LostDetails{LastSeen: Place{Address: "no coords"}},
	}

	loc, ok := ResolveLocation(p)
	require.True(t, ok)
	assert.Equal(t, LocationBase, loc.Kind)
	assert.Equal(t, -34.6, loc.Point.Lat)
}

func TestResolveLocation_NothingUsable(t *testing.T) {
	_, ok := ResolveLocation(Pet{})
	assert.False(t, ok)

	_, ok = ResolveLocation(Pet{Location: &Place{Coordinates: pt(200, 10)}})
	assert.False(t, ok)
}

func TestPlaceAt(t *testing.T) {
	p := Pet{
		Location:    &Place{Address: "home"},
		LostDetails: &LostDetails{LastSeen: Place{Address: "park"}},
	}
	assert.Equal(t, "home", p.PlaceAt(FieldBase).Address)
	assert.Equal(t, "park", p.PlaceAt(FieldLastSeen).Address)
	assert.Nil(t, p.PlaceAt(FieldFoundAt))
	assert.Equal(t, ShapeLegacyPair, FieldLastSeen.Shape())
	assert.Equal(t, ShapePoint, FieldFoundAt.Shape())
}
