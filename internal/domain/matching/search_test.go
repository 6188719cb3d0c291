package matching

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pet-lost-found/internal/adapters/storage/memory"
	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingGeo registra qué primitiva se usó para cada field.
type recordingGeo struct {
	mu      sync.Mutex
	calls   map[pets.LocationField]string
	results map[pets.LocationField][]pets.Pet
	failOn  pets.LocationField
}

func newRecordingGeo() *recordingGeo {
	return &recordingGeo{
		calls:   map[pets.LocationField]string{},
		results: map[pets.LocationField][]pets.Pet{},
	}
}

func (g *recordingGeo) record(field pets.LocationField, primitive string) ([]pets.Pet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[field] = primitive
	if field == g.failOn {
		return nil, errors.New("store unavailable")
	}
	return g.results[field], nil
}

func (g *recordingGeo) NearPoint(ctx context.Context, field pets.LocationField, center geo.Point, maxMeters float64, f pets.Filter) ([]pets.Pet, error) {
	return g.record(field, "near")
}

func (g *recordingGeo) WithinCenterSphere(ctx context.Context, field pets.LocationField, center geo.Point, radians float64, f pets.Filter) ([]pets.Pet, error) {
	return g.record(field, "centerSphere")
}

func TestProximitySearch_PicksPrimitivePerShape(t *testing.T) {
	store := newRecordingGeo()
	s := NewProximitySearch(store, nil)

	_, err := s.Search(context.Background(), geo.NewPoint(1, 1), 5, pets.Filter{})
	require.NoError(t, err)

	assert.Equal(t, map[pets.LocationField]string{
		pets.FieldBase:     "near",
		pets.FieldLastSeen: "centerSphere",
		pets.FieldFoundAt:  "near",
	}, store.calls)
}

func TestProximitySearch_SubQueryFailureAbortsSearch(t *testing.T) {
	store := newRecordingGeo()
	store.results[pets.FieldBase] = []pets.Pet{{ID: "a", Location: place(1, 1)}}
	store.failOn = pets.FieldFoundAt

	s := NewProximitySearch(store, nil)
	out, err := s.Search(context.Background(), geo.NewPoint(1, 1), 5, pets.Filter{})

	require.Error(t, err)
	assert.Nil(t, out, "no partial results")
	assert.Contains(t, err.Error(), string(pets.FieldFoundAt))
}

func TestProximitySearch_DedupAcrossFields(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPetRepo()

	both := pets.Pet{
		ID:           "both",
		Species:      "dog",
		IsFound:      true,
		Location:     place(34.7780, 32.0663),
		FoundDetails: &pets.FoundDetails{Location: *place(34.7781, 32.0664)},
	}
	require.NoError(t, store.Create(ctx, both))

	s := NewProximitySearch(store, nil)
	out, err := s.Search(ctx, geo.NewPoint(32.0662, 34.7778), 5, pets.Filter{})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "both", out[0].ID)
}

func TestProximitySearch_LegacyLastSeenOnlyIsFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPetRepo()

	lost := pets.Pet{
		ID:          "lost-only",
		Species:     "dog",
		IsLost:      true,
		Location:    place(0, 0),
		LostDetails: &pets.LostDetails{LastSeen: *place(34.7790, 32.0670)},
	}
	require.NoError(t, store.Create(ctx, lost))

	s := NewProximitySearch(store, nil)
	out, err := s.Search(ctx, geo.NewPoint(32.0662, 34.7778), 5, pets.Filter{Status: pets.StatusLostOrFound})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "lost-only", out[0].ID)
}

func TestProximitySearch_OutsideRadiusAndFilterExcluded(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPetRepo()

	require.NoError(t, store.Create(ctx, pets.Pet{ID: "far", Species: "dog", IsLost: true, Location: place(35.5, 33)}))
	require.NoError(t, store.Create(ctx, pets.Pet{ID: "cat", Species: "cat", IsLost: true, Location: place(34.7779, 32.0663)}))

	s := NewProximitySearch(store, nil)
	out, err := s.Search(ctx, geo.NewPoint(32.0662, 34.7778), 5, pets.Filter{Species: "dog"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMerge_DropsUnresolvable(t *testing.T) {
	out := merge(
		[]pets.Pet{{ID: "a", Location: place(1, 1)}, {ID: "sentinel", Location: place(0, 0)}},
		[]pets.Pet{{ID: "a", Location: place(1, 1)}},
	)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestProximitySearch_SentinelBaseNotMatchedNearOrigin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPetRepo()

	require.NoError(t, store.Create(ctx, pets.Pet{
		ID:          "tlv",
		Species:     "dog",
		IsLost:      true,
		Location:    place(0, 0),
		LostDetails: &pets.LostDetails{LastSeen: *place(34.779, 32.067)},
	}))

	s := NewProximitySearch(store, nil)
	out, err := s.Search(ctx, geo.NewPoint(0.001, 0.001), 5, pets.Filter{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProximitySearch_DropsSentinelFromStoreResults(t *testing.T) {
	store := newRecordingGeo()
	tlv := pets.Pet{
		ID:          "tlv",
		Location:    place(0, 0),
		LostDetails: &pets.LostDetails{LastSeen: *place(34.779, 32.067)},
	}
	// un store que indexa (0,0) como punto real lo devuelve por el field base
	store.results[pets.FieldBase] = []pets.Pet{tlv, {ID: "near", Location: place(0.002, 0.002)}}

	s := NewProximitySearch(store, nil)
	out, err := s.Search(context.Background(), geo.NewPoint(0.001, 0.001), 5, pets.Filter{})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "near", out[0].ID)
}
