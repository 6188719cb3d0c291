package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-lost-found/internal/platform/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet

	// afterGet corre entre la lectura y la escritura del servicio.
	afterGet func()
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	cur, ok := r.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.MatchResults = cur.MatchResults
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	if r.afterGet != nil {
		hook := r.afterGet
		r.afterGet = nil
		hook()
	}
	return p, nil
}

func (r *testRepo) Find(ctx context.Context, f Filter, page Page) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if f.OwnerUserID != "" && p.OwnerUserID != f.OwnerUserID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Count(ctx context.Context, f Filter) (int, error) {
	items, _ := r.Find(ctx, f, Page{})
	return len(items), nil
}

func (r *testRepo) ClearReport(ctx context.Context, id string, at time.Time) error {
	return errors.New("repo: not used")
}

func (r *testRepo) SetMatchResults(ctx context.Context, id string, results []MatchResult, at time.Time) error {
	return errors.New("repo: not used")
}

func (r *testRepo) PullMatchResults(ctx context.Context, candidateID string, at time.Time) (int64, error) {
	var n int64
	for id, p := range r.byID {
		kept := make([]MatchResult, 0, len(p.MatchResults))
		for _, m := range p.MatchResults {
			if m.PetID != candidateID {
				kept = append(kept, m)
			}
		}
		if len(kept) != len(p.MatchResults) {
			p.MatchResults = kept
			r.byID[id] = p
			n++
		}
	}
	return n, nil
}

// -------------------------
// Tests
// -------------------------

func newTestService(t *testing.T) (*Service, *testRepo, time.Time) {
	t.Helper()
	repo := newTestRepo()
	svc := NewService(repo)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, now
}

func pt(lng, lat float64) *geo.Point {
	p := geo.Point{Lng: lng, Lat: lat}
	return &p
}

func TestService_Create_NormalizesFields(t *testing.T) {
	svc, repo, now := newTestService(t)

	age := 3.0
	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:     "  Milo ",
		Species:  " Dog",
		FurColor: "brown",
		Age:      &age,
		Weight:   &Weight{Value: 12},
		Phones:   []string{" 555-1234 ", ""},
		Email:    "Owner@Example.com",
		Location: &PlaceInput{Address: "Home", Coordinates: pt(-58.38, -34.60)},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Milo", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	assert.Equal(t, WeightKg, p.Weight.Unit)
	assert.Equal(t, []string{"555-1234"}, p.Phones)
	assert.Equal(t, "owner@example.com", p.Email)
	assert.Equal(t, now, p.CreatedAt)
	assert.False(t, p.IsLost)
	assert.False(t, p.IsFound)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", stored.OwnerUserID)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	neg := -1.0

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing species", CreateInput{Name: "x"}},
		{"negative age", CreateInput{Species: "cat", Age: &neg}},
		{"bad weight unit", CreateInput{Species: "cat", Weight: &Weight{Value: 3, Unit: "stone"}}},
		{"zero weight", CreateInput{Species: "cat", Weight: &Weight{Value: 0}}},
		{"bad email", CreateInput{Species: "cat", Email: "not-an-email"}},
		{"lat out of range", CreateInput{Species: "cat", Location: &PlaceInput{Coordinates: pt(10, 95)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "owner-1", tc.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Create_AllowsSentinelBaseLocation(t *testing.T) {
	svc, _, _ := newTestService(t)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Species:  "cat",
		Location: &PlaceInput{Address: "unknown", Coordinates: pt(0, 0)},
	})
	require.NoError(t, err)

	_, ok := ResolveLocation(p)
	assert.False(t, ok, "sentinel base location must not resolve")
}

func TestService_ReportLost_SetsFlagsAndDetails(t *testing.T) {
	svc, _, now := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Species: "dog"})
	require.NoError(t, err)

	lost, err := svc.ReportLost(ctx, p.ID, "owner-1", ReportInput{
		Place: PlaceInput{Address: "Park", Coordinates: pt(-58.40, -34.61)},
		Notes: "red collar",
	})
	require.NoError(t, err)

	assert.True(t, lost.IsLost)
	assert.False(t, lost.IsFound)
	require.NotNil(t, lost.LostDetails)
	assert.Equal(t, "Park", lost.LostDetails.LastSeen.Address)
	require.NotNil(t, lost.LostDetails.Date)
	assert.Equal(t, now, *lost.LostDetails.Date)

	loc, ok := ResolveLocation(lost)
	require.True(t, ok)
	assert.Equal(t, LocationLost, loc.Kind)
}

func TestService_ReportFound_ClearsLostFlag(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Species: "dog"})
	require.NoError(t, err)
	_, err = svc.ReportLost(ctx, p.ID, "owner-1", ReportInput{Place: PlaceInput{Coordinates: pt(1, 1)}})
	require.NoError(t, err)

	found, err := svc.ReportFound(ctx, p.ID, "owner-1", ReportInput{Place: PlaceInput{Coordinates: pt(2, 2)}})
	require.NoError(t, err)
	assert.True(t, found.IsFound)
	assert.False(t, found.IsLost)
}

func TestService_Report_RequiresResolvableCoordinates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Species: "dog"})
	require.NoError(t, err)

	_, err = svc.ReportLost(ctx, p.ID, "owner-1", ReportInput{Place: PlaceInput{Address: "somewhere"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ReportFound(ctx, p.ID, "owner-1", ReportInput{Place: PlaceInput{Coordinates: pt(0, 0)}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_OwnerOnlyMutations(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Species: "dog"})
	require.NoError(t, err)

	name := "Stolen"
	_, err = svc.UpdateProfile(ctx, p.ID, "intruder", UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ReportLost(ctx, p.ID, "", ReportInput{Place: PlaceInput{Coordinates: pt(1, 1)}})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProfile(ctx, "missing", "owner-1", UpdateProfileInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateProfile_PatchesOnlyProvidedFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Milo", Species: "dog", Breed: "lab"})
	require.NoError(t, err)

	color := "black"
	updated, err := svc.UpdateProfile(ctx, p.ID, "owner-1", UpdateProfileInput{FurColor: &color})
	require.NoError(t, err)

	assert.Equal(t, "Milo", updated.Name)
	assert.Equal(t, "lab", updated.Breed)
	assert.Equal(t, "black", updated.FurColor)
}

func TestService_ProfileWritesKeepConcurrentMatchPull(t *testing.T) {
	ctx := context.Background()
	place := PlaceInput{Address: "park", Coordinates: pt(34.779, 32.067)}

	cases := map[string]func(svc *Service, id string) (Pet, error){
		"update profile": func(svc *Service, id string) (Pet, error) {
			color := "black"
			return svc.UpdateProfile(ctx, id, "owner-1", UpdateProfileInput{FurColor: &color})
		},
		"report lost": func(svc *Service, id string) (Pet, error) {
			return svc.ReportLost(ctx, id, "owner-1", ReportInput{Place: place})
		},
		"report found": func(svc *Service, id string) (Pet, error) {
			return svc.ReportFound(ctx, id, "owner-1", ReportInput{Place: place})
		},
	}

	for name, write := range cases {
		t.Run(name, func(t *testing.T) {
			svc, repo, now := newTestService(t)

			p, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Milo", Species: "dog"})
			require.NoError(t, err)
			stored := repo.byID[p.ID]
			stored.MatchResults = []MatchResult{
				{PetID: "F", Score: 4, MatchedAt: now},
				{PetID: "G", Score: 3, MatchedAt: now},
			}
			repo.byID[p.ID] = stored

			// una confirmación de F cae entre la lectura y la escritura
			repo.afterGet = func() {
				_, err := repo.PullMatchResults(ctx, "F", now)
				require.NoError(t, err)
			}

			got, err := write(svc, p.ID)
			require.NoError(t, err)

			want := []MatchResult{{PetID: "G", Score: 3, MatchedAt: now}}
			assert.Equal(t, want, repo.byID[p.ID].MatchResults)
			assert.Equal(t, want, got.MatchResults)
		})
	}
}

func TestService_ListByOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner-1", CreateInput{Species: "dog"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner-2", CreateInput{Species: "cat"})
	require.NoError(t, err)

	items, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ListByOwner(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
