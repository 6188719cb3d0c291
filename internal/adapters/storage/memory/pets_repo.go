package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
)

var (
	// ErrUnsupportedShape: igual que un índice 2dsphere, la consulta "near"
	// nativa sólo existe para fields con punto estructurado.
	ErrUnsupportedShape = errors.New("near query requires a point-shaped field")
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

// NewPetRepo devuelve el store en memoria (modo dev / tests).
func NewPetRepo() pets.Store {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	cur, exists := r.byID[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	// matchResults y createdAt se conservan del registro guardado
	next := clonePet(p)
	next.MatchResults = cur.MatchResults
	next.CreatedAt = cur.CreatedAt
	r.byID[p.ID] = next
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return clonePet(p), nil
}

func (r *petRepo) Find(ctx context.Context, f pets.Filter, page pets.Page) ([]pets.Pet, error) {
	out := r.scan(func(p pets.Pet) bool { return matchesFilter(p, f) })

	if page.Offset > 0 {
		if page.Offset >= len(out) {
			return []pets.Pet{}, nil
		}
		out = out[page.Offset:]
	}
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (r *petRepo) Count(ctx context.Context, f pets.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.byID {
		if matchesFilter(p, f) {
			n++
		}
	}
	return n, nil
}

func (r *petRepo) ClearReport(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.IsLost = false
	p.IsFound = false
	p.MatchResults = []pets.MatchResult{}
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}

func (r *petRepo) SetMatchResults(ctx context.Context, id string, results []pets.MatchResult, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.MatchResults = append([]pets.MatchResult{}, results...)
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}

// PullMatchResults corre bajo un único lock de escritura: equivale al
// updateMany+$pull atómico de los stores reales.
func (r *petRepo) PullMatchResults(ctx context.Context, candidateID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	for id, p := range r.byID {
		kept := p.MatchResults[:0:0]
		for _, m := range p.MatchResults {
			if m.PetID != candidateID {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(p.MatchResults) {
			continue
		}
		p.MatchResults = kept
		p.UpdatedAt = at
		r.byID[id] = p
		modified++
	}
	return modified, nil
}

func (r *petRepo) NearPoint(ctx context.Context, field pets.LocationField, center geo.Point, maxMeters float64, f pets.Filter) ([]pets.Pet, error) {
	if field.Shape() != pets.ShapePoint {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, field)
	}
	maxKm := maxMeters / 1000

	return r.scan(func(p pets.Pet) bool {
		if !matchesFilter(p, f) {
			return false
		}
		pt, ok := pointAt(p, field)
		return ok && geo.Haversine(center, pt) <= maxKm
	}), nil
}

func (r *petRepo) WithinCenterSphere(ctx context.Context, field pets.LocationField, center geo.Point, radians float64, f pets.Filter) ([]pets.Pet, error) {
	return r.scan(func(p pets.Pet) bool {
		if !matchesFilter(p, f) {
			return false
		}
		pt, ok := pointAt(p, field)
		return ok && geo.AngularDistance(center, pt) <= radians
	}), nil
}

// scan devuelve copias ordenadas por created_at asc, id asc.
func (r *petRepo) scan(keep func(pets.Pet) bool) []pets.Pet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, clonePet(p))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func pointAt(p pets.Pet, field pets.LocationField) (geo.Point, bool) {
	pl := p.PlaceAt(field)
	if pl == nil || pl.Coordinates == nil || !pl.Coordinates.Valid() {
		return geo.Point{}, false
	}
	return *pl.Coordinates, true
}

func matchesFilter(p pets.Pet, f pets.Filter) bool {
	if f.OwnerUserID != "" && p.OwnerUserID != f.OwnerUserID {
		return false
	}
	if f.Species != "" && p.Species != f.Species {
		return false
	}
	switch f.Status {
	case pets.StatusLost:
		if !p.IsLost {
			return false
		}
	case pets.StatusFound:
		if !p.IsFound {
			return false
		}
	case pets.StatusLostOrFound:
		if !p.IsLost && !p.IsFound {
			return false
		}
	}
	if q := strings.TrimSpace(f.NameContains); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// clonePet evita que los callers muten el estado interno vía slices/punteros compartidos.
func clonePet(p pets.Pet) pets.Pet {
	out := p
	out.Phones = append([]string(nil), p.Phones...)
	out.MatchResults = append([]pets.MatchResult(nil), p.MatchResults...)
	if p.Age != nil {
		a := *p.Age
		out.Age = &a
	}
	if p.Weight != nil {
		w := *p.Weight
		out.Weight = &w
	}
	if p.Location != nil {
		pl := clonePlace(*p.Location)
		out.Location = &pl
	}
	if p.LostDetails != nil {
		d := *p.LostDetails
		d.LastSeen = clonePlace(d.LastSeen)
		out.LostDetails = &d
	}
	if p.FoundDetails != nil {
		d := *p.FoundDetails
		d.Location = clonePlace(d.Location)
		out.FoundDetails = &d
	}
	return out
}

func clonePlace(pl pets.Place) pets.Place {
	if pl.Coordinates != nil {
		c := *pl.Coordinates
		pl.Coordinates = &c
	}
	return pl
}
