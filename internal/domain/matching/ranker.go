package matching

import (
	"sort"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
)

// Ranked es un registro con su distancia al centro; DistanceKm nil = sin ubicación.
type Ranked struct {
	Pet        pets.Pet
	DistanceKm *float64
}

// Rank recalcula haversine desde la ubicación resuelta de cada registro y
// ordena ascendente; los que no resuelven van al final. Empates por id.
func Rank(records []pets.Pet, center geo.Point) []Ranked {
	out := make([]Ranked, 0, len(records))
	for _, p := range records {
		r := Ranked{Pet: p}
		if loc, ok := pets.ResolveLocation(p); ok {
			d := geo.Haversine(center, loc.Point)
			r.DistanceKm = &d
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DistanceKm, out[j].DistanceKm
		switch {
		case di == nil && dj == nil:
			return out[i].Pet.ID < out[j].Pet.ID
		case di == nil:
			return false
		case dj == nil:
			return true
		case *di != *dj:
			return *di < *dj
		default:
			return out[i].Pet.ID < out[j].Pet.ID
		}
	})
	return out
}

// Paginate corta después de ordenar. limit <= 0 = sin límite.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
