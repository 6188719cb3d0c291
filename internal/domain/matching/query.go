package matching

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
)

// SearchQuery es GET /pets ya validado. Center nil = modo listado.
type SearchQuery struct {
	Species      pets.Species
	Center       *geo.Point
	RadiusKm     float64
	Limit        int
	Offset       int
	NameContains string
	Status       pets.StatusFilter
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", pets.ErrInvalidInput, field, reason)
}

// ParseSearchQuery valida los query params antes de tocar el store.
func ParseSearchQuery(v url.Values, cfg Config) (SearchQuery, error) {
	q := SearchQuery{
		Species:      pets.NormalizeSpecies(v.Get("species")),
		NameContains: strings.TrimSpace(v.Get("search")),
		Limit:        cfg.DefaultLimit,
	}

	switch strings.ToLower(strings.TrimSpace(v.Get("status"))) {
	case "":
		q.Status = pets.StatusLostOrFound
	case "lost":
		q.Status = pets.StatusLost
	case "found":
		q.Status = pets.StatusFound
	default:
		return SearchQuery{}, invalid("status", "must be lost or found")
	}

	if raw := strings.TrimSpace(v.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return SearchQuery{}, invalid("limit", "must be a positive integer")
		}
		if n > cfg.MaxLimit {
			n = cfg.MaxLimit
		}
		q.Limit = n
	}
	if raw := strings.TrimSpace(v.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return SearchQuery{}, invalid("offset", "must be a non-negative integer")
		}
		q.Offset = n
	}

	rawLoc := strings.TrimSpace(v.Get("location"))
	rawRadius := strings.TrimSpace(v.Get("radius"))
	switch {
	case rawLoc == "" && rawRadius == "":
		return q, nil
	case rawLoc == "":
		return SearchQuery{}, invalid("location", "is required with radius")
	case rawRadius == "":
		return SearchQuery{}, invalid("radius", "is required with location")
	}

	center, err := geo.ParseLatLng(rawLoc)
	if err != nil {
		return SearchQuery{}, invalid("location", `must be "lat,lng"`)
	}
	radius, err := strconv.ParseFloat(rawRadius, 64)
	if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return SearchQuery{}, invalid("radius", "must be a positive number of km")
	}

	q.Center = &center
	q.RadiusKm = radius
	return q, nil
}
