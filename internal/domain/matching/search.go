package matching

import (
	"context"
	"fmt"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
	"pet-lost-found/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// ProximitySearch lanza una consulta por field de ubicación (el operador
// "near" del store no admite OR entre fields) y une los resultados por id.
type ProximitySearch struct {
	store  pets.GeoQueryable
	log    logger.Logger
	fields []pets.LocationField
}

func NewProximitySearch(store pets.GeoQueryable, log logger.Logger) *ProximitySearch {
	if log == nil {
		log = logger.Nop()
	}
	return &ProximitySearch{
		store:  store,
		log:    log,
		fields: pets.LocationFields,
	}
}

// Search devuelve registros (sin orden, sin duplicados) con alguna ubicación
// dentro de radiusKm de center que además resuelven a una ubicación válida.
// Cualquier sub-consulta fallida aborta la búsqueda completa.
func (s *ProximitySearch) Search(ctx context.Context, center geo.Point, radiusKm float64, f pets.Filter) ([]pets.Pet, error) {
	results := make([][]pets.Pet, len(s.fields))

	g, gctx := errgroup.WithContext(ctx)
	for i, field := range s.fields {
		g.Go(func() error {
			start := time.Now()
			items, err := s.query(gctx, field, center, radiusKm, f)
			subQueryDuration.WithLabelValues(string(field)).Observe(time.Since(start).Seconds())
			if err != nil {
				subQueryFailures.WithLabelValues(string(field)).Inc()
				s.log.Error("proximity sub-query failed", map[string]any{
					"field": string(field),
					"err":   err,
				})
				return fmt.Errorf("proximity query on %s: %w", field, err)
			}
			results[i] = atValidPoint(items, field)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := merge(results...)
	s.log.Debug("proximity search", map[string]any{
		"center":   center.String(),
		"radiusKm": radiusKm,
		"base":     len(results[0]),
		"lost":     len(results[1]),
		"found":    len(results[2]),
		"merged":   len(merged),
	})
	return merged, nil
}

// query es el único lugar que elige primitiva según la forma del field.
func (s *ProximitySearch) query(ctx context.Context, field pets.LocationField, center geo.Point, radiusKm float64, f pets.Filter) ([]pets.Pet, error) {
	switch field.Shape() {
	case pets.ShapePoint:
		return s.store.NearPoint(ctx, field, center, geo.KmToMeters(radiusKm), f)
	case pets.ShapeLegacyPair:
		return s.store.WithinCenterSphere(ctx, field, center, geo.KmToRadians(radiusKm), f)
	default:
		return nil, fmt.Errorf("unknown coordinate shape for %s", field)
	}
}

// atValidPoint descarta registros cuyo punto en field es el centinela (0,0)
// o está fuera de rango: el store pudo indexarlo igual.
func atValidPoint(items []pets.Pet, field pets.LocationField) []pets.Pet {
	out := items[:0:0]
	for _, p := range items {
		pl := p.PlaceAt(field)
		if pl == nil || pl.Coordinates == nil || !pl.Coordinates.Valid() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// merge deduplica por id (último gana) y descarta registros sin ubicación resolvible.
func merge(lists ...[]pets.Pet) []pets.Pet {
	byID := make(map[string]pets.Pet)
	order := make([]string, 0)
	for _, list := range lists {
		for _, p := range list {
			if _, seen := byID[p.ID]; !seen {
				order = append(order, p.ID)
			}
			byID[p.ID] = p
		}
	}

	out := make([]pets.Pet, 0, len(order))
	for _, id := range order {
		p := byID[id]
		if _, ok := pets.ResolveLocation(p); !ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
