package pets

import (
	"context"
	"time"

	"pet-lost-found/internal/platform/geo"
)

// StatusFilter restringe por flags isLost/isFound.
type StatusFilter string

const (
	StatusAny         StatusFilter = ""
	StatusLost        StatusFilter = "lost"
	StatusFound       StatusFilter = "found"
	StatusLostOrFound StatusFilter = "lost_or_found"
)

// Filter es el predicado no-geo que aceptan todas las consultas del store.
// Campos vacíos = no filtrar.
type Filter struct {
	OwnerUserID  string
	Species      Species
	Status       StatusFilter
	NameContains string // substring case-insensitive sobre name
}

// Page aplica sólo a Find. Limit 0 = sin límite.
type Page struct {
	Limit  int
	Offset int
}

// LocationField identifica una de las tres sub-ubicaciones de un registro.
type LocationField string

const (
	FieldBase     LocationField = "location"
	FieldLastSeen LocationField = "lostDetails.lastSeen"
	FieldFoundAt  LocationField = "foundDetails.location"
)

// LocationFields en el orden en que se consultan.
var LocationFields = []LocationField{FieldBase, FieldLastSeen, FieldFoundAt}

// CoordinateShape es cómo el store persiste las coordenadas de un field.
type CoordinateShape int

const (
	// ShapePoint: punto estructurado (GeoJSON/geography) con consulta nativa por distancia.
	ShapePoint CoordinateShape = iota
	// ShapeLegacyPair: par [lng, lat] plano; sólo admite consulta de casquete esférico.
	ShapeLegacyPair
)

func (f LocationField) Shape() CoordinateShape {
	if f == FieldLastSeen {
		return ShapeLegacyPair
	}
	return ShapePoint
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// Find ordena por created_at asc, id asc.
	Find(ctx context.Context, f Filter, page Page) ([]Pet, error)
	Count(ctx context.Context, f Filter) (int, error)

	// ClearReport deja el registro neutro: isLost=isFound=false y matchResults vacío.
	ClearReport(ctx context.Context, id string, at time.Time) error
	// SetMatchResults reemplaza los matchResults de un registro.
	SetMatchResults(ctx context.Context, id string, results []MatchResult, at time.Time) error
	// PullMatchResults quita, en una sola escritura masiva, toda entrada de
	// matchResults con PetID == candidateID en cualquier registro. Devuelve cuántos se modificaron.
	PullMatchResults(ctx context.Context, candidateID string, at time.Time) (int64, error)
}

// GeoQueryable son las dos primitivas de proximidad, una por CoordinateShape.
type GeoQueryable interface {
	// NearPoint: registros cuyo field (ShapePoint) está a <= maxMeters de center.
	NearPoint(ctx context.Context, field LocationField, center geo.Point, maxMeters float64, f Filter) ([]Pet, error)
	// WithinCenterSphere: registros cuyo field cae dentro del casquete de radio radians.
	WithinCenterSphere(ctx context.Context, field LocationField, center geo.Point, radians float64, f Filter) ([]Pet, error)
}

// Store es lo que necesita el servicio completo.
type Store interface {
	Repository
	GeoQueryable
}
