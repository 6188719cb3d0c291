package pets

import "pet-lost-found/internal/platform/geo"

// LocationKind indica de qué sub-ubicación salió la coordenada resuelta.
type LocationKind string

const (
	LocationFound LocationKind = "found"
	LocationLost  LocationKind = "lost"
	LocationBase  LocationKind = "base"
)

// ResolvedLocation es el único punto autoritativo de un registro para operaciones geo.
type ResolvedLocation struct {
	Kind    LocationKind
	Address string
	Point   geo.Point
}

// ResolveLocation elige found > lost > base y descarta coordenadas fuera de
// rango o el sentinel (0,0). ok=false es un resultado normal: el registro
// simplemente no tiene ubicación utilizable.
func ResolveLocation(p Pet) (ResolvedLocation, bool) {
	if p.FoundDetails != nil {
		if loc, ok := resolvePlace(LocationFound, p.FoundDetails.Location); ok {
			return loc, true
		}
	}
	if p.LostDetails != nil {
		if loc, ok := resolvePlace(LocationLost, p.LostDetails.LastSeen); ok {
			return loc, true
		}
	}
	if p.Location != nil {
		if loc, ok := resolvePlace(LocationBase, *p.Location); ok {
			return loc, true
		}
	}
	return ResolvedLocation{}, false
}

func resolvePlace(kind LocationKind, pl Place) (ResolvedLocation, bool) {
	if pl.Coordinates == nil || !pl.Coordinates.Valid() {
		return ResolvedLocation{}, false
	}
	return ResolvedLocation{
		Kind:    kind,
		Address: pl.Address,
		Point:   *pl.Coordinates,
	}, true
}

// PlaceAt devuelve la sub-ubicación almacenada en field (nil si no existe).
func (p Pet) PlaceAt(field LocationField) *Place {
	switch field {
	case FieldBase:
		return p.Location
	case FieldLastSeen:
		if p.LostDetails == nil {
			return nil
		}
		return &p.LostDetails.LastSeen
	case FieldFoundAt:
		if p.FoundDetails == nil {
			return nil
		}
		return &p.FoundDetails.Location
	default:
		return nil
	}
}
