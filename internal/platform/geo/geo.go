package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm es el radio medio usado por haversine y por las consultas de casquete esférico.
const EarthRadiusKm = 6371.0

var (
	ErrInvalidPoint  = errors.New("invalid coordinates")
	ErrInvalidLatLng = errors.New(`expected "lat,lng"`)
)

// Point es la representación interna única de una coordenada: orden [lng, lat].
type Point struct {
	Lng float64
	Lat float64
}

// NewPoint recibe lat/lng en el orden "humano" y devuelve el Point normalizado.
func NewPoint(lat, lng float64) Point {
	return Point{Lng: lng, Lat: lat}
}

// FromPair construye un Point desde un par ordenado [lng, lat].
func FromPair(pair []float64) (Point, error) {
	if len(pair) != 2 {
		return Point{}, ErrInvalidPoint
	}
	return Point{Lng: pair[0], Lat: pair[1]}, nil
}

// Pair devuelve el par [lng, lat] (formato GeoJSON / legacy).
func (p Point) Pair() []float64 {
	return []float64{p.Lng, p.Lat}
}

// IsSentinel indica el (0,0) que los clientes mandan como "sin ubicación".
func (p Point) IsSentinel() bool {
	return p.Lng == 0 && p.Lat == 0
}

// InRange valida números finitos dentro de ±90 lat / ±180 lng.
func (p Point) InRange() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Valid: rango correcto y no es el sentinel.
func (p Point) Valid() bool {
	return p.InRange() && !p.IsSentinel()
}

func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

// MarshalJSON siempre emite el par [lng, lat].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lng, p.Lat})
}

// UnmarshalJSON acepta el par crudo [lng, lat] o un objeto
// {"type":"Point","coordinates":[lng, lat]}; ambos terminan en el mismo Point.
// Los componentes pueden venir como número o como string numérico.
func (p *Point) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ErrInvalidPoint
	}

	var raw []json.RawMessage
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &raw); err != nil {
			return ErrInvalidPoint
		}
	case '{':
		var obj struct {
			Type        string            `json:"type"`
			Coordinates []json.RawMessage `json:"coordinates"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return ErrInvalidPoint
		}
		if obj.Type != "" && !strings.EqualFold(obj.Type, "Point") {
			return ErrInvalidPoint
		}
		raw = obj.Coordinates
	default:
		return ErrInvalidPoint
	}

	if len(raw) != 2 {
		return ErrInvalidPoint
	}
	lng, err := parseComponent(raw[0])
	if err != nil {
		return err
	}
	lat, err := parseComponent(raw[1])
	if err != nil {
		return err
	}

	p.Lng, p.Lat = lng, lat
	return nil
}

func parseComponent(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, ErrInvalidPoint
	}
	return parseFinite(s)
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidPoint
	}
	return f, nil
}

// ParseLatLng parsea el query param "lat,lng". Ojo: el orden es lat primero,
// al revés que el par almacenado.
func ParseLatLng(s string) (Point, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Point{}, ErrInvalidLatLng
	}
	lat, err := parseFinite(parts[0])
	if err != nil {
		return Point{}, ErrInvalidLatLng
	}
	lng, err := parseFinite(parts[1])
	if err != nil {
		return Point{}, ErrInvalidLatLng
	}
	p := NewPoint(lat, lng)
	if !p.InRange() {
		return Point{}, ErrInvalidLatLng
	}
	return p, nil
}

// Haversine devuelve la distancia de gran círculo en km.
func Haversine(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// AngularDistance es la distancia en radianes sobre la esfera (haversine / R).
func AngularDistance(a, b Point) float64 {
	return Haversine(a, b) / EarthRadiusKm
}

// KmToRadians convierte un radio en km al radio angular que usan las consultas $centerSphere.
func KmToRadians(km float64) float64 {
	return km / EarthRadiusKm
}

// KmToMeters convierte al radio en metros que usan las consultas nativas sobre puntos.
func KmToMeters(km float64) float64 {
	return km * 1000
}

// FormatKm da el formato de distancia que consume la app ("1.3 km").
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64) + " km"
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
