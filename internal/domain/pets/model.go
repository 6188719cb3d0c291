package pets

import (
	"time"

	"pet-lost-found/internal/platform/geo"
)

// Species es texto libre normalizado a minúsculas; estas son las que la app ofrece.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

type WeightUnit string

const (
	WeightKg WeightUnit = "kg"
	WeightLb WeightUnit = "lb"
)

type Weight struct {
	Value float64
	Unit  WeightUnit
}

// Place es una sub-ubicación: dirección + coordenadas (nil = no informada).
type Place struct {
	Address     string
	Coordinates *geo.Point
}

// LostDetails se completa cuando el dueño reporta la mascota como perdida.
type LostDetails struct {
	LastSeen Place
	Date     *time.Time
	Notes    string
}

// FoundDetails se completa cuando alguien reporta un animal encontrado.
type FoundDetails struct {
	Location Place
	Date     *time.Time
	Notes    string
}

// MatchResult es un candidato persistido en el registro perdido.
type MatchResult struct {
	PetID     string
	Score     int
	MatchedAt time.Time
}

// Pet es la unidad de matching (registro de mascota perdida/encontrada).
type Pet struct {
	ID          string
	OwnerUserID string

	Name     string
	Species  Species
	Breed    string
	FurColor string
	EyeColor string
	Age      *float64 // años
	Weight   *Weight

	Phones []string
	Email  string
	Notes  string

	// Flags independientes; ambos en false = registro neutro.
	IsLost  bool
	IsFound bool

	Location     *Place
	LostDetails  *LostDetails
	FoundDetails *FoundDetails

	MatchResults []MatchResult

	CreatedAt time.Time
	UpdatedAt time.Time
}
