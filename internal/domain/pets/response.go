package pets

import (
	"time"

	"pet-lost-found/internal/platform/geo"
)

type PlaceResponse struct {
	Address     string     `json:"address"`
	Coordinates *geo.Point `json:"coordinates"`
}

type WeightResponse struct {
	Value float64    `json:"value"`
	Unit  WeightUnit `json:"unit"`
}

type LostDetailsResponse struct {
	LastSeen PlaceResponse `json:"lastSeen"`
	Date     *time.Time    `json:"date,omitempty"`
	Notes    string        `json:"notes,omitempty"`
}

type FoundDetailsResponse struct {
	Location PlaceResponse `json:"location"`
	Date     *time.Time    `json:"date,omitempty"`
	Notes    string        `json:"notes,omitempty"`
}

type MatchResultResponse struct {
	PetID     string    `json:"petId"`
	Score     int       `json:"score"`
	MatchedAt time.Time `json:"matchedAt"`
}

// NavigationResponse es el destino de navegación (ResolveLocation); null si no hay.
type NavigationResponse struct {
	Kind        LocationKind `json:"kind"`
	Address     string       `json:"address"`
	Coordinates geo.Point    `json:"coordinates"`
}

type PetResponse struct {
	ID          string          `json:"id"`
	OwnerUserID string          `json:"ownerId"`
	Name        string          `json:"name"`
	Species     Species         `json:"species"`
	Breed       string          `json:"breed"`
	FurColor    string          `json:"furColor"`
	EyeColor    string          `json:"eyeColor"`
	Age         *float64        `json:"age,omitempty"`
	Weight      *WeightResponse `json:"weight,omitempty"`
	Phones      []string        `json:"phones"`
	Email       string          `json:"email,omitempty"`
	Notes       string          `json:"notes,omitempty"`

	IsLost  bool `json:"isLost"`
	IsFound bool `json:"isFound"`

	Location     *PlaceResponse        `json:"location,omitempty"`
	LostDetails  *LostDetailsResponse  `json:"lostDetails,omitempty"`
	FoundDetails *FoundDetailsResponse `json:"foundDetails,omitempty"`
	MatchResults []MatchResultResponse `json:"matchResults"`

	Navigation *NavigationResponse `json:"navigation"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrorResponse documenta el sobre de error para swagger.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func ToResponse(p Pet) PetResponse {
	out := PetResponse{
		ID:           p.ID,
		OwnerUserID:  p.OwnerUserID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		FurColor:     p.FurColor,
		EyeColor:     p.EyeColor,
		Age:          p.Age,
		Phones:       p.Phones,
		Email:        p.Email,
		Notes:        p.Notes,
		IsLost:       p.IsLost,
		IsFound:      p.IsFound,
		MatchResults: make([]MatchResultResponse, 0, len(p.MatchResults)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if out.Phones == nil {
		out.Phones = []string{}
	}
	if p.Weight != nil {
		out.Weight = &WeightResponse{Value: p.Weight.Value, Unit: p.Weight.Unit}
	}
	if p.Location != nil {
		pl := toPlaceResponse(*p.Location)
		out.Location = &pl
	}
	if p.LostDetails != nil {
		out.LostDetails = &LostDetailsResponse{
			LastSeen: toPlaceResponse(p.LostDetails.LastSeen),
			Date:     p.LostDetails.Date,
			Notes:    p.LostDetails.Notes,
		}
	}
	if p.FoundDetails != nil {
		out.FoundDetails = &FoundDetailsResponse{
			Location: toPlaceResponse(p.FoundDetails.Location),
			Date:     p.FoundDetails.Date,
			Notes:    p.FoundDetails.Notes,
		}
	}
	for _, m := range p.MatchResults {
		out.MatchResults = append(out.MatchResults, MatchResultResponse{
			PetID:     m.PetID,
			Score:     m.Score,
			MatchedAt: m.MatchedAt,
		})
	}
	if loc, ok := ResolveLocation(p); ok {
		out.Navigation = &NavigationResponse{
			Kind:        loc.Kind,
			Address:     loc.Address,
			Coordinates: loc.Point,
		}
	}
	return out
}

func toPlaceResponse(pl Place) PlaceResponse {
	return PlaceResponse{Address: pl.Address, Coordinates: pl.Coordinates}
}
