package mongodb

import (
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
)

// geoPoint es un GeoJSON Point; coordinates en orden [lng, lat].
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// pointPlace guarda las coordenadas como GeoJSON (indexable con 2dsphere).
type pointPlace struct {
	Address string    `bson:"address"`
	Geo     *geoPoint `bson:"geo,omitempty"`
}

// legacyPlace guarda el par plano [lng, lat]; sólo sirve para $geoWithin/$centerSphere.
type legacyPlace struct {
	Address     string    `bson:"address"`
	Coordinates []float64 `bson:"coordinates,omitempty"`
}

type weightDoc struct {
	Value float64 `bson:"value"`
	Unit  string  `bson:"unit"`
}

type lostDoc struct {
	LastSeen legacyPlace `bson:"lastSeen"`
	Date     *time.Time  `bson:"date,omitempty"`
	Notes    string      `bson:"notes,omitempty"`
}

type foundDoc struct {
	Location pointPlace `bson:"location"`
	Date     *time.Time `bson:"date,omitempty"`
	Notes    string     `bson:"notes,omitempty"`
}

type matchDoc struct {
	PetID     string    `bson:"petId"`
	Score     int       `bson:"score"`
	MatchedAt time.Time `bson:"matchedAt"`
}

type petDoc struct {
	ID          string `bson:"_id"`
	OwnerUserID string `bson:"ownerUserId"`

	Name     string     `bson:"name"`
	Species  string     `bson:"species"`
	Breed    string     `bson:"breed,omitempty"`
	FurColor string     `bson:"furColor,omitempty"`
	EyeColor string     `bson:"eyeColor,omitempty"`
	Age      *float64   `bson:"age,omitempty"`
	Weight   *weightDoc `bson:"weight,omitempty"`

	Phones []string `bson:"phones"`
	Email  string   `bson:"email,omitempty"`
	Notes  string   `bson:"notes,omitempty"`

	IsLost  bool `bson:"isLost"`
	IsFound bool `bson:"isFound"`

	Location     *pointPlace `bson:"location,omitempty"`
	LostDetails  *lostDoc    `bson:"lostDetails,omitempty"`
	FoundDetails *foundDoc   `bson:"foundDetails,omitempty"`

	MatchResults []matchDoc `bson:"matchResults"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toDoc(p pets.Pet) petDoc {
	d := petDoc{
		ID:           p.ID,
		OwnerUserID:  p.OwnerUserID,
		Name:         p.Name,
		Species:      string(p.Species),
		Breed:        p.Breed,
		FurColor:     p.FurColor,
		EyeColor:     p.EyeColor,
		Age:          p.Age,
		Phones:       p.Phones,
		Email:        p.Email,
		Notes:        p.Notes,
		IsLost:       p.IsLost,
		IsFound:      p.IsFound,
		MatchResults: make([]matchDoc, 0, len(p.MatchResults)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if d.Phones == nil {
		d.Phones = []string{}
	}
	if p.Weight != nil {
		d.Weight = &weightDoc{Value: p.Weight.Value, Unit: string(p.Weight.Unit)}
	}
	if p.Location != nil {
		pl := toPointPlace(*p.Location)
		d.Location = &pl
	}
	if p.LostDetails != nil {
		d.LostDetails = &lostDoc{
			LastSeen: legacyPlace{Address: p.LostDetails.LastSeen.Address},
			Date:     p.LostDetails.Date,
			Notes:    p.LostDetails.Notes,
		}
		if c := p.LostDetails.LastSeen.Coordinates; c != nil {
			d.LostDetails.LastSeen.Coordinates = c.Pair()
		}
	}
	if p.FoundDetails != nil {
		d.FoundDetails = &foundDoc{
			Location: toPointPlace(p.FoundDetails.Location),
			Date:     p.FoundDetails.Date,
			Notes:    p.FoundDetails.Notes,
		}
	}
	for _, m := range p.MatchResults {
		d.MatchResults = append(d.MatchResults, matchDoc{PetID: m.PetID, Score: m.Score, MatchedAt: m.MatchedAt})
	}
	return d
}

func toPointPlace(pl pets.Place) pointPlace {
	out := pointPlace{Address: pl.Address}
	if pl.Coordinates != nil {
		out.Geo = &geoPoint{Type: "Point", Coordinates: pl.Coordinates.Pair()}
	}
	return out
}

func (d petDoc) toPet() pets.Pet {
	p := pets.Pet{
		ID:          d.ID,
		OwnerUserID: d.OwnerUserID,
		Name:        d.Name,
		Species:     pets.Species(d.Species),
		Breed:       d.Breed,
		FurColor:    d.FurColor,
		EyeColor:    d.EyeColor,
		Age:         d.Age,
		Phones:      d.Phones,
		Email:       d.Email,
		Notes:       d.Notes,
		IsLost:      d.IsLost,
		IsFound:     d.IsFound,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Weight != nil {
		p.Weight = &pets.Weight{Value: d.Weight.Value, Unit: pets.WeightUnit(d.Weight.Unit)}
	}
	if d.Location != nil {
		pl := d.Location.toPlace()
		p.Location = &pl
	}
	if d.LostDetails != nil {
		p.LostDetails = &pets.LostDetails{
			LastSeen: pets.Place{Address: d.LostDetails.LastSeen.Address, Coordinates: pairPoint(d.LostDetails.LastSeen.Coordinates)},
			Date:     d.LostDetails.Date,
			Notes:    d.LostDetails.Notes,
		}
	}
	if d.FoundDetails != nil {
		p.FoundDetails = &pets.FoundDetails{
			Location: d.FoundDetails.Location.toPlace(),
			Date:     d.FoundDetails.Date,
			Notes:    d.FoundDetails.Notes,
		}
	}
	p.MatchResults = make([]pets.MatchResult, 0, len(d.MatchResults))
	for _, m := range d.MatchResults {
		p.MatchResults = append(p.MatchResults, pets.MatchResult{PetID: m.PetID, Score: m.Score, MatchedAt: m.MatchedAt})
	}
	return p
}

func (pl pointPlace) toPlace() pets.Place {
	out := pets.Place{Address: pl.Address}
	if pl.Geo != nil {
		out.Coordinates = pairPoint(pl.Geo.Coordinates)
	}
	return out
}

// pairPoint devuelve nil si el par guardado está mal formado.
func pairPoint(pair []float64) *geo.Point {
	pt, err := geo.FromPair(pair)
	if err != nil {
		return nil
	}
	return &pt
}
