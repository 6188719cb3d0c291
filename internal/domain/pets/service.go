package pets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"pet-lost-found/internal/platform/geo"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	// ErrNotFound lo devuelven también los adapters de storage.
	ErrNotFound = errors.New("pet not found")
)

// invalid envuelve ErrInvalidInput nombrando el campo que falló.
func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidInput, field, reason)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// PlaceInput es una sub-ubicación tal como llega del cliente.
type PlaceInput struct {
	Address     string
	Coordinates *geo.Point
}

type CreateInput struct {
	Name     string
	Species  string
	Breed    string
	FurColor string
	EyeColor string
	Age      *float64
	Weight   *Weight
	Phones   []string
	Email    string
	Notes    string
	Location *PlaceInput
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	species := NormalizeSpecies(in.Species)
	if species == "" {
		return Pet{}, invalid("species", "is required")
	}
	if err := validateAge(in.Age); err != nil {
		return Pet{}, err
	}
	weight, err := normalizeWeight(in.Weight)
	if err != nil {
		return Pet{}, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Pet{}, err
	}
	base, err := normalizePlace("location", in.Location, false)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		FurColor:    strings.TrimSpace(in.FurColor),
		EyeColor:    strings.TrimSpace(in.EyeColor),
		Age:         in.Age,
		Weight:      weight,
		Phones:      normalizePhones(in.Phones),
		Email:       email,
		Notes:       strings.TrimSpace(in.Notes),
		Location:    base,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.Find(ctx, Filter{OwnerUserID: ownerUserID}, Page{})
}

// UpdateProfileInput: punteros para PATCH real, nil = no tocar.
type UpdateProfileInput struct {
	Name     *string
	Species  *string
	Breed    *string
	FurColor *string
	EyeColor *string
	Age      *float64
	Weight   *Weight
	Phones   *[]string
	Email    *string
	Notes    *string
	Location *PlaceInput
}

func (s *Service) UpdateProfile(ctx context.Context, petID, callerID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.loadOwned(ctx, petID, callerID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		sp := NormalizeSpecies(*in.Species)
		if sp == "" {
			return Pet{}, invalid("species", "is required")
		}
		p.Species = sp
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.FurColor != nil {
		p.FurColor = strings.TrimSpace(*in.FurColor)
	}
	if in.EyeColor != nil {
		p.EyeColor = strings.TrimSpace(*in.EyeColor)
	}
	if in.Age != nil {
		if err := validateAge(in.Age); err != nil {
			return Pet{}, err
		}
		p.Age = in.Age
	}
	if in.Weight != nil {
		w, err := normalizeWeight(in.Weight)
		if err != nil {
			return Pet{}, err
		}
		p.Weight = w
	}
	if in.Phones != nil {
		p.Phones = normalizePhones(*in.Phones)
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return Pet{}, err
		}
		p.Email = email
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Location != nil {
		base, err := normalizePlace("location", in.Location, false)
		if err != nil {
			return Pet{}, err
		}
		p.Location = base
	}

	p.UpdatedAt = s.now()
	return s.save(ctx, p)
}

// ReportInput describe un reporte de pérdida o de hallazgo.
type ReportInput struct {
	Place PlaceInput
	Date  *time.Time
	Notes string
}

// ReportLost pasa el registro a perdido con la última ubicación vista.
func (s *Service) ReportLost(ctx context.Context, petID, callerID string, in ReportInput) (Pet, error) {
	p, err := s.loadOwned(ctx, petID, callerID)
	if err != nil {
		return Pet{}, err
	}
	place, err := normalizePlace("lastSeen", &in.Place, true)
	if err != nil {
		return Pet{}, err
	}

	p.IsLost = true
	p.IsFound = false
	p.LostDetails = &LostDetails{
		LastSeen: *place,
		Date:     s.reportDate(in.Date),
		Notes:    strings.TrimSpace(in.Notes),
	}
	p.UpdatedAt = s.now()

	return s.save(ctx, p)
}

// ReportFound pasa el registro a encontrado con la ubicación del hallazgo.
func (s *Service) ReportFound(ctx context.Context, petID, callerID string, in ReportInput) (Pet, error) {
	p, err := s.loadOwned(ctx, petID, callerID)
	if err != nil {
		return Pet{}, err
	}
	place, err := normalizePlace("location", &in.Place, true)
	if err != nil {
		return Pet{}, err
	}

	p.IsFound = true
	p.IsLost = false
	p.FoundDetails = &FoundDetails{
		Location: *place,
		Date:     s.reportDate(in.Date),
		Notes:    strings.TrimSpace(in.Notes),
	}
	p.UpdatedAt = s.now()

	return s.save(ctx, p)
}

// save persiste el perfil y relee el registro: Update no escribe matchResults,
// así que la copia local puede estar vieja.
func (s *Service) save(ctx context.Context, p Pet) (Pet, error) {
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return s.repo.GetByID(ctx, p.ID)
}

func (s *Service) loadOwned(ctx context.Context, petID, callerID string) (Pet, error) {
	if strings.TrimSpace(callerID) == "" {
		return Pet{}, ErrForbidden
	}
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != callerID {
		return Pet{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) reportDate(d *time.Time) *time.Time {
	if d != nil {
		return d
	}
	now := s.now()
	return &now
}

// NormalizeSpecies: trim + minúsculas para que "Dog" y "dog" comparen igual.
func NormalizeSpecies(s string) Species {
	return Species(strings.ToLower(strings.TrimSpace(s)))
}

// normalizePlace valida coordenadas si vienen. required exige coordenadas
// resolvibles (no sentinel); si no es required el (0,0) se guarda tal cual.
func normalizePlace(field string, in *PlaceInput, required bool) (*Place, error) {
	if in == nil {
		if required {
			return nil, invalid(field+".coordinates", "is required")
		}
		return nil, nil
	}
	if in.Coordinates == nil {
		if required {
			return nil, invalid(field+".coordinates", "is required")
		}
	} else {
		if !in.Coordinates.InRange() {
			return nil, invalid(field+".coordinates", "must be [lng, lat] within range")
		}
		if required && in.Coordinates.IsSentinel() {
			return nil, invalid(field+".coordinates", "is required")
		}
	}

	pt := in.Coordinates
	if pt != nil {
		c := *pt
		pt = &c
	}
	return &Place{
		Address:     strings.TrimSpace(in.Address),
		Coordinates: pt,
	}, nil
}

func validateAge(age *float64) error {
	if age == nil {
		return nil
	}
	if math.IsNaN(*age) || math.IsInf(*age, 0) || *age < 0 {
		return invalid("age", "must be a non-negative number")
	}
	return nil
}

func normalizeWeight(w *Weight) (*Weight, error) {
	if w == nil {
		return nil, nil
	}
	if math.IsNaN(w.Value) || math.IsInf(w.Value, 0) || w.Value <= 0 {
		return nil, invalid("weight.value", "must be positive")
	}
	unit := WeightUnit(strings.ToLower(strings.TrimSpace(string(w.Unit))))
	switch unit {
	case "":
		unit = WeightKg
	case WeightKg, WeightLb:
	default:
		return nil, invalid("weight.unit", "must be kg or lb")
	}
	return &Weight{Value: w.Value, Unit: unit}, nil
}

func normalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", invalid("email", "is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}

func normalizePhones(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ph := range in {
		if ph = strings.TrimSpace(ph); ph != "" {
			out = append(out, ph)
		}
	}
	return out
}
