package pets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-lost-found/internal/middleware"
	"pet-lost-found/internal/platform/geo"
	"pet-lost-found/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra rutas con path completo: /pets lo comparten pets y
// matching (GET /pets y /pets/match* viven en matching).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pets", createPetHandler(svc))
	r.Get("/pets/{petID}", getPetHandler(svc))
	r.Patch("/pets/{petID}", updatePetHandler(svc))
	r.Post("/pets/{petID}/report-lost", reportLostHandler(svc))
	r.Post("/pets/{petID}/report-found", reportFoundHandler(svc))

	// Mascotas del usuario autenticado
	r.Get("/me/pets", listMyPetsHandler(svc))
}

type placeRequest struct {
	Address     string     `json:"address"`
	Coordinates *geo.Point `json:"coordinates"`
}

type weightRequest struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type createPetRequest struct {
	Name     string         `json:"name"`
	Species  string         `json:"species"`
	Breed    string         `json:"breed"`
	FurColor string         `json:"furColor"`
	EyeColor string         `json:"eyeColor"`
	Age      *float64       `json:"age"`
	Weight   *weightRequest `json:"weight"`
	Phones   []string       `json:"phones"`
	Email    string         `json:"email"`
	Notes    string         `json:"notes"`
	Location *placeRequest  `json:"location"`
}

type updatePetRequest struct {
	Name     *string        `json:"name"`
	Species  *string        `json:"species"`
	Breed    *string        `json:"breed"`
	FurColor *string        `json:"furColor"`
	EyeColor *string        `json:"eyeColor"`
	Age      *float64       `json:"age"`
	Weight   *weightRequest `json:"weight"`
	Phones   *[]string      `json:"phones"`
	Email    *string        `json:"email"`
	Notes    *string        `json:"notes"`
	Location *placeRequest  `json:"location"`
}

type reportLostRequest struct {
	LastSeen placeRequest `json:"lastSeen"`
	Date     *time.Time   `json:"date"`
	Notes    string       `json:"notes"`
}

type reportFoundRequest struct {
	Location placeRequest `json:"location"`
	Date     *time.Time   `json:"date"`
	Notes    string       `json:"notes"`
}

// createPetHandler godoc
// @Summary  Register a pet
// @Tags     pets
// @Accept   json
// @Produce  json
// @Param    body body createPetRequest true "pet"
// @Success  201 {object} PetResponse
// @Failure  400 {object} ErrorResponse
// @Router   /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := DecodeJSON(r, &req, "location.coordinates"); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.Create(r.Context(), userID, CreateInput{
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			FurColor: req.FurColor,
			EyeColor: req.EyeColor,
			Age:      req.Age,
			Weight:   req.Weight.toWeight(),
			Phones:   req.Phones,
			Email:    req.Email,
			Notes:    req.Notes,
			Location: req.Location.toInput(),
		})
		if err != nil {
			WriteError(w, err)
			return
		}

		respond.JSON(w, http.StatusCreated, map[string]any{"pet": ToResponse(p)})
	}
}

// getPetHandler godoc
// @Summary  Get a pet (public: lost/found boards are public)
// @Tags     pets
// @Produce  json
// @Param    petID path string true "pet id"
// @Success  200 {object} PetResponse
// @Failure  404 {object} ErrorResponse
// @Router   /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			WriteError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"pet": ToResponse(p)})
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req updatePetRequest
		if err := DecodeJSON(r, &req, "location.coordinates"); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), chi.URLParam(r, "petID"), userID, UpdateProfileInput{
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			FurColor: req.FurColor,
			EyeColor: req.EyeColor,
			Age:      req.Age,
			Weight:   req.Weight.toWeight(),
			Phones:   req.Phones,
			Email:    req.Email,
			Notes:    req.Notes,
			Location: req.Location.toInput(),
		})
		if err != nil {
			WriteError(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"pet": ToResponse(updated)})
	}
}

// reportLostHandler godoc
// @Summary  Report a pet as lost
// @Tags     pets
// @Accept   json
// @Produce  json
// @Param    petID path string true "pet id"
// @Param    body body reportLostRequest true "last seen"
// @Success  200 {object} PetResponse
// @Router   /pets/{petID}/report-lost [post]
func reportLostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req reportLostRequest
		if err := DecodeJSON(r, &req, "lastSeen.coordinates"); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.ReportLost(r.Context(), chi.URLParam(r, "petID"), userID, ReportInput{
			Place: *req.LastSeen.toInput(),
			Date:  req.Date,
			Notes: req.Notes,
		})
		if err != nil {
			WriteError(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"pet": ToResponse(p)})
	}
}

// reportFoundHandler godoc
// @Summary  Report a pet as found
// @Tags     pets
// @Accept   json
// @Produce  json
// @Param    petID path string true "pet id"
// @Param    body body reportFoundRequest true "found at"
// @Success  200 {object} PetResponse
// @Router   /pets/{petID}/report-found [post]
func reportFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req reportFoundRequest
		if err := DecodeJSON(r, &req, "location.coordinates"); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := svc.ReportFound(r.Context(), chi.URLParam(r, "petID"), userID, ReportInput{
			Place: *req.Location.toInput(),
			Date:  req.Date,
			Notes: req.Notes,
		})
		if err != nil {
			WriteError(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"pet": ToResponse(p)})
	}
}

func listMyPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			WriteError(w, err)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToResponse(p))
		}
		respond.JSON(w, http.StatusOK, map[string]any{"pets": out})
	}
}

// callerID exige claims; si no hay, responde 401 y ok=false.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

// CallerID es callerID para otros módulos que montan rutas bajo /pets.
func CallerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	return callerID(w, r)
}

// DecodeJSON decodifica el body. pointField es la ruta del único punto del
// request (p.ej. "lastSeen.coordinates") y nombra el error si viene mal formado.
func DecodeJSON(r *http.Request, v any, pointField string) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, geo.ErrInvalidPoint) {
			if pointField == "" {
				pointField = "coordinates"
			}
			return invalid(pointField, "must be [lng, lat] or {type: Point, coordinates: [lng, lat]}")
		}
		return fmt.Errorf("%w: invalid json", ErrInvalidInput)
	}
	return nil
}

// WriteError mapea los errores de dominio a status HTTP.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "pet not found")
	default:
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func (p *placeRequest) toInput() *PlaceInput {
	if p == nil {
		return nil
	}
	return &PlaceInput{Address: p.Address, Coordinates: p.Coordinates}
}

func (w *weightRequest) toWeight() *Weight {
	if w == nil {
		return nil
	}
	return &Weight{Value: w.Value, Unit: WeightUnit(w.Unit)}
}
