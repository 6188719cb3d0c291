package matching

import (
	"net/http"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
	"pet-lost-found/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta con path completo; las rutas estáticas /pets/match y
// /pets/matches conviven con /pets/{petID} del módulo pets.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pets", searchPetsHandler(svc))
	r.Post("/pets/match", findCandidatesHandler(svc))
	r.Get("/pets/matches", listMyMatchesHandler(svc))
	r.Post("/pets/{petID}/confirm-match", confirmMatchHandler(svc))
	r.Post("/pets/{petID}/matches", saveMatchesHandler(svc))
}

type SearchItemResponse struct {
	pets.PetResponse
	Distance   string   `json:"distance,omitempty"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

type CandidateResponse struct {
	Pet   pets.PetResponse `json:"pet"`
	Score int              `json:"score"`
}

type MyMatchResponse struct {
	LostID    string           `json:"lostId"`
	LostName  string           `json:"lostName"`
	FoundID   string           `json:"foundId"`
	FoundName string           `json:"foundName"`
	Score     int              `json:"score"`
	MatchedAt time.Time        `json:"matchedAt"`
	FoundPet  pets.PetResponse `json:"foundPet"`
}

type matchLocationRequest struct {
	Address     string     `json:"address"`
	Coordinates *geo.Point `json:"coordinates"`
}

type findCandidatesRequest struct {
	Species  string                `json:"species"`
	Breed    string                `json:"breed"`
	FurColor string                `json:"furColor"`
	EyeColor string                `json:"eyeColor"`
	Age      *float64              `json:"age"`
	Location *matchLocationRequest `json:"location"`
}

type confirmMatchRequest struct {
	MatchedPetID string `json:"matchedPetId"`
}

// searchPetsHandler godoc
// @Summary  Browse lost/found pets, optionally near a point
// @Tags     matching
// @Produce  json
// @Param    species  query string false "species"
// @Param    location query string false "lat,lng"
// @Param    radius   query number false "radius in km"
// @Param    limit    query int    false "page size (default 20, max 100)"
// @Param    offset   query int    false "offset"
// @Param    search   query string false "name contains"
// @Param    status   query string false "lost|found"
// @Success  200 {array}  SearchItemResponse
// @Failure  400 {object} pets.ErrorResponse
// @Router   /pets [get]
func searchPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := ParseSearchQuery(r.URL.Query(), svc.Config())
		if err != nil {
			pets.WriteError(w, err)
			return
		}

		res, err := svc.SearchPets(r.Context(), q)
		if err != nil {
			pets.WriteError(w, err)
			return
		}

		out := make([]SearchItemResponse, 0, len(res.Items))
		for _, it := range res.Items {
			item := SearchItemResponse{PetResponse: pets.ToResponse(it.Pet), DistanceKm: it.DistanceKm}
			if it.DistanceKm != nil {
				item.Distance = geo.FormatKm(*it.DistanceKm)
			}
			out = append(out, item)
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"pets":   out,
			"total":  res.Total,
			"limit":  res.Limit,
			"offset": res.Offset,
		})
	}
}

// findCandidatesHandler godoc
// @Summary  Score a found-pet draft against every lost pet
// @Tags     matching
// @Accept   json
// @Produce  json
// @Param    body body findCandidatesRequest true "draft"
// @Success  200 {array}  CandidateResponse
// @Failure  400 {object} pets.ErrorResponse
// @Router   /pets/match [post]
func findCandidatesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req findCandidatesRequest
		if err := pets.DecodeJSON(r, &req, "location.coordinates"); err != nil {
			pets.WriteError(w, err)
			return
		}

		d := Draft{
			Species:  req.Species,
			Breed:    req.Breed,
			FurColor: req.FurColor,
			EyeColor: req.EyeColor,
			Age:      req.Age,
		}
		if req.Location != nil {
			d.Coordinates = req.Location.Coordinates
		}

		cands, err := svc.FindCandidates(r.Context(), d)
		if err != nil {
			pets.WriteError(w, err)
			return
		}

		out := make([]CandidateResponse, 0, len(cands))
		for _, c := range cands {
			out = append(out, CandidateResponse{Pet: pets.ToResponse(c.Pet), Score: c.Score})
		}
		respond.JSON(w, http.StatusOK, map[string]any{
			"matches":   out,
			"threshold": svc.matcher.Threshold(),
		})
	}
}

// listMyMatchesHandler godoc
// @Summary  Matches for the caller's lost pets
// @Tags     matching
// @Produce  json
// @Success  200 {array}  MyMatchResponse
// @Failure  401 {object} pets.ErrorResponse
// @Router   /pets/matches [get]
func listMyMatchesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pets.CallerID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListMyMatches(r.Context(), userID)
		if err != nil {
			pets.WriteError(w, err)
			return
		}

		out := make([]MyMatchResponse, 0, len(items))
		for _, m := range items {
			out = append(out, MyMatchResponse{
				LostID:    m.LostID,
				LostName:  m.LostName,
				FoundID:   m.FoundID,
				FoundName: m.FoundName,
				Score:     m.Score,
				MatchedAt: m.MatchedAt,
				FoundPet:  pets.ToResponse(m.Found),
			})
		}
		respond.JSON(w, http.StatusOK, map[string]any{"matches": out})
	}
}

// confirmMatchHandler godoc
// @Summary  Confirm a lost pet was matched with a found pet
// @Tags     matching
// @Accept   json
// @Produce  json
// @Param    petID path string true "lost pet id"
// @Param    body  body confirmMatchRequest true "matched pet"
// @Success  200 {object} pets.PetResponse
// @Failure  400 {object} pets.ErrorResponse
// @Failure  403 {object} pets.ErrorResponse
// @Failure  404 {object} pets.ErrorResponse
// @Router   /pets/{petID}/confirm-match [post]
func confirmMatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pets.CallerID(w, r)
		if !ok {
			return
		}

		var req confirmMatchRequest
		if err := pets.DecodeJSON(r, &req, ""); err != nil {
			pets.WriteError(w, err)
			return
		}

		p, err := svc.ConfirmMatch(r.Context(), chi.URLParam(r, "petID"), req.MatchedPetID, userID)
		if err != nil {
			pets.WriteError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"pet": pets.ToResponse(p)})
	}
}

// saveMatchesHandler godoc
// @Summary  Store the current candidates in the lost pet's matchResults
// @Tags     matching
// @Produce  json
// @Param    petID path string true "lost pet id"
// @Success  200 {array} pets.MatchResultResponse
// @Router   /pets/{petID}/matches [post]
func saveMatchesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pets.CallerID(w, r)
		if !ok {
			return
		}

		results, err := svc.SaveMatches(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			pets.WriteError(w, err)
			return
		}

		out := make([]pets.MatchResultResponse, 0, len(results))
		for _, m := range results {
			out = append(out, pets.MatchResultResponse{PetID: m.PetID, Score: m.Score, MatchedAt: m.MatchedAt})
		}
		respond.JSON(w, http.StatusOK, map[string]any{"matchResults": out})
	}
}
