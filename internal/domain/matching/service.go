package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/platform/geo"
	"pet-lost-found/internal/platform/logger"
)

type Config struct {
	Threshold    int
	Weights      Weights
	DefaultLimit int
	MaxLimit     int
}

func DefaultConfig() Config {
	return Config{
		Threshold:    DefaultThreshold,
		Weights:      DefaultWeights(),
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Threshold <= 0 {
		c.Threshold = d.Threshold
	}
	if c.Weights == (Weights{}) {
		c.Weights = d.Weights
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	return c
}

// Service es el orquestador: búsqueda, descubrimiento de matches y confirmación.
type Service struct {
	store   pets.Store
	search  *ProximitySearch
	matcher Matcher
	cfg     Config
	log     logger.Logger
	now     func() time.Time
}

func NewService(store pets.Store, cfg Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.withDefaults()
	return &Service{
		store:   store,
		search:  NewProximitySearch(store, log),
		matcher: NewMatcher(cfg.Weights, cfg.Threshold),
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) Config() Config { return s.cfg }

type SearchResult struct {
	Items  []Ranked
	Total  int
	Limit  int
	Offset int
}

// SearchPets: sin centro es un listado paginado de perdidos/encontrados; con
// centro corre fan-out de proximidad, ranking por distancia y recién ahí pagina.
func (s *Service) SearchPets(ctx context.Context, q SearchQuery) (SearchResult, error) {
	f := pets.Filter{
		Species:      q.Species,
		Status:       q.Status,
		NameContains: q.NameContains,
	}
	if f.Status == pets.StatusAny {
		f.Status = pets.StatusLostOrFound
	}

	if q.Center == nil {
		items, err := s.store.Find(ctx, f, pets.Page{Limit: q.Limit, Offset: q.Offset})
		if err != nil {
			searchesTotal.WithLabelValues("list", "error").Inc()
			return SearchResult{}, err
		}
		total, err := s.store.Count(ctx, f)
		if err != nil {
			searchesTotal.WithLabelValues("list", "error").Inc()
			return SearchResult{}, err
		}
		out := make([]Ranked, 0, len(items))
		for _, p := range items {
			out = append(out, Ranked{Pet: p})
		}
		searchesTotal.WithLabelValues("list", "ok").Inc()
		return SearchResult{Items: out, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
	}

	records, err := s.search.Search(ctx, *q.Center, q.RadiusKm, f)
	if err != nil {
		searchesTotal.WithLabelValues("geo", "error").Inc()
		return SearchResult{}, err
	}
	ranked := Rank(records, *q.Center)
	searchesTotal.WithLabelValues("geo", "ok").Inc()

	return SearchResult{
		Items:  Paginate(ranked, q.Limit, q.Offset),
		Total:  len(ranked),
		Limit:  q.Limit,
		Offset: q.Offset,
	}, nil
}

// Draft es un hallazgo todavía no guardado.
type Draft struct {
	Species     string
	Breed       string
	FurColor    string
	EyeColor    string
	Age         *float64
	Coordinates *geo.Point
}

type Candidate struct {
	Pet   pets.Pet
	Score int
}

// FindCandidates puntúa el borrador contra todos los perdidos. Sin distancia:
// el borrador no tiene id estable.
func (s *Service) FindCandidates(ctx context.Context, d Draft) ([]Candidate, error) {
	species := pets.NormalizeSpecies(d.Species)
	if species == "" {
		return nil, invalid("species", "is required")
	}
	if d.Coordinates == nil || !d.Coordinates.Valid() {
		return nil, invalid("location.coordinates", "is required as [lng, lat]")
	}

	found := pets.Pet{
		Species:  species,
		Breed:    strings.TrimSpace(d.Breed),
		FurColor: strings.TrimSpace(d.FurColor),
		EyeColor: strings.TrimSpace(d.EyeColor),
		Age:      d.Age,
	}

	lost, err := s.store.Find(ctx, pets.Filter{Status: pets.StatusLost}, pets.Page{})
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0)
	for _, p := range lost {
		score := s.matcher.Score(p, found)
		if s.matcher.Accepts(score) {
			out = append(out, Candidate{Pet: p, Score: score})
		}
	}
	pairsScored.WithLabelValues("find_candidates").Add(float64(len(lost)))
	matchesAccepted.WithLabelValues("find_candidates").Add(float64(len(out)))

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Pet.ID < out[j].Pet.ID
	})
	return out, nil
}

type MyMatch struct {
	LostID    string
	LostName  string
	FoundID   string
	FoundName string
	Score     int
	MatchedAt time.Time
	Found     pets.Pet
}

// ListMyMatches cruza cada perdido del caller contra todos los encontrados.
// Producto cartesiano completo sin prefiltro geo ni paginación.
func (s *Service) ListMyMatches(ctx context.Context, ownerUserID string) ([]MyMatch, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, pets.ErrForbidden
	}

	lost, err := s.store.Find(ctx, pets.Filter{OwnerUserID: ownerUserID, Status: pets.StatusLost}, pets.Page{})
	if err != nil {
		return nil, err
	}
	if len(lost) == 0 {
		return []MyMatch{}, nil
	}
	found, err := s.store.Find(ctx, pets.Filter{Status: pets.StatusFound}, pets.Page{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]MyMatch, 0)
	scored := 0
	for _, l := range lost {
		for _, f := range found {
			if l.ID == f.ID {
				continue
			}
			scored++
			score := s.matcher.Score(l, f)
			if !s.matcher.Accepts(score) {
				continue
			}
			out = append(out, MyMatch{
				LostID:    l.ID,
				LostName:  l.Name,
				FoundID:   f.ID,
				FoundName: f.Name,
				Score:     score,
				MatchedAt: now,
				Found:     f,
			})
		}
	}
	pairsScored.WithLabelValues("list_my_matches").Add(float64(scored))
	matchesAccepted.WithLabelValues("list_my_matches").Add(float64(len(out)))

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchedAt.After(out[j].MatchedAt)
	})
	return out, nil
}

// ConfirmMatch cierra el reporte del perdido y purga foundID de los
// matchResults de todo el store con un único update masivo.
func (s *Service) ConfirmMatch(ctx context.Context, lostID, foundID, callerID string) (pets.Pet, error) {
	if strings.TrimSpace(callerID) == "" {
		return pets.Pet{}, pets.ErrForbidden
	}
	lostID = strings.TrimSpace(lostID)
	foundID = strings.TrimSpace(foundID)
	if foundID == "" {
		return pets.Pet{}, invalid("matchedPetId", "is required")
	}
	if foundID == lostID {
		return pets.Pet{}, invalid("matchedPetId", "must differ from the lost pet")
	}

	lost, err := s.getPet(ctx, lostID)
	if err != nil {
		return pets.Pet{}, err
	}
	if lost.OwnerUserID != callerID {
		return pets.Pet{}, pets.ErrForbidden
	}
	if _, err := s.getPet(ctx, foundID); err != nil {
		return pets.Pet{}, err
	}

	now := s.now()
	if err := s.store.ClearReport(ctx, lostID, now); err != nil {
		return pets.Pet{}, err
	}
	confirmationsTotal.Inc()

	// El cambio primario ya quedó; un fallo acá se registra y no se revierte.
	pulled, err := s.store.PullMatchResults(ctx, foundID, now)
	if err != nil {
		bulkPullFailures.Inc()
		s.log.Error("confirm match: bulk pull failed", map[string]any{
			"lost_id":  lostID,
			"found_id": foundID,
			"err":      err,
		})
	} else {
		s.log.Info("match confirmed", map[string]any{
			"lost_id":  lostID,
			"found_id": foundID,
			"pulled":   pulled,
		})
	}

	return s.store.GetByID(ctx, lostID)
}

// SaveMatches persiste los candidatos actuales del perdido en su matchResults.
func (s *Service) SaveMatches(ctx context.Context, lostID, callerID string) ([]pets.MatchResult, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, pets.ErrForbidden
	}
	lost, err := s.getPet(ctx, lostID)
	if err != nil {
		return nil, err
	}
	if lost.OwnerUserID != callerID {
		return nil, pets.ErrForbidden
	}
	if !lost.IsLost {
		return nil, invalid("pet", "is not reported lost")
	}

	found, err := s.store.Find(ctx, pets.Filter{Status: pets.StatusFound}, pets.Page{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]pets.MatchResult, 0)
	for _, f := range found {
		if f.ID == lost.ID {
			continue
		}
		score := s.matcher.Score(lost, f)
		if s.matcher.Accepts(score) {
			results = append(results, pets.MatchResult{PetID: f.ID, Score: score, MatchedAt: now})
		}
	}
	pairsScored.WithLabelValues("save_matches").Add(float64(len(found)))
	matchesAccepted.WithLabelValues("save_matches").Add(float64(len(results)))

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PetID < results[j].PetID
	})

	if err := s.store.SetMatchResults(ctx, lost.ID, results, now); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPet(ctx context.Context, id string) (pets.Pet, error) {
	if strings.TrimSpace(id) == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	return s.store.GetByID(ctx, id)
}
