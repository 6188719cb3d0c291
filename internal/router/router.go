package router

import (
	"net/http"

	mem "pet-lost-found/internal/adapters/storage/memory"
	_ "pet-lost-found/internal/docs"
	"pet-lost-found/internal/domain/matching"
	"pet-lost-found/internal/domain/pets"
	"pet-lost-found/internal/middleware"
	"pet-lost-found/internal/platform/logger"
	"pet-lost-found/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si no viene, in-memory.
	Store pets.Store

	// Zero value => defaults de matching (umbral 3, limit 20/100).
	Matching matching.Config
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := opts.Store
	if store == nil {
		store = mem.NewPetRepo()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	petsSvc := pets.NewService(store)
	matchSvc := matching.NewService(store, opts.Matching, log.With(map[string]any{"module": "matching"}))

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	matching.RegisterRoutes(r, matchSvc)

	return r
}
