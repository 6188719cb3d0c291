package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_searches_total",
			Help: "Búsquedas de mascotas por modo (list|geo) y resultado",
		},
		[]string{"mode", "outcome"},
	)

	subQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petmatch_proximity_subquery_duration_seconds",
			Help:    "Duración de cada sub-consulta de proximidad por field",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"field"},
	)

	subQueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_proximity_subquery_failures_total",
			Help: "Sub-consultas de proximidad fallidas (abortan la búsqueda)",
		},
		[]string{"field"},
	)

	pairsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_pairs_scored_total",
			Help: "Pares perdido/encontrado puntuados por operación",
		},
		[]string{"op"},
	)

	matchesAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petmatch_matches_accepted_total",
			Help: "Pares que superan el umbral por operación",
		},
		[]string{"op"},
	)

	confirmationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_confirmations_total",
			Help: "Matches confirmados",
		},
	)

	bulkPullFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petmatch_bulk_pull_failures_total",
			Help: "Fallos del pull masivo de matchResults tras confirmar",
		},
	)
)
