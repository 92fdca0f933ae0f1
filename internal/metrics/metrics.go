package metrics

import (
	"time"

	"github.com/limaJavier/examseating/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	SolverLabel  = "solver"
	OutcomeLabel = "outcome"
	CacheLabel   = "cache"

	Hit   = "hit"
	Miss  = "miss"
	Error = "error"
)

type Metrics struct {
	requests      *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	separationCap prometheus.Counter
	roomsUsed     prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seating_requests_total",
				Help: "Monotonic count of seating requests by outcome or failure reason",
			},
			[]string{SolverLabel, OutcomeLabel},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seating_solve_duration_seconds",
				Help:    "Time spent by the engine on a seating request",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{SolverLabel},
		),
		separationCap: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seating_separation_cap_reached_total",
				Help: "Monotonic count of models whose separation constraints were truncated",
			},
		),
		roomsUsed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seating_rooms_used",
				Help:    "Rooms opened by successful seatings",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seating_cache_lookups_total",
				Help: "Monotonic count of result cache lookups",
			},
			[]string{CacheLabel},
		),
	}
}

func (metrics *Metrics) Register(registerer prometheus.Registerer) {
	registerer.MustRegister(metrics.requests, metrics.solveDuration, metrics.separationCap, metrics.roomsUsed, metrics.cacheLookups)
}

// ObserveSeating records a finished request. err is the error returned by the seater, if any
func (metrics *Metrics) ObserveSeating(solver string, result model.Result, err error, solveTime time.Duration) {
	outcome := string(result.Outcome)
	if err != nil {
		reason, ok := model.ReasonOf(err)
		if !ok {
			outcome = Error
		} else {
			outcome = string(reason)
		}
	}
	metrics.requests.WithLabelValues(solver, outcome).Inc()

	if solveTime > 0 {
		metrics.solveDuration.WithLabelValues(solver).Observe(solveTime.Seconds())
	}
	if result.Summary.SeparationCapReached {
		metrics.separationCap.Inc()
	}
	if err == nil && result.RoomsUsed > 0 {
		metrics.roomsUsed.Observe(float64(result.RoomsUsed))
	}
}

func (metrics *Metrics) ObserveCache(status string) {
	metrics.cacheLookups.WithLabelValues(status).Inc()
}
