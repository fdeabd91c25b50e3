// Package metrics records query pipeline activity with Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// Recorder is what the pipeline reports to.
type Recorder interface {
	RecordFetch(channel, outcome string, duration time.Duration)
	RecordFavoriteToggle(key string)
	RecordPersistenceFailure(key string)
}

type Collector struct {
	fetches             *prometheus.CounterVec
	fetchLatency        *prometheus.HistogramVec
	favoriteToggles     *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackit_fetches_total",
			Help: "Fetches completed per channel and outcome.",
		}, []string{"channel", "outcome"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stackit_fetch_latency_seconds",
			Help:    "Fetch latency per channel.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),
		favoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackit_favorite_toggles_total",
			Help: "Favorite toggles per favorite set.",
		}, []string{"key"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackit_persistence_failures_total",
			Help: "Favorite set writes that failed.",
		}, []string{"key"}),
	}

	reg.MustRegister(
		c.fetches,
		c.fetchLatency,
		c.favoriteToggles,
		c.persistenceFailures,
	)
	return c
}

func (c *Collector) RecordFetch(channel, outcome string, duration time.Duration) {
	c.fetches.WithLabelValues(channel, outcome).Inc()
	// Stale fetches never reached the user; their latency is noise.
	if outcome != OutcomeStale {
		c.fetchLatency.WithLabelValues(channel).Observe(duration.Seconds())
	}
}

func (c *Collector) RecordFavoriteToggle(key string) {
	c.favoriteToggles.WithLabelValues(key).Inc()
}

func (c *Collector) RecordPersistenceFailure(key string) {
	c.persistenceFailures.WithLabelValues(key).Inc()
}

// Handler serves /metrics for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFetch(string, string, time.Duration) {}
func (Nop) RecordFavoriteToggle(string) {}
func (Nop) RecordPersistenceFailure(string) {}
