package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GalleryMetrics records gallery mutation outcomes and ingest latency.
type GalleryMetrics struct {
	mutations      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	ingestDuration prometheus.Histogram
}

// NewGalleryMetrics registers the gallery metrics on the provided registerer.
func NewGalleryMetrics(reg prometheus.Registerer) *GalleryMetrics {
	if reg == nil {
		return &GalleryMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_mutations_total",
		Help: "Gallery mutations applied, by action.",
	}, []string{"action"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_mutation_failures_total",
		Help: "Gallery mutations that failed, by action.",
	}, []string{"action"})
	ingestDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gallery_ingest_duration_seconds",
		Help:    "Duration of upload batch ingestion in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(mutations, failures, ingestDuration)
	return &GalleryMetrics{
		mutations:      mutations,
		failures:       failures,
		ingestDuration: ingestDuration,
	}
}

// IncMutation increments the mutation counter for the named action.
func (g *GalleryMetrics) IncMutation(action string) {
	if g == nil || g.mutations == nil {
		return
	}
	g.mutations.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncFailure increments the failure counter for the named action.
func (g *GalleryMetrics) IncFailure(action string) {
	if g == nil || g.failures == nil {
		return
	}
	g.failures.WithLabelValues(normalizeLabel(action)).Inc()
}

// ObserveIngestDuration records how long one upload batch took.
func (g *GalleryMetrics) ObserveIngestDuration(duration time.Duration) {
	if g == nil || g.ingestDuration == nil {
		return
	}
	g.ingestDuration.Observe(duration.Seconds())
}

func normalizeLabel(action string) string {
	if action == "" {
		return "unknown"
	}
	return action
}
