package analysis

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline counters. A nil *Metrics is valid and makes
// every method a no-op, so tests and one-off tooling skip registry setup.
type Metrics struct {
	analyses       *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	remoteFailures prometheus.Counter
	duration       prometheus.Histogram
}

// MustNewMetrics registers the analysis collectors on reg. Registering twice
// against the same registry hands back the existing collectors instead of
// panicking, so multiple services can share one registry.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		analyses: mustRegister(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizzin",
			Subsystem: "analysis",
			Name:      "analyses_total",
			Help:      "Completed sentiment analyses by source.",
		}, []string{"source"})),
		cacheHits: mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bizzin",
			Subsystem: "analysis",
			Name:      "cache_hits_total",
			Help:      "Analyses served from the result cache.",
		})),
		cacheMisses: mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bizzin",
			Subsystem: "analysis",
			Name:      "cache_misses_total",
			Help:      "Analyses that missed the result cache.",
		})),
		remoteFailures: mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bizzin",
			Subsystem: "analysis",
			Name:      "remote_failures_total",
			Help:      "Remote classifier calls that fell back to the local path.",
		})),
		duration: mustRegister(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bizzin",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wall time of a full analysis call.",
			Buckets:   prometheus.DefBuckets,
		})),
	}
}

func mustRegister[C prometheus.Collector](reg prometheus.Registerer, collector C) C {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

func (m *Metrics) ObserveAnalysis(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(source).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) RemoteFailure() {
	if m == nil {
		return
	}
	m.remoteFailures.Inc()
}
