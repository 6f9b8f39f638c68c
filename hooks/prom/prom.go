// Package prom counts fallbackcache events with Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/fallbackcache"
)

// Hooks increments one counter family per event. Keys are never used as
// label values.
type Hooks struct {
	PrimaryFailures prometheus.Counter
	FallbackHits    prometheus.Counter
	FallbackMisses  *prometheus.CounterVec // path: "primary" | "secondary"
	RefreshErrors   prometheus.Counter
	SelfHeals       *prometheus.CounterVec // reason
	SetRejected     prometheus.Counter
	GenErrors       *prometheus.CounterVec // op: "snapshot" | "bump"
	DeleteOutages   prometheus.Counter
}

var _ fallbackcache.Hooks = (*Hooks)(nil)

// New creates the counters under namespace and registers them on reg.
func New(reg prometheus.Registerer, namespace string) (*Hooks, error) {
	h := &Hooks{
		PrimaryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_primary_failures_total",
			Help:      "Primary operations that failed",
		}),
		FallbackHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_fallback_hits_total",
			Help:      "Stored values served in place of a failed primary",
		}),
		FallbackMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_fallback_misses_total",
			Help:      "Primary failures with nothing stored",
		}, []string{"path"}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_refresh_errors_total",
			Help:      "Fresh values that could not be written to the fallback store",
		}),
		SelfHeals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_self_heals_total",
			Help:      "Stored entries dropped on read",
		}, []string{"reason"}),
		SetRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_provider_set_rejected_total",
			Help:      "Writes the provider declined",
		}),
		GenErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_gen_errors_total",
			Help:      "Generation store errors",
		}, []string{"op"}),
		DeleteOutages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbackcache_delete_outages_total",
			Help:      "Deletes where both the gen bump and the provider delete failed",
		}),
	}

	for _, c := range []prometheus.Collector{
		h.PrimaryFailures, h.FallbackHits, h.FallbackMisses, h.RefreshErrors,
		h.SelfHeals, h.SetRejected, h.GenErrors, h.DeleteOutages,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) PrimaryFailed(string, error) { h.PrimaryFailures.Inc() }
func (h *Hooks) FallbackHit(string)          { h.FallbackHits.Inc() }

func (h *Hooks) FallbackMiss(_ string, secondary bool) {
	path := "primary"
	if secondary {
		path = "secondary"
	}
	h.FallbackMisses.WithLabelValues(path).Inc()
}

func (h *Hooks) RefreshError(string, error)        { h.RefreshErrors.Inc() }
func (h *Hooks) SelfHeal(_ string, reason string)  { h.SelfHeals.WithLabelValues(reason).Inc() }
func (h *Hooks) ProviderSetRejected(string)        { h.SetRejected.Inc() }
func (h *Hooks) GenSnapshotError(string, error)    { h.GenErrors.WithLabelValues("snapshot").Inc() }
func (h *Hooks) GenBumpError(string, error)        { h.GenErrors.WithLabelValues("bump").Inc() }
func (h *Hooks) DeleteOutage(string, error, error) { h.DeleteOutages.Inc() }
