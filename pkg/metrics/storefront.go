package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart mutations and variant generation runs.
type StorefrontMetrics struct {
	cartMutations      *prometheus.CounterVec
	variantsGenerated  *prometheus.CounterVec
	generationDuration prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	variantsGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variants_generated_total",
		Help: "Variants emitted by expansion, split into preserved and new.",
	}, []string{"kind"})
	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "variant_generation_duration_seconds",
		Help:    "Duration of variant regeneration runs in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(cartMutations, variantsGenerated, generationDuration)
	return &StorefrontMetrics{
		cartMutations:      cartMutations,
		variantsGenerated:  variantsGenerated,
		generationDuration: generationDuration,
	}
}

// IncCartMutation counts one cart operation with its outcome.
func (m *StorefrontMetrics) IncCartMutation(operation, outcome string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// ObserveGeneration records one regeneration run.
func (m *StorefrontMetrics) ObserveGeneration(duration time.Duration, preserved, created int) {
	if m == nil || m.generationDuration == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	m.variantsGenerated.WithLabelValues("preserved").Add(float64(preserved))
	m.variantsGenerated.WithLabelValues("new").Add(float64(created))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
