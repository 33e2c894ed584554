package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout computations by outcome.
	CheckoutTotal *prometheus.CounterVec
	// DiscountAppliedTotal counts applied discounts by rule kind.
	DiscountAppliedTotal *prometheus.CounterVec
	// CheckoutWarnings counts warnings attached to checkout results.
	CheckoutWarnings prometheus.Counter
	// CatalogLoadTotal counts catalog data loads by outcome.
	CatalogLoadTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors. Safe to call more than once.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout computations by outcome.",
		}, []string{"result"})
		DiscountAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_applied_total",
			Help:      "Count of applied discounts by rule kind.",
		}, []string{"kind"})
		CheckoutWarnings = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_warnings_total",
			Help:      "Total number of warnings attached to checkout results.",
		})
		CatalogLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_load_total",
			Help:      "Count of catalog data loads by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, DiscountAppliedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountAppliedTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutWarnings, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CheckoutWarnings = v
			}
		})
		mustRegisterCollector(reg, CatalogLoadTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogLoadTotal = v
			}
		})
	})
}

// ObserveCheckout records the outcome of one checkout computation. A no-op
// until MustRegisterDomainMetrics has run, so library code can call it
// unconditionally.
func ObserveCheckout(result string) {
	if CheckoutTotal != nil {
		CheckoutTotal.WithLabelValues(result).Inc()
	}
}

// ObserveDiscountApplied records an applied discount by rule kind.
func ObserveDiscountApplied(kind string) {
	if DiscountAppliedTotal != nil {
		DiscountAppliedTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveCheckoutWarnings adds n emitted warnings to the counter.
func ObserveCheckoutWarnings(n int) {
	if CheckoutWarnings != nil && n > 0 {
		CheckoutWarnings.Add(float64(n))
	}
}

// ObserveCatalogLoad records a catalog data load outcome.
func ObserveCatalogLoad(result string) {
	if CatalogLoadTotal != nil {
		CatalogLoadTotal.WithLabelValues(result).Inc()
	}
}
