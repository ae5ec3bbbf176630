package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcomes reported by the exchange rate provider.
const (
	RateCacheHit   = "cache_hit"
	RateFetched    = "fetched"
	RateFetchError = "error"
)

// CurrencyMetrics counts exchange rate lookups by outcome.
type CurrencyMetrics struct {
	lookups *prometheus.CounterVec
}

func NewCurrencyMetrics(reg prometheus.Registerer) *CurrencyMetrics {
	if reg == nil {
		return &CurrencyMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "currency_rate_lookups_total",
		Help: "USD to UAH rate lookups by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(lookups)
	return &CurrencyMetrics{lookups: lookups}
}

// Observe increments the counter for outcome.
func (c *CurrencyMetrics) Observe(outcome string) {
	if c == nil || c.lookups == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	c.lookups.WithLabelValues(outcome).Inc()
}
