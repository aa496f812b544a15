package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BillingMetrics counts subscription lifecycle operations on the API.
type BillingMetrics interface {
	IncSubscriptionCreated(currency string)
	IncRollover(cycle string)
	ObserveMonthlySpend(amount float64)
}

type billingMetrics struct {
	created      *prometheus.CounterVec
	rollovers    *prometheus.CounterVec
	monthlySpend prometheus.Histogram
}

// NewBillingMetrics registers the billing counters.
func NewBillingMetrics(registry *prometheus.Registry) BillingMetrics {
	created := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "The total number of created subscriptions",
		},
		[]string{"currency"},
	)

	rollovers := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_rollovers_total",
			Help: "The total number of mark-as-paid billing date rollovers",
		},
		[]string{"cycle"},
	)

	monthlySpend := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_monthly_spend",
			Help:    "Distribution of computed monthly spend totals",
			Buckets: prometheus.ExponentialBuckets(10, 10, 5),
		},
	)

	return &billingMetrics{
		created:      created,
		rollovers:    rollovers,
		monthlySpend: monthlySpend,
	}
}

func (m *billingMetrics) IncSubscriptionCreated(currency string) {
	m.created.WithLabelValues(currency).Inc()
}

func (m *billingMetrics) IncRollover(cycle string) {
	m.rollovers.WithLabelValues(cycle).Inc()
}

func (m *billingMetrics) ObserveMonthlySpend(amount float64) {
	m.monthlySpend.Observe(amount)
}
