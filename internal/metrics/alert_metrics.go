package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AlertMetrics counts alert-scanner activity.
type AlertMetrics interface {
	IncScanMatches(n int)
	IncAlertSent(channel string)
	IncAlertFailed(channel string)
}

type alertMetrics struct {
	scanMatches prometheus.Counter
	alertsSent  *prometheus.CounterVec
}

// NewAlertMetrics registers the alert counters.
func NewAlertMetrics(registry *prometheus.Registry) AlertMetrics {
	scanMatches := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "alert_scan_matches_total",
			Help: "The total number of subscriptions matched as due by scans",
		},
	)

	alertsSent := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_dispatched_total",
			Help: "The total number of alert notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	return &alertMetrics{
		scanMatches: scanMatches,
		alertsSent:  alertsSent,
	}
}

func (m *alertMetrics) IncScanMatches(n int) {
	m.scanMatches.Add(float64(n))
}

func (m *alertMetrics) IncAlertSent(channel string) {
	m.alertsSent.WithLabelValues(channel, "sent").Inc()
}

func (m *alertMetrics) IncAlertFailed(channel string) {
	m.alertsSent.WithLabelValues(channel, "failed").Inc()
}
