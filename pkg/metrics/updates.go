package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpdateMetrics records metadata for processed Telegram updates.
type UpdateMetrics struct {
	duration *prometheus.HistogramVec
	handled  *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewUpdateMetrics registers the update metrics on the provided registerer.
func NewUpdateMetrics(reg prometheus.Registerer) *UpdateMetrics {
	if reg == nil {
		return &UpdateMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telegram_update_duration_seconds",
		Help:    "Duration of Telegram update handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	handled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_updates_handled",
		Help: "Successfully handled Telegram updates.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_updates_failed",
		Help: "Telegram updates that ended in an error.",
	}, []string{"kind"})
	reg.MustRegister(duration, handled, failed)
	return &UpdateMetrics{
		duration: duration,
		handled:  handled,
		failed:   failed,
	}
}

// ObserveDuration records the handling duration for the update kind.
func (u *UpdateMetrics) ObserveDuration(kind string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncHandled increments the handled counter for the update kind.
func (u *UpdateMetrics) IncHandled(kind string) {
	if u == nil || u.handled == nil {
		return
	}
	u.handled.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailed increments the failure counter for the update kind.
func (u *UpdateMetrics) IncFailed(kind string) {
	if u == nil || u.failed == nil {
		return
	}
	u.failed.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
