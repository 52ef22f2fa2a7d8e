package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/history"
)

var (
	// navigationsTotal counts finished navigations by trigger and result
	navigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "router",
		Name:      "navigations_total",
		Help:      "Total navigations by trigger and result",
	}, []string{"trigger", "result"})

	navigationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "waypoint",
		Subsystem: "router",
		Name:      "navigation_duration_seconds",
		Help:      "Navigation duration in seconds, guards included",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
	}, []string{"trigger"})

	guardInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "router",
		Name:      "guard_invocations_total",
		Help:      "Total guard invocations by pipeline phase",
	}, []string{"phase"})

	// redirectsTotal counts followed redirects; source is "route" or "guard"
	redirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "router",
		Name:      "redirects_total",
		Help:      "Total redirects followed by source",
	}, []string{"source"})

	historyCorrections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waypoint",
		Subsystem: "router",
		Name:      "history_corrections_total",
		Help:      "Timeline moves undone after an aborted history navigation, by original direction",
	}, []string{"direction"})
)

func recordNavigation(trig trigger, result string, d time.Duration) {
	navigationsTotal.WithLabelValues(string(trig), result).Inc()
	navigationDuration.WithLabelValues(string(trig)).Observe(d.Seconds())
}

func recordGuard(phase Phase) {
	guardInvocations.WithLabelValues(phase.String()).Inc()
}

func recordRedirect(source string) {
	redirectsTotal.WithLabelValues(source).Inc()
}

func recordCorrection(direction history.Direction) {
	historyCorrections.WithLabelValues(direction.String()).Inc()
}
