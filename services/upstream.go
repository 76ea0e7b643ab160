package services

import (
	"time"

	"github.com/NomadCrew/school-dashboard/internal/metrics"
)

// Metric source labels.
const (
	sourceWeather = "weather"
	sourceTransit = "transit"
)

// observeUpstream records one upstream call's latency and outcome.
func observeUpstream(source string, start time.Time, outcome string) {
	m := metrics.Get()
	m.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	m.UpstreamRequests.WithLabelValues(source, outcome).Inc()
}
