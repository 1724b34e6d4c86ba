// Package metrics provides Prometheus instrumentation for the LearnHub
// backend: counters for the auth and shortener flows and a histogram for
// request latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LoginsTotal counts login attempts, labeled "ok" or "rejected".
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_logins_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	// SignupsTotal counts signup attempts, labeled "ok", "rejected" or
	// "taken".
	SignupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_signups_total",
		Help: "Total number of signup attempts",
	}, []string{"result"})

	// ShortLinksCreated counts freshly stored short links (idempotent
	// re-shortens are not counted).
	ShortLinksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_short_links_created_total",
		Help: "Total number of short link rows created",
	})

	// RedirectsTotal counts short link resolutions, labeled "ok" or
	// "not_found".
	RedirectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_redirects_total",
		Help: "Total number of short link redirect requests",
	}, []string{"result"})

	// RequestDuration records HTTP request latency in seconds.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "learnhub_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"method", "path"})
)

func init() {
	prometheus.MustRegister(
		LoginsTotal,
		SignupsTotal,
		ShortLinksCreated,
		RedirectsTotal,
		RequestDuration,
	)
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
