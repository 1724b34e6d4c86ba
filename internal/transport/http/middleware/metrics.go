package middleware

import (
	"net/http"
	"time"

	"github.com/learnhub/backend/internal/metrics"
)

// ObserveRequests records request latency per method and route pattern.
func ObserveRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		// The mux pattern groups paths with wildcards, so the label
		// cardinality stays bounded.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
