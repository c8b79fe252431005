package middleware

import (
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/metrics"
	"github.com/felixge/httpsnoop"
)

// Logging records one access log entry and one latency observation per
// request. The route label is the matched ServeMux pattern.
func Logging(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stats := httpsnoop.CaptureMetrics(next, w, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, stats.Code, stats.Duration)

			logger.Info("http request", logger.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      route,
				"remote":     r.RemoteAddr,
				"userAgent":  r.UserAgent(),
				"status":     stats.Code,
				"size":       stats.Written,
				"durationMs": float64(stats.Duration.Microseconds()) / 1000,
			})
		})
	}
}
