package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"pandoc-hq/bridge/pkg/apierr"
	"pandoc-hq/bridge/pkg/ratelimit"
	"pandoc-hq/bridge/pkg/telemetry/metrics"
)

// rateLimitExempt are paths probed by load balancers and humans; limiting
// them starves health checks during an unrelated client's burst.
var rateLimitExempt = map[string]bool{
	"/":       true,
	"/health": true,
}

// RateLimit rejects over-limit clients with 429 and a Retry-After hint.
func RateLimit(limiter *ratelimit.Limiter, logger *slog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	const retryAfterSeconds = 60

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rateLimitExempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			clientID := ratelimit.ClientID(r)
			if !limiter.Allow(clientID) {
				logger.WarnContext(r.Context(), "Rate limit exceeded",
					"client", clientID,
					"path", r.URL.Path,
				)
				if collector != nil {
					collector.RecordRateLimitRejection()
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				apierr.Write(w, apierr.NewRateLimited(retryAfterSeconds))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
