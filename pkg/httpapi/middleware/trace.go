package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"pandoc-hq/bridge/pkg/telemetry/metrics"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// TraceID returns the request's trace ID, or "" outside a traced request.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// responseWriter captures the status code and stamps timing headers at
// the moment the response starts.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	started    time.Time
	wrote      bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wrote {
		rw.wrote = true
		rw.statusCode = code
		elapsed := float64(time.Since(rw.started).Microseconds()) / 1000
		rw.Header().Set("X-Response-Time", fmt.Sprintf("%.2fms", elapsed))
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer so SSE handlers keep working
// through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Trace assigns each request a trace ID (honouring an inbound X-Trace-ID
// header), logs entry and exit, echoes the ID on the response, and feeds
// the request metrics.
func Trace(logger *slog.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if traceID == "" {
				traceID = uuid.NewString()[:8]
			}

			ctx := context.WithValue(r.Context(), traceIDKey, traceID)
			w.Header().Set("X-Trace-ID", traceID)

			start := time.Now()
			logger.InfoContext(ctx, "Request started",
				"trace_id", traceID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK, started: start}
			next.ServeHTTP(rw, r.WithContext(ctx))

			elapsed := time.Since(start)
			logger.InfoContext(ctx, "Request completed",
				"trace_id", traceID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", float64(elapsed.Microseconds())/1000,
			)

			if collector != nil {
				collector.RecordRequest(r.URL.Path, r.Method, fmt.Sprintf("%d", rw.statusCode), elapsed)
			}
		})
	}
}
