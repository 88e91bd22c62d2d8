package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"pandoc-hq/bridge/pkg/apierr"
)

// Recovery converts handler panics into INTERNAL_ERROR responses instead
// of dropped connections. Outermost in the chain.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "Handler panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					apierr.Write(w, apierr.NewInternal())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
