package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"pandoc-hq/bridge/pkg/apierr"
)

type contextKey string

const principalKey contextKey = "auth_principal"

// GetPrincipal retrieves the authenticated principal from a request context.
// The second return is false for unauthenticated (anonymous) requests.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the given principal. Exported
// for handler tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FailureCounter counts rejected requests by kind ("unauthorized" or
// "forbidden"). The metrics collector implements it.
type FailureCounter interface {
	RecordAuthFailure(kind string)
}

// Authenticator is the request-pipeline gate in front of a Verifier.
type Authenticator struct {
	verifier Verifier
	logger   *slog.Logger
	metrics  FailureCounter
}

// NewAuthenticator creates an authenticator over the given verifier.
// metrics may be nil.
func NewAuthenticator(verifier Verifier, logger *slog.Logger, metrics FailureCounter) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{verifier: verifier, logger: logger, metrics: metrics}
}

func (a *Authenticator) recordFailure(kind string) {
	if a.metrics != nil {
		a.metrics.RecordAuthFailure(kind)
	}
}

// Authenticate extracts and verifies the request credential. Failures are
// UNAUTHORIZED *apierr.Error values.
func (a *Authenticator) Authenticate(r *http.Request) (*Principal, error) {
	credential, err := ExtractBearer(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}
	return a.verifier.Verify(credential)
}

// Optional verifies the credential if one is present. A missing or
// invalid credential yields (nil, nil): public routes serve the request
// anonymously rather than turning a stale key into an outage.
func (a *Authenticator) Optional(r *http.Request) (*Principal, error) {
	if r.Header.Get("Authorization") == "" {
		return nil, nil
	}

	principal, err := a.Authenticate(r)
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) && apiErr.Code == apierr.CodeUnauthorized {
			a.logger.DebugContext(r.Context(), "Ignoring invalid credential on public route",
				"path", r.URL.Path,
				"error", err,
			)
			return nil, nil
		}
		return nil, err
	}
	return principal, nil
}

// RequireAuth wraps a handler with mandatory authentication and a scope
// check. The authenticated principal is stored in the request context.
func (a *Authenticator) RequireAuth(scope string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Authenticate(r)
		if err != nil {
			a.logger.WarnContext(r.Context(), "Authentication failed",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"error", err,
			)
			a.recordFailure("unauthorized")
			apierr.Write(w, err)
			return
		}

		if err := principal.RequireScope(scope); err != nil {
			a.logger.WarnContext(r.Context(), "Authorization failed",
				"path", r.URL.Path,
				"subject", principal.Subject,
				"required_scope", scope,
			)
			a.recordFailure("forbidden")
			apierr.Write(w, err)
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth wraps a handler with best-effort authentication: a missing
// or invalid credential proceeds anonymously.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Optional(r)
		if err != nil {
			apierr.Write(w, err)
			return
		}

		ctx := r.Context()
		if principal != nil {
			ctx = WithPrincipal(ctx, principal)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
