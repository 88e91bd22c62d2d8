package auth

import (
	"fmt"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
)

// ScopeAdmin satisfies every scope check.
const ScopeAdmin = "admin"

// Scopes guarding the conversion operations.
const (
	ScopeConvertText = "convert:text"
	ScopeConvertFile = "convert:file"
)

// Principal is the authenticated identity derived from a credential.
// It is constructed fresh per request and never mutated afterwards.
type Principal struct {
	// Subject identifies the client or key.
	Subject string

	// Scopes is the set of permitted scope names.
	Scopes []string

	// IssuedAt and ExpiresAt are populated only by the signed-token
	// verifier; static keys carry at most a calendar expiry.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasScope reports whether the principal holds the given scope. The admin
// scope implies every other scope.
func (p *Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == ScopeAdmin || s == scope {
			return true
		}
	}
	return false
}

// RequireScope returns a FORBIDDEN error unless the principal holds the
// given scope (or admin).
func (p *Principal) RequireScope(scope string) error {
	if p.HasScope(scope) {
		return nil
	}
	return apierr.NewAuthorization(
		fmt.Sprintf("Missing required scope: %s", scope),
		[]string{scope},
	)
}

// Verifier validates a raw bearer credential and yields a Principal.
// Failures are UNAUTHORIZED *apierr.Error values.
type Verifier interface {
	Verify(credential string) (*Principal, error)
}
