package auth

import (
	"strings"

	"pandoc-hq/bridge/pkg/apierr"
)

// ExtractBearer extracts the credential from an Authorization header value.
// The header must be exactly two space-separated tokens with a
// case-insensitive "Bearer" scheme.
func ExtractBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", apierr.NewAuthentication("Missing Authorization header")
	}

	parts := strings.Fields(authorization)
	if len(parts) != 2 {
		return "", apierr.NewAuthentication("Invalid Authorization header format")
	}

	if !strings.EqualFold(parts[0], "Bearer") {
		return "", apierr.NewAuthentication("Invalid authentication scheme, expected 'Bearer'")
	}

	return parts[1], nil
}
