package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// RedactKey returns a stable, non-reversible identifier for an API key.
// It becomes the principal subject in static-key mode, so the raw key
// never reaches logs or the audit trail. Twelve hex characters are
// enough to tell registry entries apart.
//
// Returns an empty string for an empty key.
func RedactKey(key string) string {
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return "sha256:" + hex.EncodeToString(sum[:])[:12]
}
