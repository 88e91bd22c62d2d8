package auth

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"pandoc-hq/bridge/pkg/apierr"
)

// expiryLayout is the calendar-date format accepted for key expiry.
const expiryLayout = "2006-01-02"

// KeyEntry is one entry in the static key registry.
type KeyEntry struct {
	// Key is the API key string presented as the bearer credential.
	Key string `yaml:"key"`

	// Expires is an optional ISO calendar date (YYYY-MM-DD). The key is
	// valid through the whole expiry day. An unparseable value is treated
	// as "never expires"; this tolerance is deliberate so a typo in the
	// registry locks nobody out.
	Expires string `yaml:"expires"`

	// Scopes lists the scopes granted to this key. Empty means full
	// access (admin).
	Scopes []string `yaml:"scopes"`
}

// keysFile is the on-disk shape of the registry.
type keysFile struct {
	Keys []KeyEntry `yaml:"keys"`
}

// LoadKeysFile reads the static key registry from a YAML file.
func LoadKeysFile(path string) ([]KeyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keys file %q: %w", path, err)
	}

	var f keysFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse keys file %q: %w", path, err)
	}

	for i, entry := range f.Keys {
		if entry.Key == "" {
			return nil, fmt.Errorf("keys file %q: entry %d has an empty key", path, i)
		}
	}

	return f.Keys, nil
}

// StaticKeyVerifier validates bearer credentials against a registry of
// API keys with optional expiry dates. It is safe for concurrent use and
// supports atomic replacement of the registry for hot reload.
type StaticKeyVerifier struct {
	mu   sync.RWMutex
	keys map[string]KeyEntry
}

// NewStaticKeyVerifier creates a verifier over the given registry entries.
func NewStaticKeyVerifier(entries []KeyEntry) *StaticKeyVerifier {
	v := &StaticKeyVerifier{}
	v.Replace(entries)
	return v
}

// Replace atomically swaps in a new registry. Requests in flight see
// either the old or the new registry, never a mix.
func (v *StaticKeyVerifier) Replace(entries []KeyEntry) {
	keys := make(map[string]KeyEntry, len(entries))
	for _, entry := range entries {
		keys[entry.Key] = entry
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
}

// Len returns the number of registered keys.
func (v *StaticKeyVerifier) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}

// Verify implements Verifier.
func (v *StaticKeyVerifier) Verify(credential string) (*Principal, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.keys) == 0 {
		return nil, apierr.NewAuthentication("No API keys configured")
	}

	entry, ok := v.keys[credential]
	if !ok {
		return nil, apierr.NewAuthentication("Invalid API key")
	}

	if entry.Expires != "" {
		if expiry, err := time.Parse(expiryLayout, entry.Expires); err == nil {
			// Valid through the whole expiry day.
			if time.Now().After(expiry.AddDate(0, 0, 1)) {
				return nil, apierr.NewAuthentication(
					fmt.Sprintf("API key expired on %s", entry.Expires))
			}
		}
		// Unparseable expiry: no expiry.
	}

	scopes := entry.Scopes
	if len(scopes) == 0 {
		scopes = []string{ScopeAdmin}
	}

	// The subject is a redacted key identifier; downstream consumers
	// (logs, audit records) must never see the raw key.
	return &Principal{Subject: RedactKey(entry.Key), Scopes: scopes}, nil
}
