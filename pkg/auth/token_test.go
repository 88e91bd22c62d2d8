package auth

import (
	"errors"
	"testing"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignedTokenRoundTrip(t *testing.T) {
	token, err := MintToken(testSecret, "svc-docs", []string{ScopeConvertText, ScopeConvertFile}, "bridge", time.Hour)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	verifier := NewSignedTokenVerifier(testSecret, "bridge")
	p, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if p.Subject != "svc-docs" {
		t.Errorf("Subject = %q, want %q", p.Subject, "svc-docs")
	}
	if !p.HasScope(ScopeConvertText) || !p.HasScope(ScopeConvertFile) {
		t.Errorf("Scopes = %v, want convert:text and convert:file", p.Scopes)
	}
	if p.ExpiresAt.Before(time.Now()) {
		t.Errorf("ExpiresAt = %v, want future", p.ExpiresAt)
	}
}

func TestSignedTokenFailures(t *testing.T) {
	expired, err := MintToken(testSecret, "svc-docs", []string{ScopeConvertText}, "bridge", -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	wrongIssuer, err := MintToken(testSecret, "svc-docs", []string{ScopeConvertText}, "other", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	wrongKey, err := MintToken([]byte("ffffffffffffffffffffffffffffffff"), "svc-docs", nil, "bridge", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	noSubject, err := MintToken(testSecret, "", []string{ScopeConvertText}, "bridge", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	verifier := NewSignedTokenVerifier(testSecret, "bridge")

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{name: "garbage token", token: "not.a.jwt", wantMsg: "Malformed token"},
		{name: "expired token", token: expired, wantMsg: "Token has expired"},
		{name: "wrong issuer", token: wrongIssuer, wantMsg: "Invalid token issuer"},
		{name: "wrong signing key", token: wrongKey, wantMsg: "Invalid token signature"},
		{name: "missing subject", token: noSubject, wantMsg: "Token missing subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			var apiErr *apierr.Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("Verify() error = %v, want *apierr.Error", err)
			}
			if apiErr.Code != apierr.CodeUnauthorized {
				t.Errorf("code = %q, want %q", apiErr.Code, apierr.CodeUnauthorized)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestSignedTokenNoIssuerCheck(t *testing.T) {
	token, err := MintToken(testSecret, "svc-docs", nil, "anything", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// Verifier with no configured issuer accepts any iss claim.
	verifier := NewSignedTokenVerifier(testSecret, "")
	if _, err := verifier.Verify(token); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}
