package auth

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"pandoc-hq/bridge/pkg/apierr"
)

// tokenClaims is the claim set carried by a signed bearer token.
type tokenClaims struct {
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub"`
	Scopes    []string `json:"scopes"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
}

// SignedTokenVerifier validates HMAC-signed bearer tokens. The token is
// self-describing: subject, scopes, and expiry travel inside the signed
// claim set, so no registry lookup is needed.
type SignedTokenVerifier struct {
	secret []byte
	issuer string
}

// NewSignedTokenVerifier creates a verifier using the given HMAC secret.
// If issuer is non-empty, the token "iss" claim must match it.
func NewSignedTokenVerifier(secret []byte, issuer string) *SignedTokenVerifier {
	return &SignedTokenVerifier{secret: secret, issuer: issuer}
}

// Verify implements Verifier. Malformed tokens and expired tokens fail
// with distinct messages, both surfaced as UNAUTHORIZED.
func (v *SignedTokenVerifier) Verify(credential string) (*Principal, error) {
	tok, err := jwt.ParseSigned(credential, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, apierr.NewAuthentication("Malformed token")
	}

	var claims tokenClaims
	if err := tok.Claims(v.secret, &claims); err != nil {
		return nil, apierr.NewAuthentication("Invalid token signature")
	}

	now := time.Now().Unix()
	if claims.ExpiresAt > 0 && claims.ExpiresAt < now {
		return nil, apierr.NewAuthentication("Token has expired")
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, apierr.NewAuthentication("Invalid token issuer")
	}

	if claims.Subject == "" {
		return nil, apierr.NewAuthentication("Token missing subject")
	}

	p := &Principal{
		Subject: claims.Subject,
		Scopes:  claims.Scopes,
	}
	if claims.IssuedAt > 0 {
		p.IssuedAt = time.Unix(claims.IssuedAt, 0)
	}
	if claims.ExpiresAt > 0 {
		p.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}

	return p, nil
}

// MintToken creates a signed bearer token for the given subject and scopes.
// Used by the token subcommand and by tests; the server itself only
// verifies.
func MintToken(secret []byte, subject string, scopes []string, issuer string, ttl time.Duration) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	now := time.Now()
	claims := tokenClaims{
		Issuer:    issuer,
		Subject:   subject,
		Scopes:    scopes,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}
