// Package auth provides credential verification and scope authorization
// for the bridge gateway.
//
// A Verifier turns a raw bearer credential into a Principal carrying a
// subject and a scope set. Two verifier implementations exist, selected
// once at startup by configuration and never mixed at runtime:
//
//   - StaticKeyVerifier validates API keys against a YAML registry of
//     key → optional expiry date, optionally hot-reloaded on file change.
//   - SignedTokenVerifier validates HMAC-signed tokens carrying subject,
//     scopes, issued-at, and expiry claims.
//
// The Authenticator wraps a Verifier as a request-pipeline gate with two
// entry points: Authenticate (mandatory, typed failure) and Optional
// (anonymous degradation). The "admin" scope satisfies every scope check.
package auth
