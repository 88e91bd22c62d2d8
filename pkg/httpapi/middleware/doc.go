// Package middleware contains the HTTP middleware chain for the bridge
// gateway: panic recovery, request tracing, CORS, and rate limiting.
//
// Ordering matters: recovery wraps everything, tracing runs next so every
// response (including 429s) carries trace headers, then rate limiting,
// then the route handlers with their own auth gates.
package middleware
