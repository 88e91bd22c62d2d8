// Package apierr defines the error taxonomy shared by every transport
// surface of the gateway.
//
// All expected failures (authentication, authorization, format
// validation, conversion, timeout, size and rate limits) are represented
// as *Error values carrying a stable machine-readable code, a human
// message, a details map, and the HTTP status they map to. Handlers
// return them up the call chain and the transport layer serializes them
// with Write; nothing in the request path panics for an expected failure.
//
// Error bodies always have the shape:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
package apierr
