// Package httpapi defines the REST wire types and response helpers
// shared by the bridge gateway's handlers.
package httpapi
