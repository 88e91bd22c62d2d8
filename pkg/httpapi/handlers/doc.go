// Package handlers implements the bridge gateway's REST and SSE
// endpoints on top of the conversion service.
package handlers
