// Bridge is a document-conversion gateway in front of a pandoc binary.
//
// It exposes authenticated REST and SSE endpoints for text, file, batch
// and streaming conversions, with per-client rate limiting, request
// tracing, Prometheus metrics, and a metadata-only audit trail.
//
// Usage:
//
//	# Start the gateway with the default configuration
//	bridge run
//
//	# Start with a custom configuration file
//	bridge run --config /etc/bridge/config.yaml
//
//	# Mint a signed access token (signed_tokens auth mode)
//	bridge token --subject ci-docs --scope convert:text --ttl 24h
//
//	# Inspect the audit trail
//	bridge audit --limit 50
//
//	# Show version information
//	bridge version
package main

func main() {
	Execute()
}
