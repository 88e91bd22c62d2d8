// Package metrics exposes Prometheus metrics for the bridge gateway:
// HTTP request counts and latencies, conversion outcomes and durations
// by format pair, and rate limiter rejections.
package metrics
