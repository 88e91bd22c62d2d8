// Package ratelimit provides per-client sliding-window rate limiting for
// the bridge gateway.
//
// Each client keeps a window of request timestamps. A request is allowed
// when the trailing-minute count is under the per-minute ceiling and the
// trailing-second count is under the burst ceiling; both checks run
// before the request is recorded, so a rejected request does not consume
// budget. A cron-scheduled janitor sweeps windows for clients that have
// gone idle.
package ratelimit
