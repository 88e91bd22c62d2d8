// Package convert orchestrates document conversion through an external
// pandoc binary.
//
// The package splits responsibilities three ways: Engine executes the
// binary with a deadline and turns process failures into typed errors,
// Registry knows which formats the engine supports (discovered lazily
// from the binary, falling back to a built-in catalog when pandoc is
// absent), and Service validates requests, stages temporary files for
// file conversions, and assembles Results.
package convert
