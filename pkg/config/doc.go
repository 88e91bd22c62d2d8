// Package config provides configuration loading and validation for the
// bridge gateway.
//
// Configuration is read from a YAML file, filled in with defaults, and then
// overridden by BRIDGE_* environment variables. The final configuration is
// validated before the server starts; a configuration the server cannot run
// with is a startup error, never a runtime surprise.
//
// Loading sequence:
//  1. Parse YAML file (a missing file falls back to pure defaults)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate
package config
