package config

import "time"

// Auth backend modes. Exactly one is active per deployment.
const (
	// AuthModeStaticKeys validates bearer credentials against a configured
	// registry of API keys with optional expiry dates. This is the default.
	AuthModeStaticKeys = "static_keys"

	// AuthModeSignedTokens validates bearer credentials as signed tokens
	// carrying subject, scopes, and expiry claims.
	AuthModeSignedTokens = "signed_tokens"
)

// Config is the root configuration structure for the bridge gateway.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Auth selects and configures the credential verification backend.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit configures the per-client sliding-window rate limiter.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Conversion configures the external conversion engine invocation.
	Conversion ConversionConfig `yaml:"conversion"`

	// Audit configures the optional conversion audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Must exceed the conversion timeout or long conversions and
	// event streams are cut off mid-flight. Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size. Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted. Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists origins allowed to call the API.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Authorization", "Content-Type", "X-Trace-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists response headers exposed to browser clients.
	// Default: ["X-Trace-ID", "X-Response-Time"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache duration in seconds. Default: 3600
	MaxAge int `yaml:"max_age"`
}

// AuthConfig selects and configures the credential verification backend.
type AuthConfig struct {
	// Mode selects the verification backend: "static_keys" or
	// "signed_tokens". The two are never mixed at runtime.
	// Default: "static_keys"
	Mode string `yaml:"mode"`

	// KeysFile is the path to the YAML registry of static API keys.
	// Used only in static_keys mode.
	KeysFile string `yaml:"keys_file"`

	// WatchKeys enables hot reload of the keys file on change.
	// Default: true
	WatchKeys bool `yaml:"watch_keys"`

	// SigningSecret is the HMAC secret for signed-token verification.
	// Used only in signed_tokens mode; must be at least 32 bytes.
	// Typically supplied via BRIDGE_AUTH_SIGNING_SECRET.
	SigningSecret string `yaml:"signing_secret"`

	// Issuer, when set, is required to match the token "iss" claim in
	// signed_tokens mode.
	Issuer string `yaml:"issuer"`
}

// RateLimitConfig configures the sliding-window rate limiter.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is applied. Default: true
	Enabled bool `yaml:"enabled"`

	// RequestsPerMinute is the 60-second window ceiling per client.
	// Default: 60
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// BurstSize is the 1-second window ceiling per client. Default: 10
	BurstSize int `yaml:"burst_size"`

	// JanitorSchedule is a cron expression for sweeping idle client
	// windows out of the tracking map. Default: "@every 5m"
	JanitorSchedule string `yaml:"janitor_schedule"`

	// IdleTTL is how long a client window may sit empty before the
	// janitor drops it. Default: 5m
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// ConversionConfig configures the external conversion engine.
type ConversionConfig struct {
	// EngineBinary is the conversion engine executable name or path.
	// Default: "pandoc"
	EngineBinary string `yaml:"engine_binary"`

	// Timeout is the maximum duration for a single engine invocation.
	// On expiry the child process is killed and reaped before the
	// timeout error is returned. Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxFileSizeMB is the upload size ceiling in megabytes. Default: 50
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload size ceiling in bytes.
func (c ConversionConfig) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// AuditConfig configures the conversion audit trail.
type AuditConfig struct {
	// Enabled controls whether conversion metadata is recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file path.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// BufferSize is the async recorder queue depth; records are dropped
	// (and counted) rather than blocking request handling when the queue
	// is full. Default: 1024
	BufferSize int `yaml:"buffer_size"`
}

// TelemetryConfig contains logging and metrics configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text". Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served. Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path. Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix. Default: "bridge"
	Namespace string `yaml:"namespace"`
}
