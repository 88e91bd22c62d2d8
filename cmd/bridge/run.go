package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pandoc-hq/bridge/pkg/audit"
	"pandoc-hq/bridge/pkg/auth"
	"pandoc-hq/bridge/pkg/config"
	"pandoc-hq/bridge/pkg/convert"
	"pandoc-hq/bridge/pkg/httpapi/handlers"
	"pandoc-hq/bridge/pkg/ratelimit"
	"pandoc-hq/bridge/pkg/server"
	"pandoc-hq/bridge/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bridge gateway",
	Long: `Start the bridge gateway with the specified configuration.

Examples:
  # Start with default config
  bridge run

  # Start with custom config
  bridge run --config /etc/bridge/config.yaml

  # Override listen address
  bridge run --listen 0.0.0.0:8080

  # Validate config without starting the server
  bridge run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger := newLogger(cfg.Telemetry.Logging)
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conversion engine and format registry.
	engine := convert.NewPandocEngine(cfg.Conversion.EngineBinary, cfg.Conversion.Timeout)
	registry := convert.NewRegistry(engine)
	service := convert.NewService(engine, registry)

	logger.Info("Conversion engine configured",
		"binary", cfg.Conversion.EngineBinary,
		"version", engine.Version(ctx),
		"timeout", cfg.Conversion.Timeout.String(),
	)

	// Metrics.
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics.Namespace)
	}

	// Authentication.
	verifier, watcher, err := buildVerifier(cfg, logger)
	if err != nil {
		return err
	}
	var authMetrics auth.FailureCounter
	if collector != nil {
		authMetrics = collector
	}
	authn := auth.NewAuthenticator(verifier, logger, authMetrics)

	if watcher != nil {
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("Key registry watcher failed", "error", err)
			}
		}()
	}

	// Rate limiting with a scheduled janitor.
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
		janitor := ratelimit.NewJanitor(limiter, cfg.RateLimit.JanitorSchedule, cfg.RateLimit.IdleTTL, logger)
		if err := janitor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start rate limit janitor: %w", err)
		}
		defer janitor.Stop()
	}

	// Audit trail.
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		store, err := audit.OpenStore(cfg.Audit.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer store.Close()

		recorder = audit.NewRecorder(store, cfg.Audit.BufferSize, logger)
		defer recorder.Close()

		logger.Info("Audit trail enabled", "path", cfg.Audit.SQLitePath)
	}

	handler := handlers.New(cfg, service, authn, recorder, collector, logger, Version)
	srv := server.New(cfg, logger, handler, limiter, collector)

	return srv.Start(ctx)
}

// buildVerifier constructs the credential verifier for the configured
// auth mode, plus a keys watcher when hot reload is on.
func buildVerifier(cfg *config.Config, logger *slog.Logger) (auth.Verifier, *auth.KeysWatcher, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeStaticKeys:
		entries, err := auth.LoadKeysFile(cfg.Auth.KeysFile)
		if err != nil {
			// Start with an empty registry; every request fails until
			// the file appears and hot reload picks it up.
			logger.Warn("Failed to load keys file, starting with empty registry",
				"path", cfg.Auth.KeysFile,
				"error", err,
			)
		}
		verifier := auth.NewStaticKeyVerifier(entries)
		logger.Info("Static key auth enabled", "keys", verifier.Len())

		var watcher *auth.KeysWatcher
		if cfg.Auth.WatchKeys {
			watcher = auth.NewKeysWatcher(cfg.Auth.KeysFile, verifier, logger)
		}
		return verifier, watcher, nil

	case config.AuthModeSignedTokens:
		logger.Info("Signed token auth enabled", "issuer", cfg.Auth.Issuer)
		return auth.NewSignedTokenVerifier([]byte(cfg.Auth.SigningSecret), cfg.Auth.Issuer), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported auth mode: %s", cfg.Auth.Mode)
	}
}

// newLogger builds the process logger per the telemetry config.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
