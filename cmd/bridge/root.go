package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Bridge - document conversion gateway for pandoc",
	Long: `Bridge is an HTTP gateway that turns a local pandoc binary into an
authenticated network service.

It provides:
  - Text, file, base64 and batch conversion endpoints
  - Streaming conversions with SSE progress events
  - API key and signed token authentication with scopes
  - Per-client rate limiting and request tracing
  - Prometheus metrics and a metadata-only audit trail`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}
