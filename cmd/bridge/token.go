package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pandoc-hq/bridge/pkg/auth"
	"pandoc-hq/bridge/pkg/config"
)

var tokenFlags struct {
	subject string
	scopes  []string
	ttl     time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a signed access token",
	Long: `Mint a signed access token using the signing secret from the
configuration. The gateway must run in signed_tokens auth mode for the
token to be accepted.

Examples:
  # Token for text conversion, valid one day
  bridge token --subject ci-docs --scope convert:text --ttl 24h

  # Full-access token
  bridge token --subject ops --scope admin`,
	RunE: mintToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVarP(&tokenFlags.subject, "subject", "s", "", "token subject (required)")
	tokenCmd.Flags().StringSliceVar(&tokenFlags.scopes, "scope", []string{auth.ScopeConvertText}, "granted scopes (repeatable)")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}

func mintToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Auth.SigningSecret == "" {
		return fmt.Errorf("auth.signing_secret is not configured")
	}

	token, err := auth.MintToken([]byte(cfg.Auth.SigningSecret), tokenFlags.subject, tokenFlags.scopes, cfg.Auth.Issuer, tokenFlags.ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
