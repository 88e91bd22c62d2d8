package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pandoc-hq/bridge/pkg/audit"
	"pandoc-hq/bridge/pkg/config"
)

var auditFlags struct {
	limit int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent entries from the audit trail",
	Long: `List the most recent conversion records from the audit database.

Examples:
  # Last 20 conversions
  bridge audit

  # Last 100
  bridge audit --limit 100`,
	RunE: showAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().IntVarP(&auditFlags.limit, "limit", "n", 20, "number of records to show")
}

func showAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := audit.OpenStore(cfg.Audit.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), auditFlags.limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No audit records.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTRACE\tSUBJECT\tOP\tFROM\tTO\tBYTES\tMS\tSTATUS")
	for _, rec := range records {
		status := rec.Status
		if rec.ErrorCode != "" {
			status = fmt.Sprintf("%s (%s)", rec.Status, rec.ErrorCode)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.TraceID, rec.Subject, rec.Operation,
			rec.FromFormat, rec.ToFormat,
			rec.InputBytes, rec.DurationMs, status,
		)
	}
	return w.Flush()
}
