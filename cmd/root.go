package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/config"
	"ledger/internal/logger"
)

var version = "1.0.0"

// cfg is set by Execute, or loaded on first use when main could not load it.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Ledger CLI - manage users, invoices and statements on a ledger API",
	Long: `Ledger CLI is a command-line client for a remote user and invoice API.

It lists, creates, edits and deletes users, records sale and purchase
invoices against them, filters and totals the invoice listing, and exports
the filtered listing as a PDF statement (optionally mirrored to Google Sheets).
Receipts can be scanned into invoice drafts with Google Document AI.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg != nil {
			return nil
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command with the loaded configuration. A nil config
// is loaded again before the first command runs, so a broken environment is
// reported as a command error.
func Execute(c *config.Config) {
	log := logger.WithComponent("cmd")
	cfg = c

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errReported) {
			os.Exit(1)
		}
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Ledger API base URL (overrides LEDGER_API_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-request timeout, e.g. 30s (overrides LEDGER_API_TIMEOUT; 0 = none)")
}
