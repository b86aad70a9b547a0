package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/logger"
	"ledger/internal/sheets"
	"ledger/internal/statement"
)

var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Export the filtered invoice listing as a PDF statement",
	Long: `Export the invoices matching the listing filters as an A4 PDF statement with
a header, four summary badges, one table row per invoice and a page footer
showing the date range and generation time.

Nothing is exported when the date range is inverted or no invoice matches.

With --sheet the same rows and a totals row are appended to the Google Sheet
configured by GOOGLE_SHEET_URL.`,
	Example: `  # Statement of everything into the current directory
  ledger statement

  # January sales into ./exports
  ledger statement --type sale --from 2024-01-01 --to 2024-01-31 --output-dir exports

  # Also append the rows to Google Sheets
  ledger statement --from 2024-01-01 --sheet`,
	Args: cobra.NoArgs,
	RunE: runStatement,
}

func init() {
	rootCmd.AddCommand(statementCmd)

	addListFilterFlags(statementCmd)
	statementCmd.Flags().StringP("output-dir", "o", "", "Directory for the PDF (default: STATEMENT_OUTPUT_DIR or .)")
	statementCmd.Flags().String("title", statement.DefaultTitle, "Statement title")
	statementCmd.Flags().Bool("sheet", false, "Append the statement rows to the configured Google Sheet")
}

func runStatement(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("statement")

	// Get flags
	outputDir, _ := cmd.Flags().GetString("output-dir")
	title, _ := cmd.Flags().GetString("title")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	filter, err := listFilter(cmd)
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.StatementOutputDir
	}
	if toSheet && cfg.GoogleSheetURL == "" {
		return fmt.Errorf("--sheet needs GOOGLE_SHEET_URL to be set")
	}

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	_, invoices, err := newStores(cmd)
	if err != nil {
		return err
	}

	if err := invoices.Refresh(ctx); err != nil {
		return handleCommandError(err, log)
	}

	res := invoices.View(filter)
	st, err := statement.Build(res, time.Now().In(cfg.Location()), statement.Options{
		Title:          title,
		CurrencyPrefix: cfg.CurrencyPrefix,
		Location:       cfg.Location(),
	})
	switch {
	case errors.Is(err, statement.ErrRangeInvalid):
		fmt.Println(errorStyle.Render("Export unavailable: " + res.RangeErr().Error()))
		return nil
	case errors.Is(err, statement.ErrNothingToExport):
		fmt.Println(mutedStyle.Render("Export unavailable: no invoices match the current filters."))
		return nil
	case err != nil:
		return err
	}

	pdf, err := statement.RenderPDF(st)
	if err != nil {
		log.Error().Err(err).Msg("Failed to render statement")
		return fmt.Errorf("failed to render statement: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outputDir, st.Filename)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", path).
			Msg("Failed to write statement")
		return fmt.Errorf("failed to write statement: %w", err)
	}

	log.Info().
		Str("output_file", path).
		Int("records", st.Records).
		Int("bytes", len(pdf)).
		Msg("Statement written")
	fmt.Printf("%s %s (%d records)\n", titleStyle.Render("Statement saved:"), path, st.Records)

	if !toSheet {
		return nil
	}

	svc, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}
	if err := svc.WriteStatement(ctx, st, cfg.GoogleSheetWorksheet); err != nil {
		log.Error().Err(err).Str("sheet", cfg.GoogleSheetWorksheet).Msg("Failed to write statement to sheet")
		return fmt.Errorf("the PDF was saved but the sheet update failed: %w", err)
	}

	fmt.Printf("%s %s\n", titleStyle.Render("Rows appended to sheet:"), cfg.GoogleSheetWorksheet)
	return nil
}
