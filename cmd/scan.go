package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ledger/internal/logger"
	"ledger/internal/scan"
)

// defaultScanTimeout bounds a scan when --timeout is not given.
const defaultScanTimeout = 120 * time.Second

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Draft an invoice from a receipt using Google Document AI",
	Long: `Scan a purchase receipt or supplier invoice (PDF or image) with Google
Document AI and print the prefilled invoice form as JSON.

With --complete, fields the parser could not find are filled from the OCR text
(Google Vision) and, when OPENAI_API_KEY is set, from a completion model. Every
filled field is listed under "sources".

With --submit the draft is validated and recorded against --user, exactly as
"invoices add" would.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_CLOUD_LOCATION - Processing location (us, eu, etc.)
  DOCUMENT_AI_PROCESSOR_ID - Your Document AI invoice or expense processor ID`,
	Example: `  # Draft to stdout
  ledger scan receipt.pdf

  # Fill gaps from OCR text and the completion model, save to a file
  ledger scan receipt.jpg --complete -o draft.json

  # Scan and record the purchase for a user
  ledger scan receipt.pdf --complete --submit --user "Ali Raza"`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("complete", false, "Fill missing fields from OCR text and the completion model")
	scanCmd.Flags().Bool("submit", false, "Submit the draft as an invoice")
	scanCmd.Flags().StringP("user", "u", "", "Owning user's name (required with --submit)")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	// Get flags
	outputPath, _ := cmd.Flags().GetString("output")
	complete, _ := cmd.Flags().GetBool("complete")
	submit, _ := cmd.Flags().GetBool("submit")
	user, _ := cmd.Flags().GetString("user")
	timeout := defaultScanTimeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	path := args[0]
	if submit && strings.TrimSpace(user) == "" {
		return fmt.Errorf("--submit needs --user")
	}

	log.Info().
		Str("file", path).
		Str("output", outputPath).
		Bool("complete", complete).
		Bool("submit", submit).
		Dur("timeout", timeout).
		Msg("Starting scan")

	if _, err := validateScanFile(path, log); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", path).
			Msg("Failed to read file")
		return fmt.Errorf("failed to read file: %w", err)
	}

	ctx, cancel := createCommandContext(timeout, log)
	defer cancel()

	scanner, closeAll, err := createScanner(ctx, complete, log)
	if err != nil {
		return err
	}
	defer closeAll()

	startTime := time.Now()
	draft, err := scanner.Scan(ctx, content, scan.Options{Complete: complete, User: user})
	if err != nil {
		return handleScanError(err, log)
	}

	log.Info().
		Str("file", filepath.Base(path)).
		Str("mime_type", draft.MIMEType).
		Strs("problems", draft.Problems.Fields()).
		Dur("duration", time.Since(startTime)).
		Msg("Scan completed")

	if err := outputJSON(draft, outputPath, log); err != nil {
		return err
	}

	if !submit {
		return nil
	}

	users, invoices, err := newStores(cmd)
	if err != nil {
		return err
	}
	if err := users.Refresh(ctx); err != nil {
		return handleCommandError(err, log)
	}
	if _, err := invoices.Create(ctx, draft.Form, users.Names()); err != nil {
		return handleCommandError(err, log)
	}
	return nil
}

// validateScanFile checks that path is a non-empty regular file within the size limit.
func validateScanFile(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", path).
				Msg("Scan file not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", path).
				Msg("Permission denied accessing file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}

	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	if fileInfo.Size() > scan.MaxDocumentSizeBytes {
		log.Error().
			Str("file", path).
			Int64("size", fileInfo.Size()).
			Int64("max_size", scan.MaxDocumentSizeBytes).
			Msg("File exceeds maximum size limit")
		return nil, fmt.Errorf("file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), scan.MaxDocumentSizeBytes)
	}

	return fileInfo, nil
}

// createScanner wires the Document AI processor and, for completion, the
// Vision reader and the completion model. The returned func closes the clients.
func createScanner(ctx context.Context, complete bool, log zerolog.Logger) (*scan.Scanner, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn().Err(err).Msg("Failed to close client")
			}
		}
	}

	processor, err := scan.NewDocumentAIProcessor(ctx, scan.DocumentAIConfig{
		ProjectID:        cfg.GoogleCloudProject,
		Location:         cfg.GoogleCloudLocation,
		ProcessorID:      cfg.DocumentAIProcessorID,
		ProcessorVersion: cfg.DocumentAIProcessorVersion,
	})
	if err != nil {
		return nil, nil, handleScanError(err, log)
	}
	closers = append(closers, processor.Close)

	if !complete {
		return scan.NewScanner(processor, nil, nil), closeAll, nil
	}

	// Without Vision the parser's own text is used
	var reader scan.TextReader
	vr, err := scan.NewVisionReader(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Vision OCR unavailable, using the parser's text")
	} else {
		reader = vr
		closers = append(closers, vr.Close)
	}

	var completer scan.Completer
	if cfg.OpenAIAPIKey != "" {
		c, err := scan.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			closeAll()
			return nil, nil, handleScanError(err, log)
		}
		completer = c
	} else {
		log.Debug().Msg("OPENAI_API_KEY not set, skipping model completion")
	}

	return scan.NewScanner(processor, reader, completer), closeAll, nil
}

// handleScanError provides user-friendly error messages for scan failures
func handleScanError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Scan failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("scan timed out. Try increasing --timeout or scanning a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("scan was canceled")
	case errors.Is(err, scan.ErrUnsupportedFormat):
		return fmt.Errorf("unsupported file format. Use a PDF, JPEG, PNG, GIF, TIFF, BMP or WebP file")
	case errors.Is(err, scan.ErrDocumentTooLarge):
		return fmt.Errorf("file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, scan.ErrMissingConfiguration):
		return fmt.Errorf("Document AI is not configured. Please check your .env file:\n"+
			"  GOOGLE_CLOUD_PROJECT - your Google Cloud project ID\n"+
			"  GOOGLE_CLOUD_LOCATION - processing location (us, eu, etc.)\n"+
			"  DOCUMENT_AI_PROCESSOR_ID - your Document AI processor ID\n"+
			"Original error: %w", err)
	case errors.Is(err, scan.ErrMissingCredentials):
		return fmt.Errorf("missing Google Cloud credentials. Please set one of:\n"+
			"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n"+
			"  GOOGLE_CREDENTIALS='<json-credentials>'\n"+
			"Original error: %w", err)
	case errors.Is(err, scan.ErrInvalidCredentials):
		return fmt.Errorf("Google Cloud authentication failed. Ensure the service account has the 'Document AI API User' role: %w", err)
	case errors.Is(err, scan.ErrProcessorNotFound):
		return fmt.Errorf("Document AI processor not found. Please check DOCUMENT_AI_PROCESSOR_ID")
	case errors.Is(err, scan.ErrQuotaExceeded):
		return fmt.Errorf("Google API quota exceeded. Check your project quotas in Google Cloud Console")
	case errors.Is(err, scan.ErrEmptyDocument):
		return fmt.Errorf("no readable text found. The file may be blank or too low quality")
	case errors.Is(err, scan.ErrCompletionFailed):
		return fmt.Errorf("draft completion failed. Retry without --complete or check OPENAI_API_KEY: %w", err)
	case errors.Is(err, scan.ErrProcessingFailed), errors.Is(err, scan.ErrOCRFailed):
		return fmt.Errorf("document processing failed. This may be due to network issues or service unavailability: %w", err)
	default:
		return fmt.Errorf("scan failed: %w", err)
	}
}
