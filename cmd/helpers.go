package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ledger/internal/forms"
	"ledger/internal/gateway"
	"ledger/internal/ledger"
	"ledger/internal/notify"
	"ledger/internal/store"
)

// errReported marks failures the console notifier has already shown.
var errReported = errors.New("failure already reported")

// createCommandContext creates a context cancelled on SIGINT/SIGTERM and,
// when timeout is positive, after timeout.
func createCommandContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// newGatewayClient builds the API client from config and the persistent flags.
func newGatewayClient(cmd *cobra.Command) (*gateway.Client, error) {
	baseURL := cfg.APIURL
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		baseURL = v
	}

	timeout := cfg.APITimeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	return gateway.NewClient(baseURL, gateway.WithTimeout(timeout))
}

// newStores wires both stores to one client and a console notifier on stderr.
func newStores(cmd *cobra.Command) (*store.Users, *store.Invoices, error) {
	client, err := newGatewayClient(cmd)
	if err != nil {
		return nil, nil, err
	}
	n := notify.NewConsole(os.Stderr)
	return store.NewUsers(client, n), store.NewInvoices(client, n), nil
}

// handleCommandError turns errors into user-facing messages. Gateway failures
// have already been shown by the notifier, so only the exit status remains.
func handleCommandError(err error, log zerolog.Logger) error {
	if err == nil {
		return nil
	}

	if fe, ok := forms.AsErrors(err); ok {
		log.Debug().Strs("fields", fe.Fields()).Msg("Form validation failed")
		return fmt.Errorf("invalid input:\n%s", renderFieldErrors(fe))
	}

	log.Error().Err(err).Msg("Command failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request timed out. Try a larger --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.Is(err, ledger.ErrEndBeforeStart):
		return ledger.ErrEndBeforeStart
	case errors.Is(err, gateway.ErrTransport),
		errors.Is(err, gateway.ErrHTTPStatus),
		errors.Is(err, gateway.ErrRejected),
		errors.Is(err, gateway.ErrDecode),
		errors.Is(err, gateway.ErrMissingID):
		return errReported
	default:
		return err
	}
}

// outputJSON writes v as indented JSON to outputPath, or to stdout when empty.
func outputJSON(v any, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath == "" {
		if _, err := os.Stdout.Write(append(jsonData, '\n')); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(jsonData)).
		Msg("Output written to file")
	return nil
}

// listFilter reads the shared listing flags into a filter.
func listFilter(cmd *cobra.Command) (ledger.Filter, error) {
	query, _ := cmd.Flags().GetString("search")
	typeFlag, _ := cmd.Flags().GetString("type")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	txnType, err := ledger.ParseTypeFilter(typeFlag)
	if err != nil {
		return ledger.Filter{}, err
	}

	r, err := ledger.ParseDateRange(from, to, cfg.Location())
	if err != nil {
		return ledger.Filter{}, err
	}

	return ledger.Filter{Query: query, Type: txnType, Range: r}, nil
}

func addListFilterFlags(c *cobra.Command) {
	c.Flags().StringP("search", "s", "", "Case-insensitive text search across invoice fields")
	c.Flags().StringP("type", "t", "all", "Transaction type: all, sale or purchase")
	c.Flags().String("from", "", "Start date, inclusive (YYYY-MM-DD)")
	c.Flags().String("to", "", "End date, inclusive (YYYY-MM-DD)")
}
