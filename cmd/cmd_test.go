package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/config"
	"ledger/internal/forms"
	"ledger/internal/gateway"
	"ledger/internal/ledger"
	"ledger/internal/scan"
)

func newFilterCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addListFilterFlags(c)
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestListFilter(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	c := newFilterCommand(t, "--search", " Plot ", "--type", "SALE", "--from", "2024-01-01", "--to", "2024-01-31")
	f, err := listFilter(c)
	require.NoError(t, err)

	assert.Equal(t, " Plot ", f.Query)
	assert.Equal(t, ledger.TypeSale, f.Type)
	assert.True(t, f.Range.Valid())
	assert.Equal(t, 2024, f.Range.Start.Year())
	assert.Equal(t, time.January, f.Range.End.Month())
	assert.Equal(t, 31, f.Range.End.Day())
}

func TestListFilterDefaults(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	f, err := listFilter(newFilterCommand(t))
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeAll, f.Type)
	assert.False(t, f.Range.HasStart())
	assert.False(t, f.Range.HasEnd())
}

func TestListFilterRejectsBadInput(t *testing.T) {
	cfg = &config.Config{}
	t.Cleanup(func() { cfg = nil })

	_, err := listFilter(newFilterCommand(t, "--type", "refund"))
	assert.Error(t, err)

	_, err = listFilter(newFilterCommand(t, "--from", "01/02/2024"))
	assert.Error(t, err)
}

func TestHandleCommandError(t *testing.T) {
	log := zerolog.Nop()

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, handleCommandError(nil, log))
	})

	t.Run("validation errors are listed", func(t *testing.T) {
		err := handleCommandError(fmt.Errorf("wrapped: %w", forms.Errors{"name": "Name is required"}), log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid input")
		assert.Contains(t, err.Error(), "name: Name is required")
	})

	t.Run("gateway failures were already reported", func(t *testing.T) {
		err := handleCommandError(&gateway.APIError{Op: "ListUsers", StatusCode: 500, Err: gateway.ErrHTTPStatus}, log)
		assert.ErrorIs(t, err, errReported)
	})

	t.Run("timeout", func(t *testing.T) {
		err := handleCommandError(fmt.Errorf("op: %w", context.DeadlineExceeded), log)
		assert.Contains(t, err.Error(), "timed out")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := fmt.Errorf("boom")
		assert.Equal(t, boom, handleCommandError(boom, log))
	})
}

func TestHandleScanError(t *testing.T) {
	log := zerolog.Nop()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unsupported", scan.ErrUnsupportedFormat, "unsupported file format"},
		{"too large", scan.ErrDocumentTooLarge, "too large"},
		{"missing configuration", scan.ErrMissingConfiguration, "DOCUMENT_AI_PROCESSOR_ID"},
		{"missing credentials", scan.ErrMissingCredentials, "GOOGLE_APPLICATION_CREDENTIALS"},
		{"quota", scan.ErrQuotaExceeded, "quota exceeded"},
		{"empty", scan.ErrEmptyDocument, "no readable text"},
		{"completion", scan.ErrCompletionFailed, "without --complete"},
		{"canceled", context.Canceled, "canceled"},
		{"unknown", fmt.Errorf("boom"), "scan failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handleScanError(fmt.Errorf("Scan: %w", tt.err), log)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateScanFile(t *testing.T) {
	log := zerolog.Nop()
	dir := t.TempDir()

	receipt := filepath.Join(dir, "receipt.pdf")
	require.NoError(t, os.WriteFile(receipt, []byte("%PDF-1.4\n"), 0o644))
	info, err := validateScanFile(receipt, log)
	require.NoError(t, err)
	assert.Equal(t, "receipt.pdf", info.Name())

	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = validateScanFile(empty, log)
	assert.ErrorContains(t, err, "file is empty")

	_, err = validateScanFile(filepath.Join(dir, "missing.pdf"), log)
	assert.ErrorContains(t, err, "file not found")

	_, err = validateScanFile(dir, log)
	assert.ErrorContains(t, err, "not a regular file")
}

func TestRenderPreview(t *testing.T) {
	out := renderPreview(forms.InvoiceForm{
		SaleType:       "sale",
		Purchase:       "1000",
		Sale:           "1500",
		Quantity:       "2",
		User:           "Ali",
		ClientName:     "Bilal",
		ClientMobile:   "03001234567",
		ClientRefrence: "Plot 14",
	}, "Rs")

	assert.Contains(t, out, "Invoice preview (not submitted)")
	assert.Contains(t, out, "Rs 3,000")
	assert.Contains(t, out, "Rs 1,000")
	assert.Contains(t, out, "Plot 14")
}

func TestRenderFieldErrorsIsSorted(t *testing.T) {
	out := renderFieldErrors(forms.Errors{
		"quantity": "Quantity must be a whole number",
		"name":     "Name is required",
	})
	assert.Less(t, strings.Index(out, "name:"), strings.Index(out, "quantity:"))
}

