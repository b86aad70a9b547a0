package scan

import (
	"errors"
	"fmt"
)

// Common scanning errors
var (
	// ErrUnsupportedFormat is returned when the file is neither a PDF nor a supported image.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrDocumentTooLarge is returned when the file exceeds the synchronous processing limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")

	// ErrMissingConfiguration is returned when a required cloud setting is absent.
	ErrMissingConfiguration = errors.New("missing scan configuration")

	// ErrMissingCredentials is returned when no Google Cloud credentials are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials")

	// ErrInvalidCredentials is returned when the credentials lack the needed permissions.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrProcessorNotFound is returned when the Document AI processor does not exist.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrQuotaExceeded is returned when the Google API quota is exhausted.
	ErrQuotaExceeded = errors.New("Google API quota exceeded")

	// ErrProcessingFailed is returned when Document AI cannot process the file.
	ErrProcessingFailed = errors.New("document processing failed")

	// ErrOCRFailed is returned when Vision returns no usable text.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrEmptyDocument is returned when the file contains no readable text.
	ErrEmptyDocument = errors.New("document contains no readable text")

	// ErrCompletionFailed is returned when the completion model gives no usable answer.
	ErrCompletionFailed = errors.New("draft completion failed")
)

// ScanError wraps errors with the failing operation and some context.
type ScanError struct {
	// Op is the operation that failed (e.g., "Process", "ReadText").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("scan: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("scan: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is matches the underlying error.
func (e *ScanError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps err as a ScanError unless it already is one.
func wrapError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var scanErr *ScanError
	if errors.As(err, &scanErr) {
		return err
	}

	return &ScanError{Op: op, Err: err, Details: details}
}
