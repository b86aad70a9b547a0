// Package scan turns a receipt or supplier invoice (PDF or image) into an
// invoice form draft.
//
// Document AI extracts the structured entities. When completion is requested,
// fields that still fail validation are looked up in the Vision OCR text, first
// with regular expressions and then with a single OpenAI chat completion.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID
//   - OPENAI_API_KEY (only for completion)
//
// Limits: files up to 20MB; PDF, JPEG, PNG, GIF, WEBP, BMP and TIFF.
package scan

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"

	"ledger/internal/forms"
	"ledger/internal/logger"
)

// MaxDocumentSizeBytes is the synchronous processing limit shared by Document AI and Vision.
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// Field sources reported in Draft.Sources.
const (
	SourceDocumentAI = "document-ai"
	SourceOCR        = "ocr"
	SourceCompletion = "openai"
)

// DocumentProcessor runs a file through a structured document parser.
type DocumentProcessor interface {
	Process(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error)
}

// TextReader extracts the plain text of a file.
type TextReader interface {
	ReadText(ctx context.Context, content []byte, mimeType string) (string, error)
}

// Completer proposes values for the missing form fields from raw text.
// The returned map is keyed by form field name.
type Completer interface {
	Complete(ctx context.Context, text string, form forms.InvoiceForm, missing []string) (map[string]string, error)
}

// Draft is a prefilled invoice form ready for review or submission.
type Draft struct {
	Form       forms.InvoiceForm  `json:"form"`
	MIMEType   string             `json:"mimeType"`
	Confidence map[string]float32 `json:"confidence,omitempty"`
	Sources    map[string]string  `json:"sources,omitempty"`
	Problems   forms.Errors       `json:"problems,omitempty"`
}

// Options control a single scan.
type Options struct {
	// Complete fills missing fields from OCR text and the completion model.
	Complete bool

	// User is copied into the draft so it can be submitted as-is.
	User string
}

// Scanner coordinates extraction and completion.
type Scanner struct {
	processor DocumentProcessor
	reader    TextReader
	completer Completer
	log       zerolog.Logger
}

// NewScanner creates a scanner. reader and completer may be nil; completion
// then falls back to the parser's own text and skips the model call.
func NewScanner(processor DocumentProcessor, reader TextReader, completer Completer) *Scanner {
	return &Scanner{
		processor: processor,
		reader:    reader,
		completer: completer,
		log:       logger.WithComponent("scan"),
	}
}

// Scan extracts a draft from content.
func (s *Scanner) Scan(ctx context.Context, content []byte, opts Options) (*Draft, error) {
	const op = "Scan"

	mimeType, err := DetectMIME(content)
	if err != nil {
		return nil, wrapError(op, err, "")
	}
	if len(content) > MaxDocumentSizeBytes {
		return nil, wrapError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(content)))
	}

	s.log.Info().
		Str("mime_type", mimeType).
		Int("size", len(content)).
		Bool("complete", opts.Complete).
		Msg("Scanning document")

	doc, err := s.processor.Process(ctx, content, mimeType)
	if err != nil {
		return nil, wrapError(op, err, "document extraction failed")
	}

	draft := DraftFromDocument(doc)
	draft.MIMEType = mimeType
	draft.Form.User = strings.TrimSpace(opts.User)

	if opts.Complete {
		if err := s.complete(ctx, draft, content, doc.GetText()); err != nil {
			return nil, wrapError(op, err, "draft completion failed")
		}
	}

	draft.Problems = draftProblems(draft.Form)

	s.log.Info().
		Int("filled", len(draft.Sources)).
		Strs("problems", draft.Problems.Fields()).
		Msg("Scan finished")

	return draft, nil
}

func (s *Scanner) complete(ctx context.Context, draft *Draft, content []byte, fallbackText string) error {
	missing := MissingFields(draft.Form)
	if len(missing) == 0 {
		s.log.Debug().Msg("Draft already complete")
		return nil
	}

	text := fallbackText
	if s.reader != nil {
		ocrText, err := s.reader.ReadText(ctx, content, draft.MIMEType)
		if err != nil {
			return err
		}
		text = ocrText
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyDocument
	}

	for _, field := range ApplyHeuristics(&draft.Form, text, missing) {
		draft.Sources[field] = SourceOCR
	}

	missing = MissingFields(draft.Form)
	if len(missing) == 0 || s.completer == nil {
		return nil
	}

	s.log.Info().Strs("missing_fields", missing).Msg("Requesting completion for missing fields")

	values, err := s.completer.Complete(ctx, text, draft.Form, missing)
	if err != nil {
		return err
	}
	for _, field := range MergeValues(&draft.Form, values, missing) {
		draft.Sources[field] = SourceCompletion
	}
	return nil
}

// MissingFields lists the draft fields that fail validation. The owning user is
// chosen by the operator and never counts as missing here.
func MissingFields(f forms.InvoiceForm) []string {
	return draftProblems(f).Fields()
}

func draftProblems(f forms.InvoiceForm) forms.Errors {
	problems := forms.ValidateInvoice(f, nil)
	if strings.TrimSpace(f.User) == "" {
		delete(problems, forms.FieldUser)
	}
	return problems
}

// DetectMIME sniffs the file type. Only formats both Google APIs accept are allowed.
func DetectMIME(content []byte) (string, error) {
	if bytes.HasPrefix(content, []byte("II*\x00")) || bytes.HasPrefix(content, []byte("MM\x00*")) {
		return "image/tiff", nil
	}

	mimeType := http.DetectContentType(content)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	switch mimeType {
	case "application/pdf", "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp":
		return mimeType, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}
