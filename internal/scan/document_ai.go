package scan

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"ledger/internal/forms"
	"ledger/internal/logger"
	"ledger/pkg/models"
)

// DocumentAIConfig holds the Document AI processor coordinates.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location ("us" or "eu").
	Location string

	// ProcessorID is the invoice or expense parser processor ID.
	ProcessorID string

	// ProcessorVersion pins a processor version. Empty uses the default.
	ProcessorVersion string

	// Timeout bounds a single ProcessDocument call. Default: 60 seconds.
	Timeout time.Duration
}

// DocumentAIProcessor implements DocumentProcessor using Google Document AI.
type DocumentAIProcessor struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIProcessor creates a processor with credentials from the environment.
func NewDocumentAIProcessor(ctx context.Context, config DocumentAIConfig) (*DocumentAIProcessor, error) {
	const op = "NewDocumentAIProcessor"

	if config.ProjectID == "" {
		return nil, wrapError(op, ErrMissingConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, wrapError(op, ErrMissingConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	// Regional endpoint for anything but the default location
	opts := credentialOptions()
	if config.Location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, wrapError(op, ErrMissingCredentials, err.Error())
	}

	return &DocumentAIProcessor{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// Process sends content to the configured processor.
func (p *DocumentAIProcessor) Process(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error) {
	const op = "Process"

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
	}

	start := time.Now()
	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, p.handleProcessingError(op, err)
	}
	if resp.GetDocument() == nil {
		return nil, wrapError(op, ErrProcessingFailed, "no document in response")
	}

	p.log.Debug().
		Int("entities", len(resp.GetDocument().GetEntities())).
		Dur("duration", time.Since(start)).
		Msg("Document AI processing completed")

	return resp.GetDocument(), nil
}

// Close closes the underlying Document AI client.
func (p *DocumentAIProcessor) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func (p *DocumentAIProcessor) processorName() string {
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
	if p.config.ProcessorVersion != "" {
		name += "/processorVersions/" + p.config.ProcessorVersion
	}
	return name
}

// handleProcessingError converts Document AI errors to scan errors.
func (p *DocumentAIProcessor) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PermissionDenied"), strings.Contains(errStr, "PERMISSION_DENIED"):
		return wrapError(op, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "ResourceExhausted"), strings.Contains(errStr, "QUOTA_EXCEEDED"):
		return wrapError(op, ErrQuotaExceeded, "Document AI API quota exceeded")
	case strings.Contains(errStr, "NotFound"), strings.Contains(errStr, "NOT_FOUND"):
		return wrapError(op, ErrProcessorNotFound, "processor: "+p.config.ProcessorID)
	case strings.Contains(errStr, "InvalidArgument"), strings.Contains(errStr, "INVALID_ARGUMENT"):
		return wrapError(op, ErrUnsupportedFormat, "document format not supported or corrupted")
	case strings.Contains(errStr, "context deadline exceeded"):
		return wrapError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "context canceled"):
		return wrapError(op, context.Canceled, "processing was canceled")
	default:
		return wrapError(op, ErrProcessingFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// credentialOptions picks up inline or file credentials. Without either the
// client falls back to application default credentials.
func credentialOptions() []option.ClientOption {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credFile)}
	}
	return nil
}

// DraftFromDocument maps Document AI entities onto a purchase draft.
//
//	supplier_name                        -> clientName
//	supplier_phone (else receiver_phone) -> clientMobile
//	invoice_id, receipt_id               -> clientRefrence
//	line_item/quantity                   -> quantity
//	line_item/unit_price                 -> purchase (else total_amount / quantity)
func DraftFromDocument(doc *documentaipb.Document) *Draft {
	draft := &Draft{
		Form:       forms.InvoiceForm{SaleType: string(models.SaleTypePurchase)},
		Confidence: map[string]float32{},
		Sources:    map[string]string{},
	}

	var (
		quantity  decimal.Decimal
		unitPrice decimal.Decimal
		total     decimal.Decimal
		priceConf float32
		totalConf float32

		supplierPhone, receiverPhone *documentaipb.Document_Entity
	)

	set := func(field, value string, conf float32) {
		if value == "" {
			return
		}
		if _, done := draft.Sources[field]; done {
			return
		}
		setField(&draft.Form, field, value)
		draft.Sources[field] = SourceDocumentAI
		draft.Confidence[field] = conf
	}

	for _, entity := range doc.GetEntities() {
		value := strings.TrimSpace(entity.GetMentionText())
		conf := entity.GetConfidence()

		switch entity.GetType() {
		case "supplier_name":
			set(forms.FieldClientName, value, conf)
		case "supplier_phone":
			if supplierPhone == nil {
				supplierPhone = entity
			}
		case "receiver_phone":
			if receiverPhone == nil {
				receiverPhone = entity
			}
		case "invoice_id", "receipt_id":
			set(forms.FieldClientRefrence, value, conf)
		case "total_amount":
			if amount, ok := entityAmount(entity); ok && total.IsZero() {
				total = amount
				totalConf = conf
			}
		case "line_item":
			for _, prop := range entity.GetProperties() {
				switch prop.GetType() {
				case "line_item/quantity":
					if q, ok := ParseAmount(prop.GetMentionText()); ok && quantity.IsZero() {
						quantity = q
						draft.Confidence[forms.FieldQuantity] = prop.GetConfidence()
					}
				case "line_item/unit_price":
					if price, ok := entityAmount(prop); ok && unitPrice.IsZero() {
						unitPrice = price
						priceConf = prop.GetConfidence()
					}
				}
			}
		}
	}

	phone := supplierPhone
	if phone == nil {
		phone = receiverPhone
	}
	if phone != nil {
		set(forms.FieldClientMobile, NormalizeMobile(phone.GetMentionText()), phone.GetConfidence())
	}

	if quantity.IsPositive() {
		set(forms.FieldQuantity, quantity.String(), draft.Confidence[forms.FieldQuantity])
	} else {
		delete(draft.Confidence, forms.FieldQuantity)
	}

	switch {
	case unitPrice.IsPositive():
		set(forms.FieldPurchase, unitPrice.String(), priceConf)
	case total.IsPositive() && quantity.IsPositive():
		set(forms.FieldPurchase, total.DivRound(quantity, 2).String(), totalConf)
	case total.IsPositive():
		set(forms.FieldPurchase, total.String(), totalConf)
	}

	return draft
}

// entityAmount reads a money value, preferring the normalized form.
func entityAmount(entity *documentaipb.Document_Entity) (decimal.Decimal, bool) {
	if money := entity.GetNormalizedValue().GetMoneyValue(); money != nil {
		return decimal.New(money.GetUnits(), 0).Add(decimal.New(int64(money.GetNanos()), -9)), true
	}
	return ParseAmount(entity.GetMentionText())
}

var amountNoise = regexp.MustCompile(`(?i)pkr|rs\.?|/-|[\s,]`)

// ParseAmount parses a printed amount such as "Rs. 1,250/-" or "PKR 12,500.50".
func ParseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := amountNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizeMobile reduces a phone number to local 11-digit form: "+92 300
// 1234567" becomes "03001234567". Other inputs keep only their digits.
func NormalizeMobile(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0092") && len(digits) == 14:
		return "0" + digits[4:]
	case strings.HasPrefix(digits, "92") && len(digits) == 12:
		return "0" + digits[2:]
	case len(digits) == 10 && strings.HasPrefix(digits, "3"):
		return "0" + digits
	default:
		return digits
	}
}

// setField assigns value to the named form field.
func setField(f *forms.InvoiceForm, field, value string) {
	switch field {
	case forms.FieldSaleType:
		f.SaleType = value
	case forms.FieldPurchase:
		f.Purchase = value
	case forms.FieldSale:
		f.Sale = value
	case forms.FieldQuantity:
		f.Quantity = value
	case forms.FieldClientName:
		f.ClientName = value
	case forms.FieldClientMobile:
		f.ClientMobile = value
	case forms.FieldClientRefrence:
		f.ClientRefrence = value
	case forms.FieldComments:
		f.Comments = value
	}
}
