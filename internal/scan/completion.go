package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"ledger/internal/forms"
	"ledger/internal/logger"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// maxPromptText caps the OCR text sent to the model.
const maxPromptText = 12000

// fieldHints describe each completable field to the model.
var fieldHints = map[string]string{
	forms.FieldPurchase:       "unit purchase price as a plain number, no currency or separators",
	forms.FieldQuantity:       "number of units as a whole number",
	forms.FieldClientName:     "name of the supplier or seller",
	forms.FieldClientMobile:   "supplier phone as 11 digits, e.g. 03001234567",
	forms.FieldClientRefrence: "invoice, receipt or estate reference printed on the document",
	forms.FieldComments:       "one short line describing what was bought",
}

// OpenAICompleter implements Completer with a single JSON chat completion.
type OpenAICompleter struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAICompleter creates a completer. apiKey is required.
func NewOpenAICompleter(apiKey, model string) (*OpenAICompleter, error) {
	const op = "NewOpenAICompleter"

	if apiKey == "" {
		return nil, wrapError(op, ErrMissingConfiguration, "OPENAI_API_KEY is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return NewOpenAICompleterWithClient(openai.NewClient(apiKey), model), nil
}

// NewOpenAICompleterWithClient creates a completer with an explicit client (for testing).
func NewOpenAICompleterWithClient(client *openai.Client, model string) *OpenAICompleter {
	return &OpenAICompleter{
		client: client,
		model:  model,
		log:    logger.WithComponent("completion"),
	}
}

// Complete asks the model once for the missing fields. A failed call or an
// unparseable answer is returned as an error; there is no retry.
func (c *OpenAICompleter) Complete(ctx context.Context, text string, form forms.InvoiceForm, missing []string) (map[string]string, error) {
	const op = "Complete"

	prompt := BuildPrompt(text, form, missing)

	c.log.Debug().
		Int("prompt_length", len(prompt)).
		Strs("missing_fields", missing).
		Str("model", c.model).
		Msg("Sending completion request")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		MaxTokens:   500,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, wrapError(op, fmt.Errorf("%w: %v", ErrCompletionFailed, err), "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return nil, wrapError(op, ErrCompletionFailed, "no response choices")
	}

	content := resp.Choices[0].Message.Content
	c.log.Debug().Str("response", content).Msg("Received completion response")

	values, err := ParseCompletion(content)
	if err != nil {
		return nil, wrapError(op, err, "")
	}
	return values, nil
}

const systemPrompt = `You read supplier receipts and invoices for a small trading ledger.
Fill in only the requested fields using the document text.
Return ONLY a JSON object whose keys are the requested field names.
Use null when a value is not printed on the document. Never guess.`

// BuildPrompt lists the fields already known, the fields requested and the OCR text.
func BuildPrompt(text string, form forms.InvoiceForm, missing []string) string {
	var b strings.Builder

	b.WriteString("Known fields:\n")
	known := map[string]string{
		forms.FieldClientName:     form.ClientName,
		forms.FieldClientMobile:   form.ClientMobile,
		forms.FieldClientRefrence: form.ClientRefrence,
		forms.FieldPurchase:       form.Purchase,
		forms.FieldQuantity:       form.Quantity,
	}
	for _, field := range []string{forms.FieldClientName, forms.FieldClientMobile, forms.FieldClientRefrence, forms.FieldPurchase, forms.FieldQuantity} {
		if v := strings.TrimSpace(known[field]); v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", field, v)
		}
	}

	b.WriteString("\nRequested fields:\n")
	for _, field := range missing {
		if hint, ok := fieldHints[field]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", field, hint)
		}
	}

	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}
	b.WriteString("\nDocument text:\n")
	b.WriteString(text)

	return b.String()
}

// ParseCompletion decodes the model's JSON object. Numbers and strings are
// accepted; nulls and other types are dropped.
func ParseCompletion(content string) (map[string]string, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON response: %v", ErrCompletionFailed, err)
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				values[key] = s
			}
		case float64:
			values[key] = strings.TrimSuffix(fmt.Sprintf("%.2f", val), ".00")
		}
	}
	return values, nil
}

// MergeValues copies values for the missing fields only and returns the fields set.
// Mobile numbers are normalized on the way in.
func MergeValues(f *forms.InvoiceForm, values map[string]string, missing []string) []string {
	var filled []string
	for _, field := range missing {
		v, ok := values[field]
		if !ok || v == "" {
			continue
		}
		if _, completable := fieldHints[field]; !completable {
			continue
		}
		if field == forms.FieldClientMobile {
			v = NormalizeMobile(v)
		}
		setField(f, field, v)
		filled = append(filled, field)
	}
	return filled
}
