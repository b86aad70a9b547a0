package scan

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/forms"
)

var (
	mobileRe    = regexp.MustCompile(`(?:\+92|0092|\b92|\b0)[\s-]?3\d{2}[\s-]?\d{7}\b`)
	quantityRe  = regexp.MustCompile(`(?i)\b(?:qty|quantity)\b\s*[:\-x]?\s*(\d+)\b`)
	totalRe     = regexp.MustCompile(`(?i)\b(?:grand\s+total|net\s+total|total\s+amount|total|amount\s+payable)\b\s*[:\-]?\s*((?:rs\.?|pkr)?\s*[\d,]+(?:\.\d+)?)`)
	referenceRe = regexp.MustCompile(`(?i)\b(?:invoice|receipt|bill|ref(?:erence)?)\s*(?:no\.?|number|#)?\s*[:\-#]\s*([A-Za-z0-9][A-Za-z0-9/\-]+)`)
)

// ApplyHeuristics fills missing fields from OCR text using regular expressions
// and returns the fields it set. Existing values are never overwritten.
func ApplyHeuristics(f *forms.InvoiceForm, text string, missing []string) []string {
	want := make(map[string]bool, len(missing))
	for _, field := range missing {
		want[field] = true
	}

	var filled []string
	fill := func(field, value string) {
		if value == "" || !want[field] {
			return
		}
		setField(f, field, value)
		filled = append(filled, field)
	}

	if m := mobileRe.FindString(text); m != "" {
		fill(forms.FieldClientMobile, NormalizeMobile(m))
	}

	if m := quantityRe.FindStringSubmatch(text); m != nil {
		fill(forms.FieldQuantity, m[1])
	}

	if m := referenceRe.FindStringSubmatch(text); m != nil {
		fill(forms.FieldClientRefrence, m[1])
	}

	if want[forms.FieldPurchase] {
		if total, ok := lastTotal(text); ok && total.IsPositive() {
			qty, qtyOK := ParseAmount(f.Quantity)
			if qtyOK && qty.IsPositive() {
				total = total.DivRound(qty, 2)
			}
			fill(forms.FieldPurchase, total.String())
		}
	}

	return filled
}

// lastTotal returns the last total printed on the receipt; grand totals follow
// subtotals.
func lastTotal(text string) (decimal.Decimal, bool) {
	matches := totalRe.FindAllStringSubmatch(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if d, ok := ParseAmount(strings.TrimSpace(matches[i][1])); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}
