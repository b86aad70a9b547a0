package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount rounds half away from zero to whole units and groups
// thousands: 1234567.5 -> "1,234,568".
func FormatAmount(d decimal.Decimal) string {
	return groupInteger(d.Round(0))
}

// FormatCurrency prefixes a formatted amount, e.g. "Rs 1,250".
func FormatCurrency(prefix string, d decimal.Decimal) string {
	if prefix == "" {
		return FormatAmount(d)
	}
	return prefix + " " + FormatAmount(d)
}

// FormatQuantity groups whole quantities and leaves fractional ones as is.
func FormatQuantity(d decimal.Decimal) string {
	if d.IsInteger() {
		return groupInteger(d)
	}
	return d.String()
}

// groupInteger formats a whole decimal with thousands separators. Values
// outside the int64 range are grouped by hand since IntPart would wrap.
func groupInteger(d decimal.Decimal) string {
	n := d.BigInt()
	if n.IsInt64() {
		return printer.Sprintf("%d", n.Int64())
	}

	digits := n.String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
