package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a numeric field as the remote API stores it. Form inputs arrive
// as JSON numbers or numeric strings, so decoding accepts both and maps
// anything unparseable (empty string, null, garbage) to zero.
type Number struct {
	d decimal.Decimal
}

// NumberOf wraps a decimal.
func NumberOf(d decimal.Decimal) Number {
	return Number{d: d}
}

// NumberFromInt returns the Number for an integer value.
func NumberFromInt(v int64) Number {
	return Number{d: decimal.NewFromInt(v)}
}

// ParseNumber coerces a user-supplied string the same way decoding does.
// The boolean reports whether the input was actually numeric.
func ParseNumber(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, false
	}
	return Number{d: d}, true
}

// Decimal returns the underlying value. The zero Number yields decimal zero.
func (n Number) Decimal() decimal.Decimal {
	return n.d
}

// IsZero reports whether the value equals zero.
func (n Number) IsZero() bool {
	return n.d.IsZero()
}

func (n Number) String() string {
	return n.d.String()
}

// MarshalJSON encodes the value as a bare JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.d.String()), nil
}

// UnmarshalJSON never fails: non-numeric input decodes to zero.
func (n *Number) UnmarshalJSON(b []byte) error {
	n.d = decimal.Zero

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	}

	if parsed, ok := ParseNumber(s); ok {
		n.d = parsed.d
	}
	return nil
}
