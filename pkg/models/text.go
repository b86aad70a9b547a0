package models

import (
	"bytes"
	"encoding/json"
)

// looseString decodes a JSON string, number or boolean into its text form.
// Mobile numbers in particular are sometimes stored as numbers.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	*s = ""

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			*s = looseString(str)
		}
	case '{', '[':
		// objects and arrays carry no displayable text
	default:
		*s = looseString(raw)
	}
	return nil
}
