package forms

import (
	"errors"
	"sort"
	"strings"
)

// Errors maps a form field to its validation message. An empty map means
// the form is valid.
type Errors map[string]string

// Error lists every failing field in a stable order.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns nil for a valid form, so callers can write
// `if err := forms.ValidateUser(f).Err(); err != nil`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Fields returns the failing field names sorted.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// AsErrors extracts validation errors from a wrapped error chain.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
