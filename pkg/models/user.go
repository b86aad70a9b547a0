package models

import (
	"bytes"
	"encoding/json"
)

// User is a client record.
type User struct {
	ID       string       `json:"_id"`
	Name     string       `json:"name"`
	Mobile   string       `json:"mobile"` // 11 digits
	Estate   string       `json:"estate"`
	Invoices []InvoiceRef `json:"invoices,omitempty"`
}

// UserInput is the editable part of a user, as sent on create and update.
type UserInput struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Estate string `json:"estate"`
}

// UnmarshalJSON tolerates numeric mobiles and mixed invoice reference shapes.
func (u *User) UnmarshalJSON(b []byte) error {
	*u = User{}

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var wire struct {
		ID       looseString     `json:"_id"`
		Name     looseString     `json:"name"`
		Mobile   looseString     `json:"mobile"`
		Estate   looseString     `json:"estate"`
		Invoices json.RawMessage `json:"invoices"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}

	// Anything but an array leaves the list empty
	var invoices []InvoiceRef
	if refs := bytes.TrimSpace(wire.Invoices); len(refs) > 0 && refs[0] == '[' {
		if err := json.Unmarshal(refs, &invoices); err != nil {
			invoices = nil
		}
	}

	*u = User{
		ID:       string(wire.ID),
		Name:     string(wire.Name),
		Mobile:   string(wire.Mobile),
		Estate:   string(wire.Estate),
		Invoices: invoices,
	}
	return nil
}

// UserRef is an invoice's owner: either a bare id or the embedded user record.
type UserRef struct {
	ID   string
	User *User // nil when only the id is known
}

// Name returns the embedded user's name, or "" for bare references.
func (r UserRef) Name() string {
	if r.User == nil {
		return ""
	}
	return r.User.Name
}

func (r *UserRef) UnmarshalJSON(b []byte) error {
	*r = UserRef{}

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '{':
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil
		}
		r.ID = u.ID
		r.User = &u
	case '"':
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			r.ID = id
		}
	}
	return nil
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// InvoiceRef is an entry of a user's invoice list.
type InvoiceRef struct {
	ID string
}

func (r *InvoiceRef) UnmarshalJSON(b []byte) error {
	*r = InvoiceRef{}

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '{':
		var obj struct {
			ID looseString `json:"_id"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			r.ID = string(obj.ID)
		}
	case '"':
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			r.ID = id
		}
	}
	return nil
}

func (r InvoiceRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}
