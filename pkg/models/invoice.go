package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SaleType distinguishes sale invoices from purchase invoices.
type SaleType string

const (
	SaleTypeSale     SaleType = "sale"
	SaleTypePurchase SaleType = "purchase"
)

// Invoice is a single sale or purchase record as returned by the invoice list.
type Invoice struct {
	ID        string      `json:"_id"`
	CreatedAt time.Time   `json:"createdAt"` // zero when missing or unparseable
	User      UserRef     `json:"user"`      // id reference or embedded user
	Data      InvoiceData `json:"data"`
}

// InvoiceData is the form payload stored under an invoice's "data" key.
type InvoiceData struct {
	SaleType       SaleType `json:"saleType"`
	Purchase       Number   `json:"purchase"`
	Sale           Number   `json:"sale"`
	Quantity       Number   `json:"quantity"`
	User           string   `json:"user,omitempty"` // owning user's name
	ClientName     string   `json:"clientName"`
	ClientMobile   string   `json:"clientMobile"`
	ClientRefrence string   `json:"clientRefrence"` // spelling matches the stored field
	Comments       string   `json:"comments,omitempty"`
}

// IsSale reports whether the record is a sale. Anything else is treated as
// a purchase for arithmetic purposes.
func (d InvoiceData) IsSale() bool {
	return d.SaleType == SaleTypeSale
}

// UnmarshalJSON decodes leniently: a non-object payload yields empty data and
// scalar fields of the wrong JSON type are coerced rather than rejected.
func (d *InvoiceData) UnmarshalJSON(b []byte) error {
	*d = InvoiceData{}

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var wire struct {
		SaleType       looseString `json:"saleType"`
		Purchase       Number      `json:"purchase"`
		Sale           Number      `json:"sale"`
		Quantity       Number      `json:"quantity"`
		User           looseString `json:"user"`
		ClientName     looseString `json:"clientName"`
		ClientMobile   looseString `json:"clientMobile"`
		ClientRefrence looseString `json:"clientRefrence"`
		Comments       looseString `json:"comments"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}

	*d = InvoiceData{
		SaleType:       SaleType(wire.SaleType),
		Purchase:       wire.Purchase,
		Sale:           wire.Sale,
		Quantity:       wire.Quantity,
		User:           string(wire.User),
		ClientName:     string(wire.ClientName),
		ClientMobile:   string(wire.ClientMobile),
		ClientRefrence: string(wire.ClientRefrence),
		Comments:       string(wire.Comments),
	}
	return nil
}

// UnmarshalJSON decodes an invoice record. A malformed createdAt leaves the
// timestamp zero instead of failing the whole list.
func (i *Invoice) UnmarshalJSON(b []byte) error {
	*i = Invoice{}

	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var wire struct {
		ID        looseString     `json:"_id"`
		CreatedAt json.RawMessage `json:"createdAt"`
		User      UserRef         `json:"user"`
		Data      InvoiceData     `json:"data"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil
	}

	i.ID = string(wire.ID)
	i.CreatedAt = parseTimestamp(wire.CreatedAt)
	i.User = wire.User
	i.Data = wire.Data
	return nil
}

// MarshalJSON omits createdAt when it is unknown.
func (i Invoice) MarshalJSON() ([]byte, error) {
	wire := struct {
		ID        string      `json:"_id"`
		CreatedAt *time.Time  `json:"createdAt,omitempty"`
		User      UserRef     `json:"user"`
		Data      InvoiceData `json:"data"`
	}{ID: i.ID, User: i.User, Data: i.Data}
	if !i.CreatedAt.IsZero() {
		wire.CreatedAt = &i.CreatedAt
	}
	return json.Marshal(wire)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts ISO-8601 strings and epoch milliseconds.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}

	if raw[0] != '"' {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
