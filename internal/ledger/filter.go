package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/pkg/models"
)

// TypeFilter restricts a listing to one sale type.
type TypeFilter string

const (
	TypeAll      TypeFilter = "all"
	TypeSale     TypeFilter = TypeFilter(models.SaleTypeSale)
	TypePurchase TypeFilter = TypeFilter(models.SaleTypePurchase)
)

// ParseTypeFilter accepts all, sale or purchase (case-insensitive). Empty
// means all.
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", TypeAll:
		return TypeAll, nil
	case TypeSale:
		return TypeSale, nil
	case TypePurchase:
		return TypePurchase, nil
	default:
		return "", fmt.Errorf("ParseTypeFilter: unknown type %q (want all, sale or purchase)", s)
	}
}

// Label is the statement header form: All, SALE or PURCHASE.
func (f TypeFilter) Label() string {
	if f == "" || f == TypeAll {
		return "All"
	}
	return strings.ToUpper(string(f))
}

func (f TypeFilter) matches(t models.SaleType) bool {
	if f == "" || f == TypeAll {
		return true
	}
	return string(f) == string(t)
}

// Filter holds the listing controls.
type Filter struct {
	Query string
	Type  TypeFilter
	Range DateRange
}

// NormalizedQuery is the trimmed, lowercased search text.
func (f Filter) NormalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

// Summary aggregates the derived totals of a filtered set.
type Summary struct {
	TotalSale     decimal.Decimal `json:"totalSale"`
	TotalPurchase decimal.Decimal `json:"totalPurchase"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	TotalQty      decimal.Decimal `json:"totalQty"`
}

// Result is a filtered listing with its summary.
type Result struct {
	Filter   Filter           `json:"-"`
	Invoices []models.Invoice `json:"invoices"`
	Summary  Summary          `json:"summary"`
}

// RangeErr is the validation error of the result's date range, if any.
func (r Result) RangeErr() error {
	return r.Filter.Range.Err()
}

// Apply filters invoices and aggregates the survivors. Input order is kept.
// An inverted date range matches nothing.
func Apply(invoices []models.Invoice, f Filter) Result {
	res := Result{Filter: f, Invoices: []models.Invoice{}}

	if f.Range.Valid() {
		q := f.NormalizedQuery()
		for _, inv := range invoices {
			if matches(inv, f, q) {
				res.Invoices = append(res.Invoices, inv)
			}
		}
	}

	res.Summary = Aggregate(res.Invoices)
	return res
}

// Matches reports whether a single invoice passes the filter.
func Matches(inv models.Invoice, f Filter) bool {
	if !f.Range.Valid() {
		return false
	}
	return matches(inv, f, f.NormalizedQuery())
}

func matches(inv models.Invoice, f Filter, q string) bool {
	if !f.Type.matches(inv.Data.SaleType) {
		return false
	}
	if q != "" && !strings.Contains(Haystack(inv), q) {
		return false
	}
	return f.Range.Contains(inv.CreatedAt)
}

// Haystack is the lowercased text a query is matched against: id, sale type,
// client fields, comments and the embedded user's name, mobile and estate.
func Haystack(inv models.Invoice) string {
	d := inv.Data
	parts := []string{
		inv.ID,
		string(d.SaleType),
		d.ClientName,
		d.ClientMobile,
		d.ClientRefrence,
		d.Comments,
	}
	if u := inv.User.User; u != nil {
		parts = append(parts, u.Name, u.Mobile, u.Estate)
	}

	fields := parts[:0]
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Aggregate sums derived totals and quantities.
func Aggregate(invoices []models.Invoice) Summary {
	s := Summary{
		TotalSale:     decimal.Zero,
		TotalPurchase: decimal.Zero,
		TotalProfit:   decimal.Zero,
		TotalQty:      decimal.Zero,
	}
	for _, inv := range invoices {
		t := Derive(inv)
		s.TotalSale = s.TotalSale.Add(t.TotalSale)
		s.TotalPurchase = s.TotalPurchase.Add(t.TotalPurchase)
		s.TotalProfit = s.TotalProfit.Add(t.Profit)
		s.TotalQty = s.TotalQty.Add(inv.Data.Quantity.Decimal())
	}
	return s
}
