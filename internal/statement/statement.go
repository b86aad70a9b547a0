// Package statement turns a filtered invoice listing into a printable
// statement: a header block, four summary badges, one row per invoice and a
// per-page footer. Build produces the document model and RenderPDF draws it.
package statement

import (
	"errors"
	"strings"
	"time"

	"ledger/internal/ledger"
	"ledger/pkg/models"
)

const (
	// DefaultTitle heads every statement.
	DefaultTitle = "Invoice Statement"

	// DefaultCurrencyPrefix is printed before badge amounts.
	DefaultCurrencyPrefix = "Rs"

	// GeneratedLayout is the footer timestamp layout.
	GeneratedLayout = "02-01-2006 15:04"

	// NotApplicable fills sale and profit cells of purchases and blank remarks.
	NotApplicable = "—"

	// Missing fills cells whose source field is empty.
	Missing = "-"
)

var (
	// ErrRangeInvalid is returned when the listing's date range is inverted.
	ErrRangeInvalid = errors.New("statement: date range is invalid")

	// ErrNothingToExport is returned when the listing has no invoices.
	ErrNothingToExport = errors.New("statement: no invoices to export")
)

// Columns are the table headings, in order.
var Columns = []string{
	"Qty", "Txn Type", "Purchase", "Sale", "Profit",
	"Txn Total", "Txn Date", "Client Name", "Client Mobile", "Remarks",
}

// Options tune a statement.
type Options struct {
	Title          string
	CurrencyPrefix string

	// Location is the zone transaction dates are printed in. Nil uses the
	// zone of generatedAt.
	Location *time.Location
}

// Badge is one summary tile.
type Badge struct {
	Label string
	Value string
}

// Row is one invoice line.
type Row struct {
	SaleType models.SaleType
	Cells    []string
}

// Statement is the renderable document model.
type Statement struct {
	Title       string
	RangeLabel  string
	Records     int
	TypeLabel   string
	SearchLabel string
	Badges      []Badge
	Columns     []string
	Rows        []Row
	Summary     ledger.Summary
	GeneratedAt time.Time
	Filename    string
}

// Build prepares a statement for res. It refuses an inverted date range and
// an empty listing; callers treat both as "export unavailable".
func Build(res ledger.Result, generatedAt time.Time, opts Options) (*Statement, error) {
	if res.RangeErr() != nil {
		return nil, ErrRangeInvalid
	}
	if len(res.Invoices) == 0 {
		return nil, ErrNothingToExport
	}

	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.CurrencyPrefix == "" {
		opts.CurrencyPrefix = DefaultCurrencyPrefix
	}
	if opts.Location == nil {
		opts.Location = generatedAt.Location()
	}

	label := res.Filter.Range.Label()
	search := strings.TrimSpace(res.Filter.Query)
	if search == "" {
		search = Missing
	}

	sum := res.Summary
	st := &Statement{
		Title:       opts.Title,
		RangeLabel:  label,
		Records:     len(res.Invoices),
		TypeLabel:   res.Filter.Type.Label(),
		SearchLabel: search,
		Badges: []Badge{
			{Label: "Total Qty", Value: ledger.FormatQuantity(sum.TotalQty)},
			{Label: "Total Purchase", Value: ledger.FormatCurrency(opts.CurrencyPrefix, sum.TotalPurchase)},
			{Label: "Total Sale", Value: ledger.FormatCurrency(opts.CurrencyPrefix, sum.TotalSale)},
			{Label: "Total Profit", Value: ledger.FormatCurrency(opts.CurrencyPrefix, sum.TotalProfit)},
		},
		Columns:     Columns,
		Rows:        make([]Row, 0, len(res.Invoices)),
		Summary:     sum,
		GeneratedAt: generatedAt,
		Filename:    Filename(label),
	}

	for _, inv := range res.Invoices {
		st.Rows = append(st.Rows, buildRow(inv, opts.Location))
	}

	return st, nil
}

// Filename is the output file name for a range label.
func Filename(rangeLabel string) string {
	return "invoice-statement_" + strings.ReplaceAll(rangeLabel, " ", "_") + ".pdf"
}

// FooterLeft is the range line of the page footer.
func (s *Statement) FooterLeft() string {
	return "Range: " + s.RangeLabel
}

// FooterRight is the generation timestamp of the page footer.
func (s *Statement) FooterRight() string {
	return "Generated: " + s.GeneratedAt.Format(GeneratedLayout)
}

func buildRow(inv models.Invoice, loc *time.Location) Row {
	d := inv.Data
	t := ledger.Derive(inv)

	sale, profit := NotApplicable, NotApplicable
	if d.IsSale() {
		sale = ledger.FormatAmount(d.Sale.Decimal())
		profit = ledger.FormatAmount(t.Profit)
	}

	txnType := Missing
	if d.SaleType != "" {
		txnType = strings.ToUpper(string(d.SaleType))
	}

	return Row{
		SaleType: d.SaleType,
		Cells: []string{
			ledger.FormatQuantity(d.Quantity.Decimal()),
			txnType,
			ledger.FormatAmount(d.Purchase.Decimal()),
			sale,
			profit,
			ledger.FormatAmount(t.GrandTotal),
			ledger.FormatDMY(inv.CreatedAt.In(loc)),
			orDefault(d.ClientName, Missing),
			orDefault(d.ClientMobile, Missing),
			orDefault(d.Comments, NotApplicable),
		},
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
