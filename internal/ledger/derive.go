// Package ledger holds the client-side arithmetic over invoice records:
// per-record totals, the search/type/date filter and the summary aggregate
// shown above every invoice listing and statement.
//
// Everything here is pure. Missing or non-numeric inputs count as zero and
// nothing returns an error.
package ledger

import (
	"github.com/shopspring/decimal"

	"ledger/pkg/models"
)

// Totals are the derived amounts of a single invoice.
type Totals struct {
	TotalSale     decimal.Decimal `json:"totalSale"`
	TotalPurchase decimal.Decimal `json:"totalPurchase"`
	Profit        decimal.Decimal `json:"profit"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// Derive computes the totals of one invoice.
func Derive(inv models.Invoice) Totals {
	return DeriveData(inv.Data)
}

// DeriveData computes totals straight from form data, which lets a form
// preview share the arithmetic with stored records.
//
// Purchase total is always purchase*quantity. Sale total and profit are only
// defined for sales and are zero otherwise.
func DeriveData(d models.InvoiceData) Totals {
	qty := d.Quantity.Decimal()
	purchase := d.Purchase.Decimal()

	t := Totals{
		TotalSale:     decimal.Zero,
		TotalPurchase: purchase.Mul(qty),
		Profit:        decimal.Zero,
	}

	if d.IsSale() {
		sale := d.Sale.Decimal()
		t.TotalSale = sale.Mul(qty)
		t.Profit = sale.Sub(purchase).Mul(qty)
		t.GrandTotal = t.TotalSale
	} else {
		t.GrandTotal = t.TotalPurchase
	}

	return t
}
