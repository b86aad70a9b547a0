package ledger_test

import (
	"fmt"
	"time"

	"ledger/internal/ledger"
	"ledger/pkg/models"
)

// ExampleApply shows the summary of a mixed sale/purchase listing.
func ExampleApply() {
	invoices := []models.Invoice{
		{ID: "a1", Data: models.InvoiceData{
			SaleType: models.SaleTypeSale,
			Purchase: models.NumberFromInt(100),
			Sale:     models.NumberFromInt(150),
			Quantity: models.NumberFromInt(2),
		}},
		{ID: "b2", Data: models.InvoiceData{
			SaleType: models.SaleTypePurchase,
			Purchase: models.NumberFromInt(50),
			Quantity: models.NumberFromInt(3),
		}},
	}

	res := ledger.Apply(invoices, ledger.Filter{})
	fmt.Println("sale:", ledger.FormatAmount(res.Summary.TotalSale))
	fmt.Println("purchase:", ledger.FormatAmount(res.Summary.TotalPurchase))
	fmt.Println("profit:", ledger.FormatAmount(res.Summary.TotalProfit))
	fmt.Println("qty:", ledger.FormatQuantity(res.Summary.TotalQty))

	// Output:
	// sale: 300
	// purchase: 350
	// profit: 100
	// qty: 5
}

// ExampleDateRange_Label prints the label used on statements.
func ExampleDateRange_Label() {
	r, _ := ledger.ParseDateRange("2024-01-05", "", time.UTC)
	fmt.Println(r.Label())

	// Output:
	// From 05-01-2024
}
