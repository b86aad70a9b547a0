package statement

import (
	"bytes"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/ledger"
	"ledger/pkg/models"
)

var generated = time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

func sampleInvoices() []models.Invoice {
	return []models.Invoice{
		{
			ID:        "i1",
			CreatedAt: time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC),
			Data: models.InvoiceData{
				SaleType:     models.SaleTypeSale,
				Purchase:     models.NumberFromInt(100000),
				Sale:         models.NumberFromInt(125000),
				Quantity:     models.NumberFromInt(2),
				ClientName:   "Bilal",
				ClientMobile: "03001234567",
				Comments:     "Corner plot",
			},
		},
		{
			ID:        "i2",
			CreatedAt: time.Date(2024, 1, 20, 18, 0, 0, 0, time.UTC),
			Data: models.InvoiceData{
				SaleType: models.SaleTypePurchase,
				Purchase: models.NumberFromInt(50),
				Quantity: models.NumberFromInt(3),
			},
		},
	}
}

func TestBuild(t *testing.T) {
	r, err := ledger.ParseDateRange("2024-01-05", "", time.UTC)
	require.NoError(t, err)

	res := ledger.Apply(sampleInvoices(), ledger.Filter{Range: r, Query: "  "})
	st, err := Build(res, generated, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Invoice Statement", st.Title)
	assert.Equal(t, "From 05-01-2024", st.RangeLabel)
	assert.Equal(t, 2, st.Records)
	assert.Equal(t, "All", st.TypeLabel)
	assert.Equal(t, "-", st.SearchLabel)
	assert.Equal(t, "invoice-statement_From_05-01-2024.pdf", st.Filename)
	assert.Equal(t, "Range: From 05-01-2024", st.FooterLeft())
	assert.Equal(t, "Generated: 01-03-2024 14:30", st.FooterRight())

	assert.Equal(t, []Badge{
		{Label: "Total Qty", Value: "5"},
		{Label: "Total Purchase", Value: "Rs 200,150"},
		{Label: "Total Sale", Value: "Rs 250,000"},
		{Label: "Total Profit", Value: "Rs 50,000"},
	}, st.Badges)

	require.Len(t, st.Rows, 2)
	assert.Equal(t, []string{"2", "SALE", "100,000", "125,000", "50,000", "250,000", "06-01-2024", "Bilal", "03001234567", "Corner plot"}, st.Rows[0].Cells)
	assert.Equal(t, []string{"3", "PURCHASE", "50", "—", "—", "150", "20-01-2024", "-", "-", "—"}, st.Rows[1].Cells)
	assert.Len(t, st.Columns, len(st.Rows[0].Cells))
}

func TestBuildBadgesMatchSummary(t *testing.T) {
	res := ledger.Apply(sampleInvoices(), ledger.Filter{Type: ledger.TypePurchase, Query: "purchase"})
	st, err := Build(res, generated, Options{CurrencyPrefix: "PKR", Title: "Purchases"})
	require.NoError(t, err)

	assert.Equal(t, "Purchases", st.Title)
	assert.Equal(t, "PURCHASE", st.TypeLabel)
	assert.Equal(t, "purchase", st.SearchLabel)
	assert.Equal(t, "PKR "+ledger.FormatAmount(res.Summary.TotalPurchase), st.Badges[1].Value)
	assert.True(t, st.Summary.TotalPurchase.Equal(res.Summary.TotalPurchase))
}

func TestBuildGuards(t *testing.T) {
	inverted, err := ledger.ParseDateRange("2024-02-01", "2024-01-01", time.UTC)
	require.NoError(t, err)

	_, err = Build(ledger.Apply(sampleInvoices(), ledger.Filter{Range: inverted}), generated, Options{})
	assert.ErrorIs(t, err, ErrRangeInvalid)

	_, err = Build(ledger.Apply(sampleInvoices(), ledger.Filter{Query: "no such client"}), generated, Options{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice-statement_All_Dates.pdf", Filename("All Dates"))
	assert.Equal(t, "invoice-statement_05-01-2024_to_29-02-2024.pdf", Filename("05-01-2024 to 29-02-2024"))
}

func TestRenderPDF(t *testing.T) {
	list := sampleInvoices()
	for i := 0; i < 80; i++ {
		list = append(list, list[i%2])
	}

	st, err := Build(ledger.Apply(list, ledger.Filter{}), generated, Options{})
	require.NoError(t, err)

	pdf, err := RenderPDF(st)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRenderPDFRefusesEmpty(t *testing.T) {
	_, err := RenderPDF(&Statement{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestBuildDatesFollowLocation(t *testing.T) {
	karachi, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)

	// 20:00 UTC on the 5th is 01:00 on the 6th in Karachi
	late := models.Invoice{
		ID:        "k1",
		CreatedAt: time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC),
		Data: models.InvoiceData{
			SaleType: models.SaleTypePurchase,
			Purchase: models.NumberFromInt(10),
			Quantity: models.NumberFromInt(1),
			Comments: "  paid cash  ",
		},
	}

	r, err := ledger.ParseDateRange("2024-01-06", "2024-01-06", karachi)
	require.NoError(t, err)
	res := ledger.Apply([]models.Invoice{late}, ledger.Filter{Range: r})
	require.Len(t, res.Invoices, 1)

	st, err := Build(res, generated.In(karachi), Options{Location: karachi})
	require.NoError(t, err)
	assert.Equal(t, "06-01-2024 to 06-01-2024", st.RangeLabel)
	assert.Equal(t, "06-01-2024", st.Rows[0].Cells[6])
	assert.Equal(t, "paid cash", st.Rows[0].Cells[9])

	// Without a location the generation time's zone is used
	st, err = Build(res, generated, Options{})
	require.NoError(t, err)
	assert.Equal(t, "05-01-2024", st.Rows[0].Cells[6])
}

func TestBuildUndatedInvoice(t *testing.T) {
	inv := sampleInvoices()[1]
	inv.CreatedAt = time.Time{}

	st, err := Build(ledger.Apply([]models.Invoice{inv}, ledger.Filter{}), generated, Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, "-", st.Rows[0].Cells[6])
}
