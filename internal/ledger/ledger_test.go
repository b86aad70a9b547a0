package ledger

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/pkg/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func invoice(id string, saleType models.SaleType, purchase, sale, qty int64) models.Invoice {
	return models.Invoice{
		ID: id,
		Data: models.InvoiceData{
			SaleType: saleType,
			Purchase: models.NumberFromInt(purchase),
			Sale:     models.NumberFromInt(sale),
			Quantity: models.NumberFromInt(qty),
		},
	}
}

func sampleSet() []models.Invoice {
	return []models.Invoice{
		invoice("a1", models.SaleTypeSale, 100, 150, 2),
		invoice("b2", models.SaleTypePurchase, 50, 0, 3),
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name                            string
		inv                             models.Invoice
		sale, purchase, profit, grand string
	}{
		{"sale", invoice("s", models.SaleTypeSale, 100, 150, 2), "300", "200", "100", "300"},
		{"sale at a loss", invoice("l", models.SaleTypeSale, 200, 150, 1), "150", "200", "-50", "150"},
		{"purchase ignores sale price", invoice("p", models.SaleTypePurchase, 50, 999, 3), "0", "150", "0", "150"},
		{"unknown type counts as purchase", invoice("u", "rent", 10, 20, 4), "0", "40", "0", "40"},
		{"empty record", models.Invoice{}, "0", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.inv)
			assertDec(t, tt.sale, got.TotalSale, "total sale")
			assertDec(t, tt.purchase, got.TotalPurchase, "total purchase")
			assertDec(t, tt.profit, got.Profit, "profit")
			assertDec(t, tt.grand, got.GrandTotal, "grand total")
		})
	}
}

func TestDeriveMalformedPurchase(t *testing.T) {
	var inv models.Invoice
	err := json.Unmarshal([]byte(`{"data":{"saleType":"sale","purchase":"abc","sale":100,"quantity":2}}`), &inv)
	require.NoError(t, err)

	got := Derive(inv)
	assertDec(t, "200", got.Profit)
	assertDec(t, "200", got.TotalSale)
	assertDec(t, "0", got.TotalPurchase)
}

func TestApplyNoFilters(t *testing.T) {
	res := Apply(sampleSet(), Filter{})

	require.Len(t, res.Invoices, 2)
	assertDec(t, "300", res.Summary.TotalSale)
	assertDec(t, "350", res.Summary.TotalPurchase)
	assertDec(t, "100", res.Summary.TotalProfit)
	assertDec(t, "5", res.Summary.TotalQty)
}

func TestApplyTypeFilter(t *testing.T) {
	res := Apply(sampleSet(), Filter{Type: TypePurchase})

	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "b2", res.Invoices[0].ID)
	assertDec(t, "150", res.Summary.TotalPurchase)
	assertDec(t, "0", res.Summary.TotalSale)
	assertDec(t, "0", res.Summary.TotalProfit)
	assertDec(t, "3", res.Summary.TotalQty)
}

func TestAggregateIsAdditive(t *testing.T) {
	list := append(sampleSet(),
		invoice("c3", models.SaleTypeSale, 70, 90, 5),
		invoice("d4", models.SaleTypePurchase, 12, 0, 7),
	)

	res := Apply(list, Filter{})

	sale, purchase, profit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, inv := range res.Invoices {
		d := Derive(inv)
		sale = sale.Add(d.TotalSale)
		purchase = purchase.Add(d.TotalPurchase)
		profit = profit.Add(d.Profit)
	}
	assert.True(t, sale.Equal(res.Summary.TotalSale))
	assert.True(t, purchase.Equal(res.Summary.TotalPurchase))
	assert.True(t, profit.Equal(res.Summary.TotalProfit))
}

func TestApplySearch(t *testing.T) {
	list := sampleSet()
	list[0].Data.ClientName = "Bilal Ahmed"
	list[0].Data.Comments = "Corner plot"
	list[1].User = models.UserRef{ID: "u1", User: &models.User{ID: "u1", Name: "Sana", Mobile: "03001234567", Estate: "DHA Phase 6"}}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a1", "b2"}},
		{"   ", []string{"a1", "b2"}},
		{"BILAL", []string{"a1"}},
		{"corner", []string{"a1"}},
		{"dha phase", []string{"b2"}},
		{"0300123", []string{"b2"}},
		{"purchase", []string{"b2"}},
		{"A1", []string{"a1"}},
		{"nothing like this", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := Apply(list, Filter{Query: tt.query})
			var ids []string
			for _, inv := range res.Invoices {
				ids = append(ids, inv.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestApplyDateBoundsAreInclusive(t *testing.T) {
	loc := time.UTC
	r, err := ParseDateRange("2024-01-05", "2024-01-10", loc)
	require.NoError(t, err)

	atStart := invoice("start", models.SaleTypeSale, 1, 2, 1)
	atStart.CreatedAt = time.Date(2024, 1, 5, 0, 0, 0, 0, loc)

	atEnd := invoice("end", models.SaleTypeSale, 1, 2, 1)
	atEnd.CreatedAt = time.Date(2024, 1, 10, 23, 59, 59, int(999*time.Millisecond), loc)

	before := invoice("before", models.SaleTypeSale, 1, 2, 1)
	before.CreatedAt = atStart.CreatedAt.Add(-time.Millisecond)

	after := invoice("after", models.SaleTypeSale, 1, 2, 1)
	after.CreatedAt = atEnd.CreatedAt.Add(time.Millisecond)

	undated := invoice("undated", models.SaleTypeSale, 1, 2, 1)

	res := Apply([]models.Invoice{before, atStart, atEnd, after, undated}, Filter{Range: r})

	var ids []string
	for _, inv := range res.Invoices {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []string{"start", "end", "undated"}, ids)
}

func TestApplyDateBoundsUseLocation(t *testing.T) {
	karachi, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)

	r, err := ParseDateRange("2024-01-06", "2024-01-06", karachi)
	require.NoError(t, err)

	// Karachi is UTC+5: its 6 January runs from 19:00 UTC on the 5th
	// through 18:59:59.999 UTC on the 6th.
	earlyLocal := invoice("early", models.SaleTypeSale, 1, 2, 1)
	earlyLocal.CreatedAt = time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)

	lateUTC := invoice("late", models.SaleTypeSale, 1, 2, 1)
	lateUTC.CreatedAt = time.Date(2024, 1, 6, 19, 30, 0, 0, time.UTC)

	dayBefore := invoice("before", models.SaleTypeSale, 1, 2, 1)
	dayBefore.CreatedAt = time.Date(2024, 1, 5, 18, 59, 59, 0, time.UTC)

	res := Apply([]models.Invoice{dayBefore, earlyLocal, lateUTC}, Filter{Range: r})

	var ids []string
	for _, inv := range res.Invoices {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []string{"early"}, ids)
	assert.Equal(t, "06-01-2024 to 06-01-2024", r.Label())
	assert.Equal(t, "06-01-2024", FormatDMY(earlyLocal.CreatedAt.In(karachi)))
}

func TestApplyInvertedRangeFailsClosed(t *testing.T) {
	r, err := ParseDateRange("2024-02-01", "2024-01-01", time.UTC)
	require.NoError(t, err)
	require.ErrorIs(t, r.Err(), ErrEndBeforeStart)

	res := Apply(sampleSet(), Filter{Range: r, Type: TypeAll})

	assert.Empty(t, res.Invoices)
	assertDec(t, "0", res.Summary.TotalQty)
	assert.ErrorIs(t, res.RangeErr(), ErrEndBeforeStart)
	assert.False(t, Matches(sampleSet()[0], Filter{Range: r}))
}

func TestDateRangeSameDayIsValid(t *testing.T) {
	r, err := ParseDateRange("2024-03-03", "2024-03-03", time.UTC)
	require.NoError(t, err)
	assert.True(t, r.Valid())
}

func TestParseDateRangeRejectsBadInput(t *testing.T) {
	_, err := ParseDateRange("05/01/2024", "", time.UTC)
	assert.Error(t, err)
}

func TestDateRangeLabel(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"", "", "All Dates"},
		{"2024-01-05", "", "From 05-01-2024"},
		{"", "2024-02-29", "Upto 29-02-2024"},
		{"2024-01-05", "2024-02-29", "05-01-2024 to 29-02-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			r, err := ParseDateRange(tt.start, tt.end, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Label())
		})
	}
}

func TestParseTypeFilter(t *testing.T) {
	for in, want := range map[string]TypeFilter{"": TypeAll, "ALL": TypeAll, "Sale": TypeSale, " purchase ": TypePurchase} {
		got, err := ParseTypeFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTypeFilter("refund")
	assert.Error(t, err)

	assert.Equal(t, "All", TypeAll.Label())
	assert.Equal(t, "SALE", TypeSale.Label())
	assert.Equal(t, "PURCHASE", TypePurchase.Label())
}

func TestMemo(t *testing.T) {
	var m Memo
	list := sampleSet()

	first := m.Apply(1, list, Filter{Type: TypeSale})
	again := m.Apply(1, list, Filter{Type: TypeSale})
	assert.Equal(t, 1, m.Hits())
	assert.Equal(t, first, again)

	m.Apply(1, list, Filter{Type: TypePurchase})
	assert.Equal(t, 1, m.Hits(), "filter change recomputes")

	list = append(list, invoice("c3", models.SaleTypePurchase, 1, 0, 1))
	res := m.Apply(2, list, Filter{Type: TypePurchase})
	assert.Equal(t, 1, m.Hits(), "revision change recomputes")
	assert.Len(t, res.Invoices, 2)
}

func TestSearchUsers(t *testing.T) {
	users := []models.User{
		{ID: "u1", Name: "Ali Raza", Mobile: "03001234567", Estate: "Bahria Town", Invoices: []models.InvoiceRef{{ID: "x"}, {ID: "y"}}},
		{ID: "u2", Name: "Sana", Mobile: "03111111111", Estate: "DHA"},
	}

	assert.Len(t, SearchUsers(users, ""), 2)
	assert.Equal(t, "u1", SearchUsers(users, "bahria")[0].ID)
	assert.Equal(t, "u2", SearchUsers(users, "0311")[0].ID)
	assert.Len(t, SearchUsers(users, "ALI"), 1)
	assert.Empty(t, SearchUsers(users, "karachi"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,568", FormatAmount(dec("1234567.5")))
	assert.Equal(t, "-1,235", FormatAmount(dec("-1234.5")))
	assert.Equal(t, "0", FormatAmount(decimal.Zero))
	assert.Equal(t, "Rs 350", FormatCurrency("Rs", dec("350")))
	assert.Equal(t, "12,000", FormatQuantity(dec("12000")))
	assert.Equal(t, "2.5", FormatQuantity(dec("2.5")))
	assert.Equal(t, "05-01-2024", FormatDMY(time.Date(2024, 1, 5, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", FormatDMY(time.Time{}))
}

func TestFormattingBeyondInt64(t *testing.T) {
	assert.Equal(t, "9,223,372,036,854,775,807", FormatAmount(dec("9223372036854775807")))
	assert.Equal(t, "9,223,372,036,854,775,808", FormatAmount(dec("9223372036854775807.5")))
	assert.Equal(t, "10,000,000,000,000,000,000", FormatAmount(dec("1e19")))
	assert.Equal(t, "-10,000,000,000,000,000,000", FormatAmount(dec("-1e19")))
	assert.Equal(t, "Rs 123,456,789,012,345,678,901", FormatCurrency("Rs", dec("123456789012345678901")))
	assert.Equal(t, "20,000,000,000,000,000,000", FormatQuantity(dec("2e19")))
	assert.Equal(t, "999", FormatAmount(dec("999")))
	assert.Equal(t, "1,000", FormatAmount(dec("999.5")))
}

func TestOwnerName(t *testing.T) {
	embedded := models.Invoice{User: models.UserRef{ID: "u1", User: &models.User{Name: "Ali"}}, Data: models.InvoiceData{User: "Bilal"}}
	assert.Equal(t, "Ali", OwnerName(embedded))

	bare := models.Invoice{User: models.UserRef{ID: "u1"}, Data: models.InvoiceData{User: "Bilal"}}
	assert.Equal(t, "Bilal", OwnerName(bare))

	assert.Equal(t, UnknownOwner, OwnerName(models.Invoice{User: models.UserRef{ID: "u1"}}))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0c2a9f4e71", ShortID("65a1f0b2c3d4e50c2a9f4e71"))
	assert.Equal(t, "abc", ShortID("abc"))
}
