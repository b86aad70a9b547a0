package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/ledger"
	"ledger/internal/statement"
	"ledger/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_E2/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_E2", id)

	_, err = extractSpreadsheetID("https://example.com/sheet")
	assert.Error(t, err)
}

func TestColumnLetter(t *testing.T) {
	for n, want := range map[int]string{0: "A", 1: "A", 10: "J", 26: "Z", 27: "AA", 52: "AZ"} {
		assert.Equal(t, want, columnLetter(n), n)
	}
}

func TestStatementValues(t *testing.T) {
	invoices := []models.Invoice{{
		ID:        "i1",
		CreatedAt: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		Data: models.InvoiceData{
			SaleType:   models.SaleTypeSale,
			Purchase:   models.NumberFromInt(1000),
			Sale:       models.NumberFromInt(1500),
			Quantity:   models.NumberFromInt(2),
			ClientName: "Bilal",
		},
	}}

	st, err := statement.Build(ledger.Apply(invoices, ledger.Filter{}), time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC), statement.Options{})
	require.NoError(t, err)

	values := statementValues(st)
	require.Len(t, values, 2)
	assert.Equal(t, "SALE", values[0][1])
	assert.Equal(t, "3,000", values[0][5])

	totals := values[1]
	require.Len(t, totals, len(statement.Columns))
	assert.Equal(t, "2", totals[0])
	assert.Equal(t, "TOTAL", totals[1])
	assert.Equal(t, "2,000", totals[2])
	assert.Equal(t, "3,000", totals[3])
	assert.Equal(t, "1,000", totals[4])
	assert.Equal(t, "Range: All Dates / Generated: 01-03-2024 09:05", totals[9])
}
