package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ledger/internal/forms"
	"ledger/internal/ledger"
	"ledger/internal/statement"
	"ledger/pkg/models"
)

// cardTimeLayout is the created-at layout on invoice cards.
const cardTimeLayout = "02-01-2006 15:04"

var (
	colorMuted    = lipgloss.Color("#6B7280")
	colorBorder   = lipgloss.Color("#E5E7EB")
	colorAccent   = lipgloss.Color("#2D4BFF")
	colorSale     = lipgloss.Color("#10B981")
	colorPurchase = lipgloss.Color("#3B82F6")
	colorProfit   = lipgloss.Color("#065F46")
	colorLoss     = lipgloss.Color("#F97316")
	colorError    = lipgloss.Color("#B91C1C")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(8)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)

	badgeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2).
			MarginRight(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(60)
)

// renderUsers draws the user list as a table.
func renderUsers(users []models.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Mobile, u.Estate, strconv.Itoa(len(u.Invoices))})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("ID", "Name", "Mobile", "Estate", "Invoices").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 4 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		})

	return t.String()
}

// renderSummary draws the four summary badges on one line.
func renderSummary(sum ledger.Summary, prefix string) string {
	profitColor := colorProfit
	if sum.TotalProfit.IsNegative() {
		profitColor = colorLoss
	}

	badge := func(label, value string, color lipgloss.Color) string {
		return badgeStyle.Render(mutedStyle.Render(label) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(color).Render(value))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		badge("Total Qty", ledger.FormatQuantity(sum.TotalQty), colorAccent),
		badge("Total Purchase", ledger.FormatCurrency(prefix, sum.TotalPurchase), colorPurchase),
		badge("Total Sale", ledger.FormatCurrency(prefix, sum.TotalSale), colorSale),
		badge("Total Profit", ledger.FormatCurrency(prefix, sum.TotalProfit), profitColor),
	)
}

// renderInvoiceCard draws one invoice with its derived totals.
func renderInvoiceCard(inv models.Invoice, prefix string, loc *time.Location) string {
	d := inv.Data
	t := ledger.Derive(inv)

	typeColor := colorMuted
	switch d.SaleType {
	case models.SaleTypeSale:
		typeColor = colorSale
	case models.SaleTypePurchase:
		typeColor = colorPurchase
	}
	typeLabel := strings.ToUpper(string(d.SaleType))
	if typeLabel == "" {
		typeLabel = statement.Missing
	}

	created := statement.Missing
	if !inv.CreatedAt.IsZero() {
		created = inv.CreatedAt.In(loc).Format(cardTimeLayout)
	}

	profit := statement.Missing
	if d.IsSale() {
		profit = ledger.FormatCurrency(prefix, t.Profit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n",
		lipgloss.NewStyle().Bold(true).Foreground(typeColor).Render(typeLabel),
		mutedStyle.Render(created),
		mutedStyle.Render("#"+ledger.ShortID(inv.ID)))
	fmt.Fprintf(&b, "%s%s   Profit: %s\n", labelStyle.Render("Total"), titleStyle.Render(ledger.FormatCurrency(prefix, t.GrandTotal)), profit)
	fmt.Fprintf(&b, "%s%s · %s\n", labelStyle.Render("Client"), orMissing(d.ClientName), orMissing(d.ClientMobile))
	fmt.Fprintf(&b, "%s%s · Qty %s · Purchase %s", labelStyle.Render("Asset"),
		orMissing(d.ClientRefrence), ledger.FormatQuantity(d.Quantity.Decimal()), ledger.FormatCurrency(prefix, d.Purchase.Decimal()))
	if d.IsSale() {
		fmt.Fprintf(&b, " · Sale %s", ledger.FormatCurrency(prefix, d.Sale.Decimal()))
	}
	b.WriteString("\n")
	if c := strings.TrimSpace(d.Comments); c != "" {
		fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Notes"), c)
	}
	fmt.Fprintf(&b, "%s%s", labelStyle.Render("User"), ledger.OwnerName(inv))

	return cardStyle.Render(b.String())
}

// renderListing draws the summary, then one card per invoice.
func renderListing(res ledger.Result, prefix string, loc *time.Location) string {
	var b strings.Builder

	header := fmt.Sprintf("Invoices · %s · %s", res.Filter.Range.Label(), res.Filter.Type.Label())
	if q := strings.TrimSpace(res.Filter.Query); q != "" {
		header += fmt.Sprintf(" · %q", q)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(renderSummary(res.Summary, prefix))
	b.WriteString("\n")

	if err := res.RangeErr(); err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if len(res.Invoices) == 0 {
		b.WriteString(mutedStyle.Render("No invoices match the current filters."))
		b.WriteString("\n")
		return b.String()
	}

	for _, inv := range res.Invoices {
		b.WriteString(renderInvoiceCard(inv, prefix, loc))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFieldErrors lists validation messages, one per line.
func renderFieldErrors(errs forms.Errors) string {
	lines := make([]string, 0, len(errs))
	for _, field := range errs.Fields() {
		lines = append(lines, "  "+errorStyle.Render(fmt.Sprintf("%s: %s", field, errs[field])))
	}
	return strings.Join(lines, "\n")
}

// renderPreview shows what an invoice form would submit, with derived totals.
func renderPreview(f forms.InvoiceForm, prefix string) string {
	d := f.Data()
	totals := ledger.DeriveData(d)

	rows := [][]string{
		{"User", orMissing(d.User)},
		{"Type", strings.ToUpper(string(d.SaleType))},
		{"Quantity", ledger.FormatQuantity(d.Quantity.Decimal())},
		{"Purchase", ledger.FormatCurrency(prefix, d.Purchase.Decimal())},
	}
	if d.IsSale() {
		rows = append(rows,
			[]string{"Sale", ledger.FormatCurrency(prefix, d.Sale.Decimal())},
			[]string{"Profit", ledger.FormatCurrency(prefix, totals.Profit)},
		)
	}
	rows = append(rows,
		[]string{"Total", ledger.FormatCurrency(prefix, totals.GrandTotal)},
		[]string{"Client", orMissing(d.ClientName) + " · " + orMissing(d.ClientMobile)},
		[]string{"Reference", orMissing(d.ClientRefrence)},
		[]string{"Comments", orMissing(d.Comments)},
	)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return mutedStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	return titleStyle.Render("Invoice preview (not submitted)") + "\n" + tbl.String()
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return statement.Missing
	}
	return s
}
