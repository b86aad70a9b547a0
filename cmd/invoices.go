package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/forms"
	"ledger/internal/ledger"
	"ledger/internal/logger"
	"ledger/pkg/models"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "List and record sale and purchase invoices",
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices with filters and totals",
	Long: `List invoices as cards with derived totals, narrowed by a text search,
a transaction type and an inclusive date range. The summary badges always
describe exactly the invoices shown.

A date range whose end is before its start shows nothing.`,
	Example: `  # Everything
  ledger invoices list

  # Sales in January 2024 mentioning "plot"
  ledger invoices list --type sale --from 2024-01-01 --to 2024-01-31 --search plot

  # Filtered listing and summary as JSON
  ledger invoices list --type purchase --json`,
	Args: cobra.NoArgs,
	RunE: runInvoicesList,
}

var invoicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an invoice for an existing user",
	Long: `Record a sale or purchase invoice against an existing user. The form is
validated locally before anything is sent; --dry-run stops after validation
and prints the derived totals instead of submitting.`,
	Example: `  # A sale
  ledger invoices add --user "Ali Raza" --type sale --purchase 100000 --sale 125000 \
    --quantity 2 --client-name Bilal --client-mobile 03001234567 --client-ref "Plot 14"

  # Preview a purchase without submitting
  ledger invoices add --user "Ali Raza" --type purchase --purchase 50 --quantity 3 \
    --client-name Hafiz --client-mobile 03007654321 --client-ref "Block C" --dry-run`,
	Args: cobra.NoArgs,
	RunE: runInvoicesAdd,
}

// invoiceListOutput is the --json shape of invoices list.
type invoiceListOutput struct {
	Range    string           `json:"range"`
	Type     string           `json:"type"`
	Search   string           `json:"search,omitempty"`
	Error    string           `json:"error,omitempty"`
	Summary  ledger.Summary   `json:"summary"`
	Invoices []models.Invoice `json:"invoices"`
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	invoicesCmd.AddCommand(invoicesListCmd, invoicesAddCmd)

	addListFilterFlags(invoicesListCmd)
	invoicesListCmd.Flags().Bool("json", false, "Print the filtered listing and summary as JSON")

	invoicesAddCmd.Flags().StringP("user", "u", "", "Owning user's name")
	invoicesAddCmd.Flags().StringP("type", "t", "", "Transaction type: sale or purchase")
	invoicesAddCmd.Flags().String("purchase", "", "Unit purchase price")
	invoicesAddCmd.Flags().String("sale", "", "Unit sale price (sales only)")
	invoicesAddCmd.Flags().String("quantity", "", "Number of units")
	invoicesAddCmd.Flags().String("client-name", "", "Client name")
	invoicesAddCmd.Flags().String("client-mobile", "", "Client mobile (11 digits)")
	invoicesAddCmd.Flags().String("client-ref", "", "Client reference or estate")
	invoicesAddCmd.Flags().String("comments", "", "Free-text comments")
	invoicesAddCmd.Flags().Bool("dry-run", false, "Validate and preview without submitting")
}

func runInvoicesList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	// Get flags
	asJSON, _ := cmd.Flags().GetBool("json")
	filter, err := listFilter(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	_, invoices, err := newStores(cmd)
	if err != nil {
		return err
	}

	if err := invoices.Refresh(ctx); err != nil {
		return handleCommandError(err, log)
	}

	res := invoices.View(filter)

	log.Info().
		Int("total", len(invoices.Items())).
		Int("shown", len(res.Invoices)).
		Str("range", filter.Range.Label()).
		Str("type", filter.Type.Label()).
		Msg("Invoices listed")

	if asJSON {
		out := invoiceListOutput{
			Range:    filter.Range.Label(),
			Type:     filter.Type.Label(),
			Search:   filter.NormalizedQuery(),
			Summary:  res.Summary,
			Invoices: res.Invoices,
		}
		if rangeErr := res.RangeErr(); rangeErr != nil {
			out.Error = rangeErr.Error()
		}
		if out.Invoices == nil {
			out.Invoices = []models.Invoice{}
		}
		return outputJSON(out, "", log)
	}

	fmt.Print(renderListing(res, cfg.CurrencyPrefix, cfg.Location()))
	return nil
}

func runInvoicesAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	// Get flags
	form := forms.InvoiceForm{}
	form.User, _ = cmd.Flags().GetString("user")
	form.SaleType, _ = cmd.Flags().GetString("type")
	form.Purchase, _ = cmd.Flags().GetString("purchase")
	form.Sale, _ = cmd.Flags().GetString("sale")
	form.Quantity, _ = cmd.Flags().GetString("quantity")
	form.ClientName, _ = cmd.Flags().GetString("client-name")
	form.ClientMobile, _ = cmd.Flags().GetString("client-mobile")
	form.ClientRefrence, _ = cmd.Flags().GetString("client-ref")
	form.Comments, _ = cmd.Flags().GetString("comments")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, cancel := createCommandContext(0, log)
	defer cancel()

	users, invoices, err := newStores(cmd)
	if err != nil {
		return err
	}

	// The owner must be one of the existing users
	if err := users.Refresh(ctx); err != nil {
		return handleCommandError(err, log)
	}
	known := users.Names()

	if dryRun {
		if err := forms.ValidateInvoice(form, known).Err(); err != nil {
			return handleCommandError(err, log)
		}
		fmt.Println(renderPreview(form, cfg.CurrencyPrefix))
		return nil
	}

	if _, err := invoices.Create(ctx, form, known); err != nil {
		return handleCommandError(err, log)
	}
	return nil
}
