package forms

import (
	"strings"

	"github.com/shopspring/decimal"

	"ledger/pkg/models"
)

// InvoiceForm is the add-invoice form. Numeric inputs are kept as typed text
// so validation can tell "missing" from "not a number".
type InvoiceForm struct {
	SaleType       string `json:"saleType"`
	Purchase       string `json:"purchase"`
	Sale           string `json:"sale"`
	Quantity       string `json:"quantity"`
	User           string `json:"user"`
	ClientName     string `json:"clientName"`
	ClientMobile   string `json:"clientMobile"`
	ClientRefrence string `json:"clientRefrence"`
	Comments       string `json:"comments"`
}

// IsSale reports whether the form describes a sale.
func (f InvoiceForm) IsSale() bool {
	return strings.TrimSpace(f.SaleType) == string(models.SaleTypeSale)
}

// Data converts the form to the stored payload. Unparseable numbers become
// zero and a purchase never carries a sale price.
func (f InvoiceForm) Data() models.InvoiceData {
	purchase, _ := models.ParseNumber(f.Purchase)
	quantity, _ := models.ParseNumber(f.Quantity)

	var sale models.Number
	if f.IsSale() {
		sale, _ = models.ParseNumber(f.Sale)
	}

	return models.InvoiceData{
		SaleType:       models.SaleType(strings.TrimSpace(f.SaleType)),
		Purchase:       purchase,
		Sale:           sale,
		Quantity:       quantity,
		User:           strings.TrimSpace(f.User),
		ClientName:     strings.TrimSpace(f.ClientName),
		ClientMobile:   strings.TrimSpace(f.ClientMobile),
		ClientRefrence: strings.TrimSpace(f.ClientRefrence),
		Comments:       strings.TrimSpace(f.Comments),
	}
}

// ValidateInvoice checks an invoice form. knownUsers, when non-nil, is the
// list of selectable user names; the form's user must be one of them.
func ValidateInvoice(f InvoiceForm, knownUsers []string) Errors {
	errs := Errors{}

	switch models.SaleType(strings.TrimSpace(f.SaleType)) {
	case models.SaleTypeSale, models.SaleTypePurchase:
	case "":
		errs[FieldSaleType] = "Sale type is required"
	default:
		errs[FieldSaleType] = "Sale type must be sale or purchase"
	}

	if msg := checkPositive(f.Purchase, "Purchase price required", "Purchase must be a number", "Price should be positive"); msg != "" {
		errs[FieldPurchase] = msg
	}

	if f.IsSale() {
		if msg := checkPositive(f.Sale, "Sale price is required", "Sale must be a number", "Sale price must be positive"); msg != "" {
			errs[FieldSale] = msg
		}
	}

	if msg := checkQuantity(f.Quantity); msg != "" {
		errs[FieldQuantity] = msg
	}

	if !userSelected(strings.TrimSpace(f.User), knownUsers) {
		errs[FieldUser] = "Please select a user"
	}

	if msg := checkText(f.ClientName, "Client name is required", "Client name is too short"); msg != "" {
		errs[FieldClientName] = msg
	}

	switch mobile := strings.TrimSpace(f.ClientMobile); {
	case mobile == "":
		errs[FieldClientMobile] = "Client mobile is required"
	case !mobilePattern.MatchString(mobile):
		errs[FieldClientMobile] = msgMobileDigits
	}

	if msg := checkText(f.ClientRefrence, "Refrence/Estate is required", "Reference/Estate is too short"); msg != "" {
		errs[FieldClientRefrence] = msg
	}

	return errs
}

func checkPositive(raw, required, notNumber, notPositive string) string {
	if strings.TrimSpace(raw) == "" {
		return required
	}
	n, ok := models.ParseNumber(raw)
	if !ok {
		return notNumber
	}
	if !n.Decimal().IsPositive() {
		return notPositive
	}
	return ""
}

func checkQuantity(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Quantity is required"
	}
	n, ok := models.ParseNumber(raw)
	if !ok {
		return "Quantity must be a number"
	}
	if !n.Decimal().Equal(n.Decimal().Truncate(0)) {
		return "Quantity must be an integer"
	}
	if !n.Decimal().GreaterThan(decimal.Zero) {
		return "Quantity must be positive"
	}
	return ""
}

func checkText(raw, required, tooShort string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return required
	}
	if len([]rune(v)) < 2 {
		return tooShort
	}
	return ""
}

func userSelected(name string, known []string) bool {
	if name == "" {
		return false
	}
	if known == nil {
		return true
	}
	for _, k := range known {
		if k == name {
			return true
		}
	}
	return false
}
