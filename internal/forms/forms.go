// Package forms holds the typed user and invoice forms together with their
// validation rules. Validation is pure: it returns a field -> message map and
// never talks to the network.
package forms

import (
	"regexp"
	"strings"

	"ledger/pkg/models"
)

// Field names, as used by the remote API and reported in Errors.
const (
	FieldName           = "name"
	FieldMobile         = "mobile"
	FieldEstate         = "estate"
	FieldSaleType       = "saleType"
	FieldPurchase       = "purchase"
	FieldSale           = "sale"
	FieldQuantity       = "quantity"
	FieldUser           = "user"
	FieldClientName     = "clientName"
	FieldClientMobile   = "clientMobile"
	FieldClientRefrence = "clientRefrence"
	FieldComments       = "comments"
)

var mobilePattern = regexp.MustCompile(`^\d{11}$`)

const msgMobileDigits = "Mobile number must be exactly 11 digits"

// UserForm is the create/edit form for a user.
type UserForm struct {
	Name   string
	Mobile string
	Estate string
}

// UserFormFrom prefills a form from an existing record.
func UserFormFrom(u models.User) UserForm {
	return UserForm{Name: u.Name, Mobile: u.Mobile, Estate: u.Estate}
}

// Input returns the trimmed payload sent to the API.
func (f UserForm) Input() models.UserInput {
	return models.UserInput{
		Name:   strings.TrimSpace(f.Name),
		Mobile: strings.TrimSpace(f.Mobile),
		Estate: strings.TrimSpace(f.Estate),
	}
}

// ValidateUser checks a user form.
func ValidateUser(f UserForm) Errors {
	errs := Errors{}
	in := f.Input()

	if in.Name == "" {
		errs[FieldName] = "Name is required"
	}

	switch {
	case in.Mobile == "":
		errs[FieldMobile] = "Mobile is required"
	case !mobilePattern.MatchString(in.Mobile):
		errs[FieldMobile] = msgMobileDigits
	}

	if in.Estate == "" {
		errs[FieldEstate] = "Estate name is required"
	}

	return errs
}
