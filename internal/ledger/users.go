package ledger

import (
	"strconv"
	"strings"

	"ledger/pkg/models"
)

// SearchUsers returns the users whose name, mobile, estate, id or invoice
// count contains q (case-insensitive). An empty query returns every user.
func SearchUsers(users []models.User, q string) []models.User {
	q = strings.ToLower(strings.TrimSpace(q))

	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if q == "" || strings.Contains(userHaystack(u), q) {
			out = append(out, u)
		}
	}
	return out
}

func userHaystack(u models.User) string {
	fields := make([]string, 0, 5)
	for _, p := range []string{u.Name, u.Mobile, u.Estate, u.ID} {
		if p != "" {
			fields = append(fields, p)
		}
	}
	if n := len(u.Invoices); n > 0 {
		fields = append(fields, strconv.Itoa(n))
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// UnknownOwner labels invoices whose owner cannot be resolved.
const UnknownOwner = "Unknown User"

// OwnerName resolves the display name of an invoice's owner: the embedded
// user, then the name stored in the payload, then UnknownOwner.
func OwnerName(inv models.Invoice) string {
	if name := strings.TrimSpace(inv.User.Name()); name != "" {
		return name
	}
	if name := strings.TrimSpace(inv.Data.User); name != "" {
		return name
	}
	return UnknownOwner
}

// ShortID is the last ten characters of an id.
func ShortID(id string) string {
	if len(id) <= 10 {
		return id
	}
	return id[len(id)-10:]
}
