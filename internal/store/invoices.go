package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"ledger/internal/forms"
	"ledger/internal/gateway"
	"ledger/internal/ledger"
	"ledger/internal/logger"
	"ledger/internal/notify"
	"ledger/pkg/models"
)

// InvoiceGateway is the part of the remote API the invoice store needs.
type InvoiceGateway interface {
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	AddInvoice(ctx context.Context, userName string, data models.InvoiceData) (gateway.Result, error)
}

// Invoices is the client-side invoice list with a memoised filtered view.
type Invoices struct {
	gw     InvoiceGateway
	notify notify.Notifier
	log    zerolog.Logger

	state    State
	err      error
	items    []models.Invoice
	revision uint64
	memo     ledger.Memo
}

// NewInvoices creates an idle store.
func NewInvoices(gw InvoiceGateway, n notify.Notifier) *Invoices {
	if n == nil {
		n = notify.Nop{}
	}
	return &Invoices{
		gw:     gw,
		notify: n,
		log:    logger.WithComponent("invoice-store"),
		state:  StateIdle,
	}
}

// Refresh reloads the list. On failure the previous items stay in place.
func (s *Invoices) Refresh(ctx context.Context) error {
	const op = "Invoices.Refresh"

	s.state = StateLoading
	invoices, err := s.gw.ListInvoices(ctx)
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.log.Error().Err(err).Int("kept", len(s.items)).Msg("Failed to load invoices")
		s.notify.Error(failureMessage(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.items = invoices
	s.revision++
	s.err = nil
	s.state = loadedState(len(invoices))
	s.log.Debug().Int("count", len(invoices)).Uint64("revision", s.revision).Msg("Invoices loaded")
	return nil
}

// State returns the load state.
func (s *Invoices) State() State { return s.state }

// Err returns the error of the last failed Refresh.
func (s *Invoices) Err() error { return s.err }

// Items returns a copy of the current list.
func (s *Invoices) Items() []models.Invoice {
	return append([]models.Invoice(nil), s.items...)
}

// View filters and aggregates the current list. Repeated calls with the same
// filter and no intervening Refresh reuse the previous result.
func (s *Invoices) View(f ledger.Filter) ledger.Result {
	return s.memo.Apply(s.revision, s.items, f)
}

// Create validates and submits an invoice on behalf of the user named in the
// form. knownUsers restricts the owner to existing user names; pass nil to
// skip that check.
func (s *Invoices) Create(ctx context.Context, f forms.InvoiceForm, knownUsers []string) (gateway.Result, error) {
	const op = "Invoices.Create"

	if err := forms.ValidateInvoice(f, knownUsers).Err(); err != nil {
		return gateway.Result{}, err
	}

	owner := strings.TrimSpace(f.User)
	res, err := s.gw.AddInvoice(ctx, owner, f.Data())
	if err != nil {
		s.notify.Error(failureMessage(err))
		return gateway.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().Str("user", owner).Str("sale_type", f.SaleType).Msg("Invoice submitted")
	s.notify.Success(successMessage(res.Message, "Invoice added"))
	return res, nil
}
