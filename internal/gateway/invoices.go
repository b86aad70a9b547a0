package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ledger/pkg/models"
)

// ListInvoices fetches every invoice, with owners embedded where the API
// populates them.
func (c *Client) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	const op = "ListInvoices"

	env, err := c.do(ctx, op, http.MethodGet, c.endpoints.InvoiceList, nil, nil)
	if err != nil {
		return nil, err
	}

	invoices := []models.Invoice{}
	if err := decodeList(env.List, &invoices); err != nil {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return invoices, nil
}

// AddInvoice creates an invoice owned by the named user.
func (c *Client) AddInvoice(ctx context.Context, userName string, data models.InvoiceData) (Result, error) {
	const op = "AddInvoice"

	body := struct {
		Data models.InvoiceData `json:"data"`
	}{Data: data}

	env, err := c.do(ctx, op, http.MethodPost, c.endpoints.AddInvoice, url.Values{"user": {userName}}, body)
	if err != nil {
		return Result{}, err
	}
	return toResult(env), nil
}
