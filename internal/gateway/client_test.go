package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/pkg/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// newServer replies with status and body and records the last request.
func newServer(t *testing.T, status int, body string) (*Client, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.Query()
		rec.Header = r.Header.Clone()
		rec.Body = nil
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL + "/api/")
	require.NoError(t, err)
	return c, rec
}

func TestNewClientValidatesURL(t *testing.T) {
	for _, bad := range []string{"", "localhost:5050", "ftp://example.com", "http://"} {
		_, err := NewClient(bad)
		assert.Error(t, err, bad)
	}
}

func TestListUsers(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"list":[{"_id":"u1","name":"Ali","mobile":"03001234567","estate":"DHA","invoices":["i1"]}]}`)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/user/list", rec.Path)
	assert.Equal(t, "application/json", rec.Header.Get("Content-Type"))
	assert.Len(t, rec.Header.Get(RequestIDHeader), 36)

	require.Len(t, users, 1)
	assert.Equal(t, "Ali", users[0].Name)
	assert.Equal(t, []models.InvoiceRef{{ID: "i1"}}, users[0].Invoices)
}

func TestListUsersNullList(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"status":true,"list":null}`)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestAddUserWrapsBody(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"message":"User added","user":{"_id":"u7","name":"Sana"}}`)

	res, err := c.AddUser(context.Background(), models.UserInput{Name: "Sana", Mobile: "03111111111", Estate: "Bahria"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/user/add", rec.Path)
	assert.Equal(t, map[string]any{"data": map[string]any{"name": "Sana", "mobile": "03111111111", "estate": "Bahria"}}, rec.Body)
	assert.Equal(t, "User added", res.Message)
	require.NotNil(t, res.User)
	assert.Equal(t, "u7", res.User.ID)
}

func TestUpdateUserSendsFlatBodyAndID(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"message":"Updated","user":{"_id":"u1","name":"Ali R"}}`)

	res, err := c.UpdateUser(context.Background(), "u1", models.UserInput{Name: "Ali R", Mobile: "03001234567", Estate: "DHA"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.Method)
	assert.Equal(t, "/api/user/update", rec.Path)
	assert.Equal(t, []string{"u1"}, rec.Query["id"])
	assert.Equal(t, "Ali R", rec.Body["name"])
	assert.Equal(t, "Ali R", res.User.Name)
}

func TestDeleteUser(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"message":"Deleted"}`)

	res, err := c.DeleteUser(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, []string{"u1"}, rec.Query["id"])
	assert.Nil(t, rec.Body)
	assert.Nil(t, res.User)
	assert.Equal(t, "Deleted", res.Message)
}

func TestMutationsRequireID(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"status":true}`)

	_, err := c.UpdateUser(context.Background(), " ", models.UserInput{})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = c.DeleteUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestAddInvoice(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"message":"Invoice added"}`)

	data := models.InvoiceData{
		SaleType:       models.SaleTypeSale,
		Purchase:       models.NumberFromInt(100),
		Sale:           models.NumberFromInt(150),
		Quantity:       models.NumberFromInt(2),
		User:           "Ali Raza",
		ClientName:     "Bilal",
		ClientMobile:   "03001234567",
		ClientRefrence: "Plot 12",
	}

	res, err := c.AddInvoice(context.Background(), "Ali Raza", data)
	require.NoError(t, err)

	assert.Equal(t, "/api/user/invoice/add", rec.Path)
	assert.Equal(t, []string{"Ali Raza"}, rec.Query["user"])
	inner, ok := rec.Body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sale", inner["saleType"])
	assert.Equal(t, float64(150), inner["sale"])
	assert.Equal(t, "Invoice added", res.Message)
}

func TestListInvoices(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"list":[
		{"_id":"i1","createdAt":"2024-01-05T10:00:00Z","user":{"_id":"u1","name":"Ali"},"data":{"saleType":"sale","purchase":100,"sale":150,"quantity":2}},
		{"_id":"i2","user":"u2","data":{"saleType":"purchase","purchase":"50","quantity":"3"}}
	]}`)

	invoices, err := c.ListInvoices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/user/invoice/list", rec.Path)
	require.Len(t, invoices, 2)
	assert.Equal(t, "Ali", invoices[0].User.Name())
	assert.Equal(t, "u2", invoices[1].User.ID)
	assert.Equal(t, "50", invoices[1].Data.Purchase.String())
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"status false", http.StatusOK, `{"status":false,"message":"Mobile already exists"}`, ErrRejected, "Mobile already exists"},
		{"http error with message", http.StatusBadRequest, `{"status":false,"message":"Invalid user"}`, ErrHTTPStatus, "Invalid user"},
		{"http error plain body", http.StatusBadGateway, `upstream down`, ErrHTTPStatus, "upstream down"},
		{"not json", http.StatusOK, `<html>`, ErrDecode, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, tt.status, tt.body)

			_, err := c.AddUser(context.Background(), models.UserInput{Name: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "AddUser", apiErr.Op)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.RequestID)
			if tt.message != "" {
				assert.Equal(t, tt.message, MessageOf(err))
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base)
	require.NoError(t, err)

	_, err = c.ListInvoices(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotEmpty(t, MessageOf(err))
}

func TestCancelledContext(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"status":true,"list":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListUsers(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCustomEndpoints(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":true,"list":[]}`)
	WithEndpoints(Endpoints{UserList: "users"})(c)

	_, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/users", rec.Path)
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}

	c, err := NewClient("http://localhost:5050/", WithHTTPClient(shared), WithTimeout(5*time.Second))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Zero(t, shared.Timeout)
	assert.NotSame(t, shared, c.httpClient)
}
