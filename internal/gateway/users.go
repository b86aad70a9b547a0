package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ledger/pkg/models"
)

// Result is the outcome of a successful mutation.
type Result struct {
	Message string
	User    *models.User // set when the API echoes the record back
}

// ListUsers fetches every user.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "ListUsers"

	env, err := c.do(ctx, op, http.MethodGet, c.endpoints.UserList, nil, nil)
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := decodeList(env.List, &users); err != nil {
		return nil, &APIError{Op: op, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return users, nil
}

// AddUser creates a user. The body is wrapped as {"data": {...}}.
func (c *Client) AddUser(ctx context.Context, in models.UserInput) (Result, error) {
	const op = "AddUser"

	body := struct {
		Data models.UserInput `json:"data"`
	}{Data: in}

	env, err := c.do(ctx, op, http.MethodPost, c.endpoints.AddUser, nil, body)
	if err != nil {
		return Result{}, err
	}
	return toResult(env), nil
}

// UpdateUser replaces a user's editable fields. The body is sent unwrapped.
func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserInput) (Result, error) {
	const op = "UpdateUser"

	if strings.TrimSpace(id) == "" {
		return Result{}, &APIError{Op: op, Err: ErrMissingID}
	}

	env, err := c.do(ctx, op, http.MethodPut, c.endpoints.UpdateUser, url.Values{"id": {id}}, in)
	if err != nil {
		return Result{}, err
	}
	return toResult(env), nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) (Result, error) {
	const op = "DeleteUser"

	if strings.TrimSpace(id) == "" {
		return Result{}, &APIError{Op: op, Err: ErrMissingID}
	}

	env, err := c.do(ctx, op, http.MethodDelete, c.endpoints.DeleteUser, url.Values{"id": {id}}, nil)
	if err != nil {
		return Result{}, err
	}
	return toResult(env), nil
}

func toResult(env *envelope) Result {
	res := Result{Message: env.Message}
	if len(env.User) > 0 && string(env.User) != "null" {
		var u models.User
		if err := json.Unmarshal(env.User, &u); err == nil && u.ID != "" {
			res.User = &u
		}
	}
	return res
}

// decodeList decodes a "list" payload. A missing or null list is empty.
func decodeList(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, out)
}
