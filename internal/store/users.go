package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ledger/internal/forms"
	"ledger/internal/gateway"
	"ledger/internal/ledger"
	"ledger/internal/logger"
	"ledger/internal/notify"
	"ledger/pkg/models"
)

// UserGateway is the part of the remote API the user store needs.
type UserGateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	AddUser(ctx context.Context, in models.UserInput) (gateway.Result, error)
	UpdateUser(ctx context.Context, id string, in models.UserInput) (gateway.Result, error)
	DeleteUser(ctx context.Context, id string) (gateway.Result, error)
}

// Users is the client-side user list.
type Users struct {
	gw     UserGateway
	notify notify.Notifier
	log    zerolog.Logger

	state State
	err   error
	items []models.User
}

// NewUsers creates an idle store.
func NewUsers(gw UserGateway, n notify.Notifier) *Users {
	if n == nil {
		n = notify.Nop{}
	}
	return &Users{
		gw:     gw,
		notify: n,
		log:    logger.WithComponent("user-store"),
		state:  StateIdle,
	}
}

// Refresh reloads the list. On failure the previous items stay in place.
func (s *Users) Refresh(ctx context.Context) error {
	const op = "Users.Refresh"

	s.state = StateLoading
	users, err := s.gw.ListUsers(ctx)
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.log.Error().Err(err).Int("kept", len(s.items)).Msg("Failed to load users")
		s.notify.Error(failureMessage(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.items = users
	s.err = nil
	s.state = loadedState(len(users))
	s.log.Debug().Int("count", len(users)).Msg("Users loaded")
	return nil
}

// State returns the load state.
func (s *Users) State() State { return s.state }

// Err returns the error of the last failed Refresh.
func (s *Users) Err() error { return s.err }

// Items returns a copy of the current list.
func (s *Users) Items() []models.User {
	return append([]models.User(nil), s.items...)
}

// Search filters the current list.
func (s *Users) Search(q string) []models.User {
	return ledger.SearchUsers(s.items, q)
}

// Names returns the user names, as offered when picking an invoice owner.
func (s *Users) Names() []string {
	names := make([]string, 0, len(s.items))
	for _, u := range s.items {
		if u.Name != "" {
			names = append(names, u.Name)
		}
	}
	return names
}

// Find returns the user with the given id.
func (s *Users) Find(id string) (models.User, bool) {
	for _, u := range s.items {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Create validates and submits a new user. Validation failures are returned
// as forms.Errors and are not sent.
func (s *Users) Create(ctx context.Context, f forms.UserForm) (gateway.Result, error) {
	const op = "Users.Create"

	if err := forms.ValidateUser(f).Err(); err != nil {
		return gateway.Result{}, err
	}

	res, err := s.gw.AddUser(ctx, f.Input())
	if err != nil {
		s.notify.Error(failureMessage(err))
		return gateway.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	if res.User != nil {
		s.items = append(s.items, *res.User)
		s.state = loadedState(len(s.items))
	}
	s.notify.Success(successMessage(res.Message, "User added"))
	return res, nil
}

// Update validates and submits an edit. On success the cached record is
// replaced by the one the API returns.
func (s *Users) Update(ctx context.Context, id string, f forms.UserForm) (gateway.Result, error) {
	const op = "Users.Update"

	if err := forms.ValidateUser(f).Err(); err != nil {
		return gateway.Result{}, err
	}

	res, err := s.gw.UpdateUser(ctx, id, f.Input())
	if err != nil {
		s.notify.Error(failureMessage(err))
		return gateway.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	if res.User != nil {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i] = *res.User
				break
			}
		}
	}
	s.notify.Success(successMessage(res.Message, "User updated"))
	return res, nil
}

// Delete removes a user remotely and drops it from the cached list.
func (s *Users) Delete(ctx context.Context, id string) (gateway.Result, error) {
	const op = "Users.Delete"

	res, err := s.gw.DeleteUser(ctx, id)
	if err != nil {
		s.notify.Error(failureMessage(err))
		return gateway.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	kept := s.items[:0]
	for _, u := range s.items {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.items = kept
	if s.state == StateReady || s.state == StateEmpty {
		s.state = loadedState(len(s.items))
	}
	s.notify.Success(successMessage(res.Message, "User deleted"))
	return res, nil
}

func successMessage(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
