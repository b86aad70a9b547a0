// Package store keeps the in-memory snapshot of users and invoices that a
// command works on. Lists are loaded by an explicit Refresh, mutations go
// through the gateway and report their outcome through a notify.Notifier.
//
// A store is used from a single goroutine and is not safe for concurrent use.
package store

import "ledger/internal/gateway"

// State is the load state of a store.
type State int

const (
	// StateIdle means Refresh has never been called.
	StateIdle State = iota
	// StateLoading means a Refresh is in flight.
	StateLoading
	// StateEmpty means the last Refresh succeeded with no records.
	StateEmpty
	// StateReady means the last Refresh succeeded with records.
	StateReady
	// StateFailed means the last Refresh failed; previous items are kept.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func loadedState(n int) State {
	if n == 0 {
		return StateEmpty
	}
	return StateReady
}

// failureMessage is the notification text for a failed gateway call.
func failureMessage(err error) string {
	return gateway.MessageOf(err)
}
