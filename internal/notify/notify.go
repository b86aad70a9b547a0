// Package notify is the port through which actions report transient
// success and failure messages to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"ledger/internal/logger"
)

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console prints styled one-line notices and mirrors them to the log.
type Console struct {
	out     io.Writer
	log     zerolog.Logger
	success lipgloss.Style
	failure lipgloss.Style
}

// NewConsole writes notices to w.
func NewConsole(w io.Writer) *Console {
	return &Console{
		out: w,
		log: logger.WithComponent("notify"),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#065F46")).
			Bold(true),
		failure: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B91C1C")).
			Bold(true),
	}
}

func (c *Console) Success(msg string) {
	c.log.Info().Str("notice", msg).Msg("Action succeeded")
	fmt.Fprintln(c.out, c.success.Render("✓ "+msg))
}

func (c *Console) Error(msg string) {
	c.log.Warn().Str("notice", msg).Msg("Action failed")
	fmt.Fprintln(c.out, c.failure.Render("✗ "+msg))
}

// Nop discards every notice.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Kind tells a recorded notice apart.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is one recorded message.
type Notice struct {
	Kind    Kind
	Message string
}

// Recorder keeps notices in memory, for tests and for callers that want to
// render them later.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Kind: k, Message: msg})
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
