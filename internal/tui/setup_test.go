package tui

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lakedash/lakedash/internal/backend"
)

// colorProfileMu serializes tests that mutate the global lipgloss color
// profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that
// assert on styled output, restoring the original profile via Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// mockBackend implements Backend with canned results and records the
// queries the model submits.
type mockBackend struct {
	me        *backend.MeResult
	meErr     error
	ping      *backend.PingResult
	pingErr   error
	emails    *backend.EmailsResult
	emailsErr error

	mu      sync.Mutex
	queries []backend.Query
}

var errNotConfigured = errors.New("mock: not configured")

func (b *mockBackend) Me(ctx context.Context) (*backend.MeResult, error) {
	if b.meErr != nil {
		return nil, b.meErr
	}
	if b.me == nil {
		return nil, errNotConfigured
	}
	return b.me, nil
}

func (b *mockBackend) Ping(ctx context.Context) (*backend.PingResult, error) {
	if b.pingErr != nil {
		return nil, b.pingErr
	}
	if b.ping == nil {
		return nil, errNotConfigured
	}
	return b.ping, nil
}

func (b *mockBackend) Emails(ctx context.Context, q backend.Query) (*backend.EmailsResult, error) {
	b.mu.Lock()
	b.queries = append(b.queries, q)
	b.mu.Unlock()
	if b.emailsErr != nil {
		return nil, b.emailsErr
	}
	if b.emails == nil {
		return nil, errNotConfigured
	}
	return b.emails, nil
}

func (b *mockBackend) recordedQueries() []backend.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]backend.Query, len(b.queries))
	copy(out, b.queries)
	return out
}

// healthyBackend returns a mock with sensible results for all three
// endpoints.
func healthyBackend() *mockBackend {
	active := true
	queryMS := 8.5
	return &mockBackend{
		me: &backend.MeResult{
			Mode: "local",
			CurrentUser: &backend.User{
				UserName: "jane.doe@example.com",
				Name:     &backend.UserName{GivenName: "Jane", FamilyName: "Doe"},
				Active:   &active,
			},
		},
		ping: &backend.PingResult{
			OK:     true,
			Timing: &backend.Timing{QueryMS: &queryMS},
		},
		emails: &backend.EmailsResult{
			Rows: []backend.Row{
				backend.NewRow(
					backend.Field{Name: "subject", Value: "Invoice #1"},
					backend.Field{Name: "from_email", Value: "billing@example.com"},
				),
				backend.NewRow(
					backend.Field{Name: "subject", Value: "Hello"},
					backend.Field{Name: "is_read", Value: true},
				),
			},
			Timing: &backend.Timing{QueryMS: &queryMS},
		},
	}
}

// runCmd executes a command, flattening batches, and returns every
// message it produced.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// drive feeds messages through Update until none remain, skipping timer
// ticks, and returns the settled model.
func drive(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for len(msgs) > 0 {
		var next []tea.Msg
		for _, msg := range msgs {
			updated, cmd := m.Update(msg)
			m = updated.(Model)
			next = append(next, runCmd(t, cmd)...)
		}
		msgs = next
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
