// Package tui provides the interactive terminal dashboard.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakedash/lakedash/internal/backend"
	"github.com/lakedash/lakedash/internal/render"
)

// progressResetDelay is how long a finished progress bar stays at 100%
// before snapping back to zero.
const progressResetDelay = 400 * time.Millisecond

// Progress checkpoints while a fetch is in flight.
const (
	healthStartPercent = 12
	emailsStartPercent = 18
)

// Backend is the slice of the API client the dashboard needs.
type Backend interface {
	Me(ctx context.Context) (*backend.MeResult, error)
	Ping(ctx context.Context) (*backend.PingResult, error)
	Emails(ctx context.Context, q backend.Query) (*backend.EmailsResult, error)
}

// Options configures the dashboard.
type Options struct {
	Version     string
	PreviewRows int // rows shown in the listing preview (default 10)
}

// focusTarget identifies which filter control owns keyboard input.
type focusTarget int

const (
	focusNone focusTarget = iota
	focusSubject
	focusFrom
	focusIsRead
	focusIsStarred
)

// identityRegion holds the current-user display values.
type identityRegion struct {
	mode        string
	userName    string
	displayName string
	active      string
	raw         string
	err         error
	loading     bool
}

// healthRegion holds the warehouse connectivity display values.
type healthRegion struct {
	checked bool // a response has arrived at least once
	ok      bool
	latency string
	detail  string
	raw     string
	err     error
	loading bool
	percent float64
}

// emailsRegion holds the filtered listing display values.
type emailsRegion struct {
	loaded      bool
	grid        render.Grid
	count       string
	queryMS     string
	serializeMS string
	totalMS     string
	raw         string
	err         error
	loading     bool
	percent     float64
}

// Model is the dashboard model following the Elm architecture. Each
// display region is an explicit field; concurrent loaders write into
// disjoint regions, so interleaved completions never clobber each
// other.
type Model struct {
	backend Backend
	version string

	previewRows int

	// Filter controls
	subjectInput textinput.Model
	fromInput    textinput.Model
	isRead       string // "", "true", "false"
	isStarred    string
	focus        focusTarget

	// Display regions
	identity identityRegion
	health   healthRegion
	emails   emailsRegion

	// Request tracking to ignore stale async results. Rapid refreshes
	// launch independent fetches; only the newest run may write.
	userRequestID   uint64
	healthRequestID uint64
	emailsRequestID uint64

	bar progress.Model

	width  int
	height int

	quitting bool
}

// New creates a dashboard model over the given backend client.
func New(b Backend, opts Options) Model {
	subject := textinput.New()
	subject.Placeholder = "subject contains"
	subject.CharLimit = 200
	subject.Width = 28

	from := textinput.New()
	from.Placeholder = "from address contains"
	from.CharLimit = 200
	from.Width = 28

	previewRows := opts.PreviewRows
	if previewRows <= 0 {
		previewRows = render.DefaultPreviewRows
	}

	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	bar.Width = 30

	m := Model{
		backend:      b,
		version:      opts.Version,
		previewRows:  previewRows,
		subjectInput: subject,
		fromInput:    from,
		bar:          bar,
	}
	// The initial concurrent load starts from Init, which cannot mutate
	// the model, so the in-flight display state is preset here.
	m.identity = placeholderIdentity()
	m.identity.loading = true
	m.health.loading = true
	m.health.percent = healthStartPercent
	m.emails = placeholderEmails()
	m.emails.loading = true
	m.emails.percent = emailsStartPercent
	return m
}

func placeholderIdentity() identityRegion {
	return identityRegion{
		mode:        render.Dash,
		userName:    render.Dash,
		displayName: render.Dash,
		active:      render.Dash,
	}
}

func placeholderEmails() emailsRegion {
	return emailsRegion{
		count:       render.Dash,
		queryMS:     render.Dash,
		serializeMS: render.Dash,
		totalMS:     render.Dash,
	}
}

// Init implements tea.Model: all three loaders launch concurrently and
// run independently, each writing into its own region on completion.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadUser(), m.loadHealth(), m.loadEmails(m.currentQuery()))
}

// userLoadedMsg is sent when /api/me resolves.
type userLoadedMsg struct {
	res       *backend.MeResult
	err       error
	requestID uint64
}

// healthLoadedMsg is sent when /api/sql/ping resolves.
type healthLoadedMsg struct {
	res       *backend.PingResult
	err       error
	requestID uint64
}

// emailsLoadedMsg is sent when /api/emails resolves.
type emailsLoadedMsg struct {
	res       *backend.EmailsResult
	err       error
	requestID uint64
}

// healthResetMsg and emailsResetMsg snap a finished progress bar back
// to zero after the reset delay. Resets from superseded runs are
// discarded by requestID.
type healthResetMsg struct{ requestID uint64 }
type emailsResetMsg struct{ requestID uint64 }

// loadUser fetches /api/me. The closure snapshots the request ID so a
// stale completion can be recognized and dropped.
func (m Model) loadUser() tea.Cmd {
	requestID := m.userRequestID
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = userLoadedMsg{err: fmt.Errorf("user load panic: %v", r), requestID: requestID}
			}
		}()
		res, err := m.backend.Me(context.Background())
		return userLoadedMsg{res: res, err: err, requestID: requestID}
	}
}

// loadHealth fires the warehouse connectivity probe.
func (m Model) loadHealth() tea.Cmd {
	requestID := m.healthRequestID
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = healthLoadedMsg{err: fmt.Errorf("health load panic: %v", r), requestID: requestID}
			}
		}()
		res, err := m.backend.Ping(context.Background())
		return healthLoadedMsg{res: res, err: err, requestID: requestID}
	}
}

// loadEmails fires the listing fetch for the given query.
func (m Model) loadEmails(q backend.Query) tea.Cmd {
	requestID := m.emailsRequestID
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = emailsLoadedMsg{err: fmt.Errorf("emails load panic: %v", r), requestID: requestID}
			}
		}()
		res, err := m.backend.Emails(context.Background(), q)
		return emailsLoadedMsg{res: res, err: err, requestID: requestID}
	}
}

// beginUserLoad marks the identity region in flight and returns the
// fetch command. Callers must keep the mutated model.
func (m *Model) beginUserLoad() tea.Cmd {
	m.userRequestID++
	m.identity.loading = true
	m.identity.err = nil
	return m.loadUser()
}

// beginHealthLoad animates the bar to its checkpoint and fires the
// connectivity probe.
func (m *Model) beginHealthLoad() tea.Cmd {
	m.healthRequestID++
	m.health.loading = true
	m.health.err = nil
	m.health.percent = render.ClampPercent(healthStartPercent)
	return m.loadHealth()
}

// beginEmailsLoad builds the query from the filter controls and fires
// the listing fetch. Blank controls are omitted from the query.
func (m *Model) beginEmailsLoad() tea.Cmd {
	m.emailsRequestID++
	m.emails.loading = true
	m.emails.err = nil
	m.emails.percent = render.ClampPercent(emailsStartPercent)
	return m.loadEmails(m.currentQuery())
}

// currentQuery snapshots the filter controls. The selector values pass
// through as their literal strings.
func (m Model) currentQuery() backend.Query {
	return backend.Query{
		Subject:   m.subjectInput.Value(),
		From:      m.fromInput.Value(),
		IsRead:    m.isRead,
		IsStarred: m.isStarred,
		Limit:     backend.DefaultLimit,
	}
}

// clearFilters resets the filter controls and the email display regions
// without issuing any network request. The request ID still advances so
// an in-flight fetch from before the clear cannot repopulate the table.
func (m *Model) clearFilters() {
	m.subjectInput.SetValue("")
	m.fromInput.SetValue("")
	m.isRead = ""
	m.isStarred = ""
	m.emailsRequestID++
	m.emails = placeholderEmails()
}

func healthReset(requestID uint64) tea.Cmd {
	return tea.Tick(progressResetDelay, func(time.Time) tea.Msg {
		return healthResetMsg{requestID: requestID}
	})
}

func emailsReset(requestID uint64) tea.Cmd {
	return tea.Tick(progressResetDelay, func(time.Time) tea.Msg {
		return emailsResetMsg{requestID: requestID}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 0 {
			m.width = 0
		}
		barWidth := m.width - 24
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.bar.Width = barWidth
		return m, nil

	case userLoadedMsg:
		if msg.requestID != m.userRequestID {
			return m, nil
		}
		m.identity.loading = false
		if msg.err != nil {
			m.identity.err = msg.err
			return m, nil
		}
		m.identity = identityFromResult(msg.res)
		return m, nil

	case healthLoadedMsg:
		if msg.requestID != m.healthRequestID {
			return m, nil
		}
		m.health.loading = false
		if msg.err != nil {
			m.health.err = msg.err
			m.health.percent = 0
			return m, nil
		}
		m.health = healthFromResult(msg.res)
		m.health.percent = render.ClampPercent(100)
		return m, healthReset(msg.requestID)

	case emailsLoadedMsg:
		if msg.requestID != m.emailsRequestID {
			return m, nil
		}
		m.emails.loading = false
		if msg.err != nil {
			m.emails.err = msg.err
			m.emails.percent = 0
			return m, nil
		}
		m.emails = emailsFromResult(msg.res, m.previewRows)
		m.emails.percent = render.ClampPercent(100)
		return m, emailsReset(msg.requestID)

	case healthResetMsg:
		if msg.requestID == m.healthRequestID && !m.health.loading {
			m.health.percent = 0
		}
		return m, nil

	case emailsResetMsg:
		if msg.requestID == m.emailsRequestID && !m.emails.loading {
			m.emails.percent = 0
		}
		return m, nil
	}

	return m, nil
}

// identityFromResult shapes a /api/me response into display values.
func identityFromResult(res *backend.MeResult) identityRegion {
	r := placeholderIdentity()
	if res.Mode != "" {
		r.mode = res.Mode
	}
	id := render.Identity(res.CurrentUser)
	r.userName = id.UserName
	r.displayName = id.DisplayName
	r.active = id.Active
	r.raw = res.RawJSON()
	return r
}

// healthFromResult shapes a /api/sql/ping response into display values.
func healthFromResult(res *backend.PingResult) healthRegion {
	r := healthRegion{
		checked: true,
		ok:      render.Truthy(res.OK),
		raw:     res.RawJSON(),
	}
	if res.Timing != nil && res.Timing.QueryMS != nil {
		r.latency = render.Millis(res.Timing.QueryMS)
	}
	if res.Error != "" {
		r.detail = res.Error
	}
	return r
}

// emailsFromResult shapes a /api/emails response into display values.
func emailsFromResult(res *backend.EmailsResult, previewRows int) emailsRegion {
	r := emailsRegion{
		loaded: true,
		grid:   render.PreviewGrid(res.Rows, previewRows),
		count:  render.FormatNumber(len(res.Rows)),
		raw:    res.RawJSON(),
	}
	r.queryMS = render.Dash
	r.serializeMS = render.Dash
	r.totalMS = render.Dash
	if res.Timing != nil {
		r.queryMS = render.Millis(res.Timing.QueryMS)
		r.serializeMS = render.Millis(res.Timing.SerializeMS)
		r.totalMS = render.Millis(res.Timing.TotalMS)
	}
	return r
}
