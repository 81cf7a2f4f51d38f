package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// triStates is the cycle order for the boolean selectors: unset, true,
// false. The selector's literal string value goes into the query as-is.
var triStates = []string{"", "true", "false"}

func nextTriState(cur string) string {
	for i, s := range triStates {
		if s == cur {
			return triStates[(i+1)%len(triStates)]
		}
	}
	return ""
}

// handleKeyPress routes keyboard input. While a text input is focused,
// printable keys belong to it; navigation and action keys stay global.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		return m.cycleFocus(1), nil

	case "shift+tab":
		return m.cycleFocus(-1), nil

	case "enter":
		// Submit re-runs the email loader with the current filters.
		// Other regions are untouched.
		return m, m.beginEmailsLoad()

	case "esc":
		if m.focus != focusNone {
			return m.setFocus(focusNone), nil
		}
		m.quitting = true
		return m, tea.Quit

	case "ctrl+x":
		m.clearFilters()
		return m, nil
	}

	// Selector controls cycle on space (and on plain typing keys that
	// would otherwise go nowhere).
	if m.focus == focusIsRead || m.focus == focusIsStarred {
		switch msg.String() {
		case " ", "space":
			if m.focus == focusIsRead {
				m.isRead = nextTriState(m.isRead)
			} else {
				m.isStarred = nextTriState(m.isStarred)
			}
			return m, nil
		}
	}

	// Focused text inputs consume everything else.
	switch m.focus {
	case focusSubject:
		var cmd tea.Cmd
		m.subjectInput, cmd = m.subjectInput.Update(msg)
		return m, cmd
	case focusFrom:
		var cmd tea.Cmd
		m.fromInput, cmd = m.fromInput.Update(msg)
		return m, cmd
	}

	// Global action keys, only when no text input is focused.
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "r":
		// Global refresh relaunches all three loaders.
		return m, tea.Batch(m.beginUserLoad(), m.beginHealthLoad(), m.beginEmailsLoad())

	case "p":
		// Manual health check refresh.
		return m, m.beginHealthLoad()

	case "u":
		return m, m.beginUserLoad()

	case "/":
		return m.setFocus(focusSubject), nil
	}

	return m, nil
}

// cycleFocus moves focus through the filter controls, wrapping through
// the unfocused state.
func (m Model) cycleFocus(dir int) Model {
	order := []focusTarget{focusNone, focusSubject, focusFrom, focusIsRead, focusIsStarred}
	cur := 0
	for i, f := range order {
		if f == m.focus {
			cur = i
			break
		}
	}
	next := order[(cur+dir+len(order))%len(order)]
	return m.setFocus(next)
}

func (m Model) setFocus(f focusTarget) Model {
	m.focus = f
	m.subjectInput.Blur()
	m.fromInput.Blur()
	switch f {
	case focusSubject:
		m.subjectInput.Focus()
	case focusFrom:
		m.fromInput.Focus()
	}
	return m
}
