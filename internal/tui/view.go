package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakedash/lakedash/internal/render"
)

var (
	bgBase = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}

	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Background(bgBase)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(bgBase)

	separatorStyle = lipgloss.NewStyle().
			Faint(true).
			Background(bgBase)

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}).
		Background(bgBase)

	notOKStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}).
			Background(bgBase)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}).
			Background(bgBase)

	loadingStyle = lipgloss.NewStyle().
			Italic(true).
			Background(bgBase)

	focusedControlStyle = lipgloss.NewStyle().
				Bold(true).
				Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"})

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Background(bgBase).
			Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "lakedash"
	if m.version != "" {
		title += " " + m.version
	}
	b.WriteString(titleBarStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.identityView())
	b.WriteString("\n")
	b.WriteString(m.healthView())
	b.WriteString("\n")
	b.WriteString(m.filterView())
	b.WriteString("\n")
	b.WriteString(m.emailsView())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("tab focus · enter query · space cycle · ctrl+x clear · r refresh all · p ping · q quit"))

	return b.String()
}

func (m Model) identityView() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Current user"))
	b.WriteString("\n")

	switch {
	case m.identity.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.identity.err.Error()))
		b.WriteString("\n")
	case m.identity.loading:
		b.WriteString(loadingStyle.Render("loading..."))
		b.WriteString("\n")
	default:
		fmt.Fprintf(&b, "%s %s   %s %s\n",
			labelStyle.Render("mode:"), m.identity.mode,
			labelStyle.Render("active:"), m.identity.active)
		fmt.Fprintf(&b, "%s %s   %s %s\n",
			labelStyle.Render("user:"), m.identity.userName,
			labelStyle.Render("name:"), m.identity.displayName)
	}
	return b.String()
}

func (m Model) healthView() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Warehouse health"))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(render.ClampPercent(m.health.percent) / 100))
	b.WriteString("\n")

	switch {
	case m.health.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.health.err.Error()))
		b.WriteString("\n")
	case m.health.loading:
		b.WriteString(loadingStyle.Render("checking..."))
		b.WriteString("\n")
	case !m.health.checked:
		b.WriteString(labelStyle.Render(render.Dash))
		b.WriteString("\n")
	default:
		if m.health.ok {
			b.WriteString(okStyle.Render("OK"))
		} else {
			b.WriteString(notOKStyle.Render("Not OK"))
		}
		if m.health.latency != "" {
			b.WriteString(labelStyle.Render("  query " + m.health.latency))
		}
		b.WriteString("\n")
		if m.health.detail != "" {
			b.WriteString(errorStyle.Render(truncateCell(m.health.detail, 100)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) filterView() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Filters"))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("subject:"), m.subjectInput.View())
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("from:   "), m.fromInput.View())

	readLabel := selectorLabel(m.isRead)
	starLabel := selectorLabel(m.isStarred)
	if m.focus == focusIsRead {
		readLabel = focusedControlStyle.Render(readLabel)
	}
	if m.focus == focusIsStarred {
		starLabel = focusedControlStyle.Render(starLabel)
	}
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		labelStyle.Render("read:"), readLabel,
		labelStyle.Render("starred:"), starLabel)

	return b.String()
}

// selectorLabel renders a tri-state selector value.
func selectorLabel(v string) string {
	if v == "" {
		return "[ any ]"
	}
	return "[ " + v + " ]"
}

func (m Model) emailsView() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Email preview"))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(render.ClampPercent(m.emails.percent) / 100))
	b.WriteString("\n")

	switch {
	case m.emails.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.emails.err.Error()))
		b.WriteString("\n")
		return b.String()
	case m.emails.loading:
		b.WriteString(loadingStyle.Render("loading..."))
		b.WriteString("\n")
		return b.String()
	case !m.emails.loaded:
		b.WriteString(labelStyle.Render(render.Dash))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s   %s query %s · serialize %s · total %s\n",
		labelStyle.Render("rows:"), m.emails.count,
		labelStyle.Render("timing:"), m.emails.queryMS, m.emails.serializeMS, m.emails.totalMS)

	if m.emails.grid.Empty() {
		b.WriteString(labelStyle.Render("No rows to display."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(gridView(m.emails.grid))
	return b.String()
}

// gridView lays the preview grid out as fixed-width columns.
func gridView(g render.Grid) string {
	widths := columnWidths(g.Columns, g.Cells)

	var b strings.Builder
	headers := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		headers[i] = padRight(truncateCell(c, widths[i]), widths[i])
	}
	b.WriteString(tableHeaderStyle.Render(strings.Join(headers, "  ")))
	b.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	if total > 2 {
		total -= 2
	}
	b.WriteString(separatorStyle.Render(strings.Repeat("─", total)))
	b.WriteString("\n")

	for _, row := range g.Cells {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = padRight(truncateCell(cell, widths[i]), widths[i])
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}
	return b.String()
}
