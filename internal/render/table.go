package render

import (
	"strings"

	"github.com/lakedash/lakedash/internal/backend"
)

// DefaultPreviewRows caps how many records the preview renders.
const DefaultPreviewRows = 10

// Grid is a sampled tabular view of listing rows: ordered columns and
// stringified cells, with placeholders where a record has no value.
type Grid struct {
	Columns []string
	Cells   [][]string
}

// Empty reports whether the grid has no columns at all.
func (g Grid) Empty() bool {
	return len(g.Columns) == 0
}

// PreviewGrid samples the first maxRows records (DefaultPreviewRows when
// maxRows is not positive) and computes the column set as the union of
// keys across the sampled records only, in first-seen order. Records
// beyond the sample contribute neither rows nor columns.
func PreviewGrid(rows []backend.Row, maxRows int) Grid {
	if maxRows <= 0 {
		maxRows = DefaultPreviewRows
	}
	sample := rows
	if len(sample) > maxRows {
		sample = sample[:maxRows]
	}

	var g Grid
	seen := make(map[string]bool)
	for _, r := range sample {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				g.Columns = append(g.Columns, c)
			}
		}
	}

	for _, r := range sample {
		cells := make([]string, len(g.Columns))
		for i, c := range g.Columns {
			v, ok := r.Value(c)
			if !ok || v == nil {
				cells[i] = Dash
				continue
			}
			cells[i] = asString(v)
		}
		g.Cells = append(g.Cells, cells)
	}

	return g
}

// PreviewTable renders the sampled records as an HTML table fragment.
// Every header and cell passes through EscapeHTML. Empty input renders
// a muted placeholder instead of a table.
func PreviewTable(rows []backend.Row, maxRows int) string {
	if len(rows) == 0 {
		return `<div class="muted">No rows to display.</div>`
	}

	g := PreviewGrid(rows, maxRows)

	var b strings.Builder
	b.WriteString("<table>\n<thead><tr>")
	for _, c := range g.Columns {
		b.WriteString("<th>")
		b.WriteString(EscapeHTML(c))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, cells := range g.Cells {
		b.WriteString("<tr>")
		for _, cell := range cells {
			b.WriteString("<td>")
			b.WriteString(EscapeHTML(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}
