package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/lakedash/lakedash/internal/render"
)

// cliProgress draws a one-line progress bar on stderr, rewritten in
// place. On a non-terminal stderr it stays silent so piped output is
// clean.
type cliProgress struct {
	tty   bool
	width int
	label string
}

func newCLIProgress(label string) *cliProgress {
	return &cliProgress{
		tty:   isatty.IsTerminal(os.Stderr.Fd()),
		width: 30,
		label: label,
	}
}

// Set redraws the bar at the given percentage, clamped to [0, 100].
func (p *cliProgress) Set(pct float64) {
	if !p.tty {
		return
	}
	pct = render.ClampPercent(pct)
	filled := int(pct / 100 * float64(p.width))
	bar := make([]byte, p.width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '-'
		}
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%s [%s] %.0f%%", p.label, bar, pct)
}

// Done clears the bar line.
func (p *cliProgress) Done() {
	if !p.tty {
		return
	}
	fmt.Fprint(os.Stderr, "\r\033[K")
}
