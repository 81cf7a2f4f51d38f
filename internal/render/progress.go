package render

import (
	"fmt"
	"strconv"
)

// ClampPercent clamps a target percentage into [0, 100].
func ClampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// BarHTML renders a progress bar fragment whose fill width tracks the
// clamped percentage.
func BarHTML(pct float64) string {
	p := strconv.FormatFloat(ClampPercent(pct), 'f', -1, 64)
	return fmt.Sprintf(`<div class="bar"><div class="bar-fill" style="width:%s%%"></div></div>`, p)
}

// Millis renders a millisecond timing value, or the placeholder when
// the backend omitted it.
func Millis(ms *float64) string {
	if ms == nil {
		return Dash
	}
	return FormatNumber(*ms) + " ms"
}
