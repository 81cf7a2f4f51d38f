package render

import (
	"encoding/json"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// SetLocale switches the locale used for digit grouping. Unparseable
// tags leave the current locale in place. Call it once at startup,
// before any rendering.
func SetLocale(tag string) {
	t, err := language.Parse(tag)
	if err != nil {
		return
	}
	printer = message.NewPrinter(t)
}

// FormatNumber renders numeric values with locale-aware digit grouping.
// Non-numeric values pass through unchanged as text.
func FormatNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return printer.Sprint(number.Decimal(n))
	case int:
		return printer.Sprint(number.Decimal(n))
	case int64:
		return printer.Sprint(number.Decimal(n))
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return printer.Sprint(number.Decimal(f))
		}
		return n.String()
	default:
		return asString(v)
	}
}
