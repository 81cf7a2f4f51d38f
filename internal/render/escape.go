package render

import "strings"

// htmlEscaper rewrites the five HTML-special characters. The ampersand
// entry must come first conceptually: replacement is a single pass, so
// entities introduced by one rule are never rescanned by another.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML stringifies a value and escapes it for interpolation into
// markup. The single quote becomes &#039; so escaped values are safe
// inside single-quoted attributes as well.
func EscapeHTML(v any) string {
	return htmlEscaper.Replace(asString(v))
}
