package backend

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultLimit is the page size the dashboard requests.
const DefaultLimit = 100

// Query selects messages for the listing endpoint. Blank filter values
// mean "no filter". Limit always encodes so the backend default never
// applies implicitly.
type Query struct {
	Subject   string
	From      string
	IsRead    string // "", "true", or "false"
	IsStarred string
	Limit     int
	Offset    int
}

// Encode renders the query string. Parameter order is fixed and
// observable (subject, from_email, is_read, is_starred, limit, offset),
// so this cannot go through url.Values, which sorts keys.
func (q Query) Encode() string {
	var b strings.Builder
	add := func(key, val string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(val))
	}

	if s := strings.TrimSpace(q.Subject); s != "" {
		add("subject", s)
	}
	if f := strings.TrimSpace(q.From); f != "" {
		add("from_email", f)
	}
	if q.IsRead != "" {
		add("is_read", q.IsRead)
	}
	if q.IsStarred != "" {
		add("is_starred", q.IsStarred)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	add("limit", strconv.Itoa(limit))

	if q.Offset > 0 {
		add("offset", strconv.Itoa(q.Offset))
	}

	return b.String()
}
