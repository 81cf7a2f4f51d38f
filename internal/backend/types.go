package backend

import (
	"bytes"
	"encoding/json"
)

// Fallback stands in for a response body that was not valid JSON. The
// status code and the raw text are kept so they can be displayed.
type Fallback struct {
	Status int    `json:"status"`
	Text   string `json:"text"`
}

// payload captures the exact HTTP response backing a decoded result.
// Results embed it so the raw display regions can show what actually
// came over the wire.
type payload struct {
	status   int
	body     []byte
	fallback *Fallback
}

func newPayload(status int, body []byte) payload {
	p := payload{status: status, body: body}
	if !json.Valid(body) {
		p.fallback = &Fallback{Status: status, Text: string(body)}
	}
	return p
}

// StatusCode returns the HTTP status of the response.
func (p payload) StatusCode() int {
	return p.status
}

// Fallback returns the non-JSON stand-in value, or nil when the body
// decoded as JSON.
func (p payload) Fallback() *Fallback {
	return p.fallback
}

// RawJSON pretty-prints the response body. A body that was not valid
// JSON prints as the fallback object itself.
func (p payload) RawJSON() string {
	if p.fallback != nil {
		b, _ := json.MarshalIndent(p.fallback, "", "  ")
		return string(b)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.body, "", "  "); err != nil {
		return string(p.body)
	}
	return buf.String()
}

// User is the SCIM-shaped identity the backend reports for the caller.
// Every field is optional; renderers fall back to placeholders.
type User struct {
	UserName    string     `json:"userName"`
	DisplayName string     `json:"displayName"`
	Emails      []EmailRef `json:"emails"`
	Name        *UserName  `json:"name"`
	Active      *bool      `json:"active"`
}

// EmailRef is one entry of a SCIM emails list.
type EmailRef struct {
	Value string `json:"value"`
}

// UserName holds the structured name parts of a SCIM user.
type UserName struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// Timing reports server-side durations in milliseconds. Fields are
// pointers because the backend omits the ones it did not measure.
type Timing struct {
	QueryMS     *float64 `json:"query_ms"`
	SerializeMS *float64 `json:"serialize_ms"`
	TotalMS     *float64 `json:"total_ms"`
}

// MeResult is the decoded /api/me response.
type MeResult struct {
	payload
	Mode        string `json:"mode"`
	CurrentUser *User  `json:"current_user"`
}

// PingContext carries the connector configuration the backend reports
// alongside a failed connectivity check.
type PingContext struct {
	ServerHostname string `json:"server_hostname"`
	HTTPPath       string `json:"http_path"`
	HasToken       *bool  `json:"has_token"`
}

// PingResult is the decoded /api/sql/ping response. OK keeps whatever
// JSON value the backend sent; health is judged by its truthiness, not
// by a strict boolean.
type PingResult struct {
	payload
	Mode    string       `json:"mode"`
	OK      any          `json:"ok"`
	Timing  *Timing      `json:"timing"`
	Error   string       `json:"error"`
	Context *PingContext `json:"context"`
}

// SQLEcho is the query the backend reports having run.
type SQLEcho struct {
	Text   string `json:"text"`
	Params []any  `json:"params"`
}

// EmailsResult is the decoded /api/emails response.
type EmailsResult struct {
	payload
	Mode   string   `json:"mode"`
	Rows   []Row    `json:"rows"`
	Count  *int     `json:"count"`
	Limit  *int     `json:"limit"`
	Offset *int     `json:"offset"`
	Timing *Timing  `json:"timing"`
	SQL    *SQLEcho `json:"sql"`
}

// ForwardedHeaders mirrors the proxy identity headers the backend sees.
type ForwardedHeaders struct {
	User       string `json:"user"`
	Email      string `json:"email"`
	ScopesHint string `json:"scopes_hint"`
}

// EnvResult is the decoded /api/debug/env response.
type EnvResult struct {
	payload
	Host            string            `json:"host"`
	HTTPPath        string            `json:"http_path"`
	OBOTokenPresent bool              `json:"obo_token_present"`
	OBOTokenLen     int               `json:"obo_token_len"`
	Forwarded       *ForwardedHeaders `json:"x_forwarded_headers"`
}
