package demo

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// scimName mirrors the structured name of a SCIM user.
type scimName struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// scimEmail mirrors one entry of a SCIM emails list.
type scimEmail struct {
	Value string `json:"value"`
}

// scimUser mirrors the identity payload the real backend forwards.
type scimUser struct {
	UserName    string      `json:"userName"`
	DisplayName string      `json:"displayName"`
	Emails      []scimEmail `json:"emails"`
	Name        scimName    `json:"name"`
	Active      bool        `json:"active"`
}

// meResponse is the /api/me payload.
type meResponse struct {
	Mode        string   `json:"mode"`
	CurrentUser scimUser `json:"current_user"`
}

// timing reports server-side durations in milliseconds.
type timing struct {
	QueryMS     float64  `json:"query_ms"`
	SerializeMS *float64 `json:"serialize_ms,omitempty"`
	TotalMS     *float64 `json:"total_ms,omitempty"`
}

// pingResponse is the healthy /api/sql/ping payload.
type pingResponse struct {
	Mode   string `json:"mode"`
	OK     bool   `json:"ok"`
	Timing timing `json:"timing"`
}

// pingErrorResponse is the degraded /api/sql/ping payload, mirroring
// the real backend's 500 shape.
type pingErrorResponse struct {
	Mode    string      `json:"mode"`
	Error   string      `json:"error"`
	Context pingContext `json:"context"`
}

type pingContext struct {
	ServerHostname string `json:"server_hostname"`
	HTTPPath       string `json:"http_path"`
	HasToken       bool   `json:"has_token"`
}

// sqlEcho reports the query the backend would have run.
type sqlEcho struct {
	Text   string `json:"text"`
	Params []any  `json:"params"`
}

// emailsResponse is the /api/emails payload.
type emailsResponse struct {
	Mode   string    `json:"mode"`
	Rows   []Message `json:"rows"`
	Count  int       `json:"count"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Timing timing    `json:"timing"`
	SQL    sqlEcho   `json:"sql"`
}

// envResponse is the /api/debug/env payload.
type envResponse struct {
	Host            string           `json:"host"`
	HTTPPath        string           `json:"http_path"`
	OBOTokenPresent bool             `json:"obo_token_present"`
	OBOTokenLen     int              `json:"obo_token_len"`
	Forwarded       forwardedHeaders `json:"x_forwarded_headers"`
}

type forwardedHeaders struct {
	User       string `json:"user"`
	Email      string `json:"email"`
	ScopesHint string `json:"scopes_hint"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, meResponse{
		Mode: "local",
		CurrentUser: scimUser{
			UserName:    "jane.doe@example.com",
			DisplayName: "Jane Doe",
			Emails:      []scimEmail{{Value: "jane.doe@example.com"}},
			Name:        scimName{GivenName: "Jane", FamilyName: "Doe"},
			Active:      true,
		},
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if s.opts.Degraded {
		writeJSON(w, http.StatusInternalServerError, pingErrorResponse{
			Mode:  "local",
			Error: "cannot open warehouse connection: connection refused",
			Context: pingContext{
				ServerHostname: "warehouse.demo.invalid",
				HTTPPath:       "/sql/1.0/warehouses/demo",
				HasToken:       false,
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, pingResponse{
		Mode:   "local",
		OK:     true,
		Timing: timing{QueryMS: 8.2},
	})
}

func (s *Server) handleEmails(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	filter := Filter{
		Subject:   q.Get("subject"),
		FromEmail: q.Get("from_email"),
	}
	if v := q.Get("is_read"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsRead = &b
		}
	}
	if v := q.Get("is_starred"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsStarred = &b
		}
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	matched := make([]Message, 0, limit)
	skipped := 0
	for _, m := range s.messages {
		if !filter.Matches(m) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(matched) >= limit {
			break
		}
		matched = append(matched, m)
	}
	queryMS := float64(time.Since(started).Microseconds()) / 1000

	where, params := filter.WhereClause()
	text := "SELECT * FROM synced_emails"
	if where != "" {
		text += " " + where
	}
	text += " ORDER BY received_at DESC LIMIT ? OFFSET ?"
	params = append(params, limit, offset)

	serializeStart := time.Now()
	resp := emailsResponse{
		Mode:   "local",
		Rows:   matched,
		Count:  len(matched),
		Limit:  limit,
		Offset: offset,
		SQL:    sqlEcho{Text: text, Params: params},
	}
	serializeMS := float64(time.Since(serializeStart).Microseconds()) / 1000
	totalMS := float64(time.Since(started).Microseconds()) / 1000
	resp.Timing = timing{QueryMS: queryMS, SerializeMS: &serializeMS, TotalMS: &totalMS}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDebugEnv(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, envResponse{
		Host:            host,
		HTTPPath:        "/sql/1.0/warehouses/demo",
		OBOTokenPresent: false,
		OBOTokenLen:     0,
		Forwarded: forwardedHeaders{
			User:       "jane.doe@example.com",
			Email:      "jane.doe@example.com",
			ScopesHint: "sql",
		},
	})
}
