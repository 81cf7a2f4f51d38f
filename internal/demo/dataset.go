package demo

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Message is one synced email row, carrying the full column set the
// warehouse table exposes. Field order matches the serialized column
// order the dashboard's preview shows.
type Message struct {
	EmailID          string       `json:"email_id"`
	ThreadID         string       `json:"thread_id"`
	Subject          string       `json:"subject"`
	FromName         string       `json:"from_name"`
	FromEmail        string       `json:"from_email"`
	ToRecipients     []string     `json:"to_recipients"`
	CcRecipients     []string     `json:"cc_recipients"`
	SentAt           time.Time    `json:"sent_at"`
	ReceivedAt       time.Time    `json:"received_at"`
	ReceivedDate     string       `json:"received_date"`
	Snippet          string       `json:"snippet"`
	Labels           []string     `json:"labels"`
	IsRead           bool         `json:"is_read"`
	IsStarred        bool         `json:"is_starred"`
	HasAttachments   bool         `json:"has_attachments"`
	Attachments      []Attachment `json:"attachments"`
	MessageSizeBytes int64        `json:"message_size_bytes"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Attachment is one attachment struct within a message row.
type Attachment struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// Filter mirrors the listing endpoint's query parameters.
type Filter struct {
	Subject   string
	FromEmail string
	IsRead    *bool
	IsStarred *bool
}

// Matches reports whether a message satisfies the filter. Substring
// filters compare case-insensitively, like the warehouse's ILIKE.
func (f Filter) Matches(m Message) bool {
	if f.Subject != "" && !strings.Contains(strings.ToLower(m.Subject), strings.ToLower(f.Subject)) {
		return false
	}
	if f.FromEmail != "" && !strings.Contains(strings.ToLower(m.FromEmail), strings.ToLower(f.FromEmail)) {
		return false
	}
	if f.IsRead != nil && m.IsRead != *f.IsRead {
		return false
	}
	if f.IsStarred != nil && m.IsStarred != *f.IsStarred {
		return false
	}
	return true
}

// WhereClause renders the SQL the real backend would run for this
// filter, for the response's sql echo. Params line up with the
// placeholders in order.
func (f Filter) WhereClause() (string, []any) {
	var clauses []string
	var params []any
	if f.Subject != "" {
		clauses = append(clauses, "subject ILIKE ?")
		params = append(params, "%"+f.Subject+"%")
	}
	if f.FromEmail != "" {
		clauses = append(clauses, "from_email ILIKE ?")
		params = append(params, "%"+f.FromEmail+"%")
	}
	if f.IsRead != nil {
		clauses = append(clauses, "is_read = ?")
		params = append(params, *f.IsRead)
	}
	if f.IsStarred != nil {
		clauses = append(clauses, "is_starred = ?")
		params = append(params, *f.IsStarred)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), params
}

var sampleSenders = []struct {
	name, email string
}{
	{"Avery Chen", "avery.chen@example.com"},
	{"Billing", "billing@vendorpay.example.com"},
	{"Dana Whitfield", "dana@whitfield-consulting.example.org"},
	{"GitHub", "notifications@github.example.com"},
	{"Marta Kowalski", "marta.kowalski@example.net"},
	{"Ops Alerts", "alerts@ops.example.io"},
}

var sampleSubjects = []string{
	"Invoice #%d for March services",
	"Re: quarterly planning draft %d",
	"[alert] disk usage above threshold on node-%d",
	"Your order %d has shipped",
	"Meeting notes, sprint %d review",
	"Welcome aboard! (onboarding checklist %d)",
}

var sampleSnippets = []string{
	"Hi, attached is the invoice we discussed. Payment is due within 30 days of",
	"Thanks for the feedback on the draft. I folded in the changes from the",
	"Automated alert: /var/data usage crossed 85% and is still climbing. The",
	"Good news! Your package left our warehouse this morning and should arrive",
	"Quick summary of what we covered: velocity is tracking well, the auth",
	"We're excited to have you on the team. Here's what to expect during your",
}

// Dataset builds the deterministic sample inbox: n messages, newest
// first by received_at.
func Dataset(n int) []Message {
	base := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	msgs := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		sender := sampleSenders[i%len(sampleSenders)]
		received := base.Add(-time.Duration(i*7) * time.Hour)
		sent := received.Add(-90 * time.Second)

		m := Message{
			EmailID:          fmt.Sprintf("msg-%04d", i+1),
			ThreadID:         fmt.Sprintf("thr-%04d", i/3+1),
			Subject:          fmt.Sprintf(sampleSubjects[i%len(sampleSubjects)], i+1),
			FromName:         sender.name,
			FromEmail:        sender.email,
			ToRecipients:     []string{"jane.doe@example.com"},
			CcRecipients:     []string{},
			SentAt:           sent,
			ReceivedAt:       received,
			ReceivedDate:     received.Format("2006-01-02"),
			Snippet:          sampleSnippets[i%len(sampleSnippets)],
			Labels:           []string{"INBOX"},
			IsRead:           i%3 != 0,
			IsStarred:        i%5 == 0,
			MessageSizeBytes: int64(2048 + i*517),
			CreatedAt:        received.Add(4 * time.Minute),
		}
		if i%2 == 1 {
			m.CcRecipients = []string{"team@example.com"}
		}
		if i%4 == 0 {
			m.HasAttachments = true
			m.Attachments = []Attachment{{
				Filename:  fmt.Sprintf("document-%d.pdf", i+1),
				MimeType:  "application/pdf",
				SizeBytes: int64(10240 + i*331),
			}}
			m.Labels = append(m.Labels, "IMPORTANT")
		} else {
			m.Attachments = []Attachment{}
		}
		msgs = append(msgs, m)
	}

	sort.SliceStable(msgs, func(a, b int) bool {
		return msgs[a].ReceivedAt.After(msgs[b].ReceivedAt)
	})
	return msgs
}
