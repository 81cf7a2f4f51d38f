package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/lakedash/lakedash/internal/backend"
)

func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mode":"local","current_user":{"name":{"givenName":"Jane","familyName":"Doe"},"emails":[{"value":"jane@example.com"}],"active":true}}`))
	})
	mux.HandleFunc("/api/sql/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mode":"local","ok":true,"timing":{"query_ms":12.5}}`))
	})
	mux.HandleFunc("/api/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mode":"local","rows":[` +
			`{"subject":"<script>alert(1)</script>","from_email":"eve@example.com"},` +
			`{"subject":"Hello","is_read":true}],` +
			`"timing":{"query_ms":3,"serialize_ms":1,"total_ms":4}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, url string) *backend.Client {
	t.Helper()
	c, err := backend.New(backend.Config{URL: url, AllowInsecure: true})
	if err != nil {
		t.Fatalf("backend.New() = %v", err)
	}
	return c
}

// findAll walks the parsed document collecting nodes with the given tag.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestGatherAndRender(t *testing.T) {
	srv := newTestBackend(t)
	client := newTestClient(t, srv.URL)

	d := Gather(context.Background(), client, backend.Query{}, 10)

	if d.Identity.Err != "" || d.Health.Err != "" || d.Emails.Err != "" {
		t.Fatalf("unexpected region errors: %q %q %q", d.Identity.Err, d.Health.Err, d.Emails.Err)
	}
	if d.Identity.DisplayName != "Jane Doe" {
		t.Errorf("DisplayName = %q, want %q", d.Identity.DisplayName, "Jane Doe")
	}
	if d.Identity.UserName != "jane@example.com" {
		t.Errorf("UserName = %q, want %q", d.Identity.UserName, "jane@example.com")
	}
	if !d.Health.OK {
		t.Error("Health.OK = false, want true")
	}
	if d.Emails.Count != "2" {
		t.Errorf("Emails.Count = %q, want %q", d.Emails.Count, "2")
	}

	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}

	doc, err := html.Parse(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("generated page does not parse: %v", err)
	}

	tables := findAll(doc, "table")
	if len(tables) != 1 {
		t.Fatalf("rendered %d tables, want 1", len(tables))
	}

	headers := findAll(tables[0], "th")
	var cols []string
	for _, h := range headers {
		cols = append(cols, textContent(h))
	}
	want := []string{"subject", "from_email", "is_read"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, cols[i], want[i])
		}
	}

	if len(findAll(tables[0], "tr")) != 3 { // header + 2 data rows
		t.Errorf("row count = %d, want 3", len(findAll(tables[0], "tr")))
	}

	// The script payload must survive only as escaped text.
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Error("unescaped script tag reached the page")
	}
	if len(findAll(doc, "script")) != 0 {
		t.Error("row data produced a live script element")
	}
}

func TestGatherBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	d := Gather(context.Background(), client, backend.Query{}, 10)

	if d.Identity.Err == "" {
		t.Error("Identity.Err empty after connection failure")
	}
	if d.Health.Err == "" {
		t.Error("Health.Err empty after connection failure")
	}
	if d.Emails.Err == "" {
		t.Error("Emails.Err empty after connection failure")
	}

	// Errors stay inline; the page still renders.
	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render() with region errors = %v", err)
	}
	doc, err := html.Parse(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("generated page does not parse: %v", err)
	}
	var errDivs int
	for _, div := range findAll(doc, "div") {
		for _, a := range div.Attr {
			if a.Key == "class" && a.Val == "error" {
				errDivs++
			}
		}
	}
	if errDivs != 3 {
		t.Errorf("error blocks = %d, want 3", errDivs)
	}
}

func TestEmailsRegionTimingPlaceholders(t *testing.T) {
	r := emailsRegion(&backend.EmailsResult{}, nil, 10)
	if r.QueryMS != "—" || r.SerializeMS != "—" || r.TotalMS != "—" {
		t.Errorf("timing fields = %q %q %q, want placeholders", r.QueryMS, r.SerializeMS, r.TotalMS)
	}
	if !strings.Contains(string(r.Table), "No rows to display") {
		t.Errorf("empty listing table = %q, want placeholder message", r.Table)
	}
}

func TestWriteFile(t *testing.T) {
	srv := newTestBackend(t)
	client := newTestClient(t, srv.URL)
	d := Gather(context.Background(), client, backend.Query{}, 10)

	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteFile(path, d); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(data), "lakedash report") {
		t.Error("snapshot missing page title")
	}

	// No staging leftovers.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1", len(entries))
	}
}
