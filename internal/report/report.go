// Package report renders the dashboard's three regions into a static
// HTML snapshot.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lakedash/lakedash/internal/backend"
	"github.com/lakedash/lakedash/internal/render"
)

var page = template.Must(template.New("report").Parse(pageTemplate))

// IdentityRegion is the current-user block of the page.
type IdentityRegion struct {
	Mode        string
	UserName    string
	DisplayName string
	Active      string
	Raw         string
	Err         string
}

// HealthRegion is the warehouse connectivity block.
type HealthRegion struct {
	OK      bool
	Latency string
	Detail  string
	Raw     string
	Bar     template.HTML
	Err     string
}

// EmailsRegion is the filtered listing block.
type EmailsRegion struct {
	Count       string
	QueryMS     string
	SerializeMS string
	TotalMS     string
	Table       template.HTML
	Raw         string
	Bar         template.HTML
	Err         string
}

// Data is everything the page template consumes.
type Data struct {
	GeneratedAt time.Time
	BackendURL  string
	Identity    IdentityRegion
	Health      HealthRegion
	Emails      EmailsRegion
}

// Gather fetches all three endpoints concurrently and shapes them into
// page data. A failed fetch becomes that region's inline error; it never
// fails the whole snapshot.
func Gather(ctx context.Context, client *backend.Client, q backend.Query, previewRows int) Data {
	d := Data{
		GeneratedAt: time.Now(),
		BackendURL:  client.BaseURL(),
	}

	var (
		me     *backend.MeResult
		ping   *backend.PingResult
		emails *backend.EmailsResult
		meErr, pingErr, emailsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		me, meErr = client.Me(gctx)
		return nil
	})
	g.Go(func() error {
		ping, pingErr = client.Ping(gctx)
		return nil
	})
	g.Go(func() error {
		emails, emailsErr = client.Emails(gctx, q)
		return nil
	})
	_ = g.Wait()

	d.Identity = identityRegion(me, meErr)
	d.Health = healthRegion(ping, pingErr)
	d.Emails = emailsRegion(emails, emailsErr, previewRows)
	return d
}

func identityRegion(res *backend.MeResult, err error) IdentityRegion {
	if err != nil {
		return IdentityRegion{Err: err.Error()}
	}

	r := IdentityRegion{Mode: render.Dash, Raw: res.RawJSON()}
	if res.Mode != "" {
		r.Mode = res.Mode
	}
	id := render.Identity(res.CurrentUser)
	r.UserName = id.UserName
	r.DisplayName = id.DisplayName
	r.Active = id.Active
	return r
}

func healthRegion(res *backend.PingResult, err error) HealthRegion {
	// A completed run leaves the bar reset to zero.
	r := HealthRegion{Bar: template.HTML(render.BarHTML(0))}
	if err != nil {
		r.Err = err.Error()
		return r
	}

	r.OK = render.Truthy(res.OK)
	r.Raw = res.RawJSON()
	if res.Timing != nil && res.Timing.QueryMS != nil {
		r.Latency = render.Millis(res.Timing.QueryMS)
	}
	if res.Error != "" {
		r.Detail = res.Error
	}
	return r
}

func emailsRegion(res *backend.EmailsResult, err error, previewRows int) EmailsRegion {
	r := EmailsRegion{Bar: template.HTML(render.BarHTML(0))}
	if err != nil {
		r.Err = err.Error()
		return r
	}

	r.Count = render.FormatNumber(len(res.Rows))
	r.QueryMS = render.Dash
	r.SerializeMS = render.Dash
	r.TotalMS = render.Dash
	if res.Timing != nil {
		r.QueryMS = render.Millis(res.Timing.QueryMS)
		r.SerializeMS = render.Millis(res.Timing.SerializeMS)
		r.TotalMS = render.Millis(res.Timing.TotalMS)
	}
	r.Table = template.HTML(render.PreviewTable(res.Rows, previewRows))
	r.Raw = res.RawJSON()
	return r
}

// Render produces the snapshot page.
func Render(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the page and writes it atomically: the snapshot is
// staged next to the target and renamed into place, so a reader never
// sees a half-written file.
func WriteFile(path string, d Data) error {
	out, err := Render(d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".lakedash-report-*.html")
	if err != nil {
		return fmt.Errorf("stage report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
