// Package backend provides an HTTP client for the email warehouse app API.
package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultUserAgent = "lakedash"

// Client provides access to the warehouse app's JSON API.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Config holds configuration for creating a client.
type Config struct {
	URL           string
	Token         string
	AllowInsecure bool
	Timeout       time.Duration
	UserAgent     string
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, eris.New("backend URL is required")
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "invalid URL")
	}

	// Enforce HTTPS unless AllowInsecure is set
	if parsedURL.Scheme == "http" && !cfg.AllowInsecure {
		return nil, eris.New("HTTPS required for backend connections\n\n" +
			"Options:\n" +
			"  1. Use HTTPS: [backend] url = \"https://myapp.example.com\"\n" +
			"  2. For trusted networks: add 'allow_insecure = true' to [backend] in config.toml")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, eris.Errorf("URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return nil, eris.New("backend URL must include a host (e.g., https://myapp.example.com)")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	// Session cookies set by the app proxy are carried across requests.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, eris.Wrap(err, "create cookie jar")
	}

	return &Client{
		baseURL:   strings.TrimSuffix(cfg.URL, "/"),
		token:     cfg.Token,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// BaseURL returns the configured backend URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a credentialed GET and returns the status code with the
// full response body. Only transport-level failures are errors; any HTTP
// response, whatever its status, is data for the caller to decode.
func (c *Client) get(ctx context.Context, path, rawQuery string) (int, []byte, error) {
	reqURL := c.baseURL + path
	if rawQuery != "" {
		reqURL += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, eris.Wrap(err, "create request")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, eris.Wrapf(err, "read response for %s", path)
	}

	return resp.StatusCode, body, nil
}

// decodeInto fills dst from a JSON body. Shape mismatches are not
// errors: unknown keys are skipped and mistyped fields keep their zero
// value, so a surprising payload still reaches the raw display regions.
func decodeInto(body []byte, dst any) {
	_ = json.Unmarshal(body, dst)
}

// Me fetches the current user and app mode.
func (c *Client) Me(ctx context.Context) (*MeResult, error) {
	status, body, err := c.get(ctx, "/api/me", "")
	if err != nil {
		return nil, err
	}

	res := &MeResult{payload: newPayload(status, body)}
	if res.Fallback() == nil {
		decodeInto(body, res)
	}
	return res, nil
}

// Ping runs the warehouse connectivity check.
func (c *Client) Ping(ctx context.Context) (*PingResult, error) {
	status, body, err := c.get(ctx, "/api/sql/ping", "")
	if err != nil {
		return nil, err
	}

	res := &PingResult{payload: newPayload(status, body)}
	if res.Fallback() == nil {
		decodeInto(body, res)
	}
	return res, nil
}

// Emails fetches the filtered message listing.
func (c *Client) Emails(ctx context.Context, q Query) (*EmailsResult, error) {
	status, body, err := c.get(ctx, "/api/emails", q.Encode())
	if err != nil {
		return nil, err
	}

	res := &EmailsResult{payload: newPayload(status, body)}
	if res.Fallback() == nil {
		decodeInto(body, res)
	}
	return res, nil
}

// DebugEnv fetches the backend's connector configuration diagnostics.
func (c *Client) DebugEnv(ctx context.Context) (*EnvResult, error) {
	status, body, err := c.get(ctx, "/api/debug/env", "")
	if err != nil {
		return nil, err
	}

	res := &EnvResult{payload: newPayload(status, body)}
	if res.Fallback() == nil {
		decodeInto(body, res)
	}
	return res, nil
}
