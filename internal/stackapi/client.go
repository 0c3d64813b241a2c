package stackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 64 << 10

	// SessionCookieName is the cookie the Q&A service issues on login.
	SessionCookieName = "soc_login"
	traceHeader       = "Postman-Token"
)

// Client posts JSON payloads to one Q&A service host.
type Client struct {
	baseURL    string
	cookie     string
	traceToken string
	httpClient *http.Client
}

// Config controls the target host and the static credentials sent with every request.
type Config struct {
	BaseURL string
	// Timeout of zero uses the default; a negative timeout waits forever.
	Timeout time.Duration
	// SessionCookie is the soc_login value captured from a prior login.
	SessionCookie string
	// TraceToken is sent as a request-tracing header when set.
	TraceToken string
}

// NewClient builds a client for cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("stackapi: base URL is required")
	}
	timeout := cfg.Timeout
	switch {
	case timeout == 0:
		timeout = defaultTimeout
	case timeout < 0:
		timeout = 0
	}
	return &Client{
		baseURL:    base,
		cookie:     cfg.SessionCookie,
		traceToken: cfg.TraceToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// BaseURL returns the host this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends payload as JSON to path. Any HTTP status is returned as a Result;
// only transport and encoding failures are errors.
func (c *Client) Post(ctx context.Context, path string, payload any) (*Result, error) {
	body, err := encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", path, err)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("cache-control", "no-cache")
	if c.traceToken != "" {
		req.Header.Set(traceHeader, c.traceToken)
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: c.cookie})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	res := &Result{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Payload:    body,
		RawBody:    raw,
	}
	// The envelope is informational; an unparseable body still counts as sent.
	_ = json.Unmarshal(raw, &res.Response)
	return res, nil
}

// encode marshals without HTML escaping so question bodies go out as written.
func encode(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
