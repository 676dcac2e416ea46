// internal/api/client.go
//
// Curbside – ordering-backend REST client.
//
// Context
//   The web tier owns no business data.  Every page reads from and writes to
//   the platform's REST backend over JSON, treated as an opaque collaborator.
//   This client centralizes base-URL handling, bearer auth, JSON codec work,
//   and the backend's error envelope, so handlers never touch net/http
//   directly.
//
// Error contract
//   Non-2xx responses may carry `{"message": "..."}`.  When present, that
//   message is surfaced to the user verbatim; when absent, callers fall back
//   to a per-operation generic string.  Transport failures are returned
//   unwrapped, and the submission layer treats them the same as a 5xx.  No
//   retries, and no client-side timeout beyond what the injected http.Client
//   enforces.
//
//------------------------------------------------------------------------------

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/curbsidehq/curbside-web/internal/metrics"
)

// Error is a non-2xx backend response.  Message is empty when the body had
// no usable envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// UserMessage returns the backend-provided text safe to show the user.
func (e *Error) UserMessage() string { return e.Message }

// Client talks to the ordering backend.  The zero value is not usable;
// construct with New.  WithToken derives per-request authenticated copies,
// so one Client is shared process-wide.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
	log   *zap.SugaredLogger
}

// New builds a Client for the given base URL, e.g. "https://api.curbside.io".
// hc may be nil, in which case http.DefaultClient's behavior applies.
func New(baseURL string, hc *http.Client, log *zap.SugaredLogger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = zap.S()
	}
	return &Client{base: u, http: hc, log: log}, nil
}

// WithToken returns a shallow copy carrying the bearer token on every
// request.  An empty token returns the receiver unchanged.
func (c *Client) WithToken(tok string) *Client {
	if tok == "" {
		return c
	}
	cp := *c
	cp.token = tok
	return &cp
}

// Send issues one JSON request and returns the raw response body.  It is the
// mutation entry point the forms subsystem uses: exactly one call, no retry.
func (c *Client) Send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Get fetches path and decodes the 2xx body into out.  out may be nil when
// the caller only cares about the status.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body and decodes the 2xx response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put sends body and decodes the 2xx response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	u := *c.base
	if i := strings.IndexByte(path, '?'); i >= 0 {
		u.RawQuery = path[i+1:]
		path = path[:i]
	}
	u.Path = strings.TrimRight(u.Path, "/") + path

	var rdr io.Reader
	if body != nil {
		j, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(j)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestSeconds.
			WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		c.log.Warnw("backend unreachable", "method", method, "path", path, "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	metrics.BackendRequestSeconds.
		WithLabelValues(method, strconv.Itoa(resp.StatusCode)).
		Observe(time.Since(start).Seconds())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		// A malformed body simply leaves Message empty.
		_ = json.Unmarshal(data, &envelope)
		apiErr.Message = envelope.Message
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
