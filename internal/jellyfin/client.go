// Package jellyfin talks to a Jellyfin server over its HTTP API. It provides
// the catalog client used by sync and the playback reporter.
package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultClientName    = "Stingray"
	defaultClientVersion = "1.0.0"
	defaultDeviceName    = "stingray"
	defaultRetryDelay    = 500 * time.Millisecond
	maxErrorBody         = 4 << 10
)

// Client is a Jellyfin API client bound to one server and, once
// authenticated, one user.
type Client struct {
	baseURL       *url.URL
	httpClient    *http.Client
	logger        *slog.Logger
	userID        string
	token         string
	clientName    string
	clientVersion string
	deviceName    string
	deviceID      string
	attempts      uint
	retryDelay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCredentials sets the user and access token from a prior login.
func WithCredentials(userID, token string) Option {
	return func(c *Client) {
		c.userID = userID
		c.token = token
	}
}

// WithDevice identifies this device to the server.
func WithDevice(name, id string) Option {
	return func(c *Client) {
		if name != "" {
			c.deviceName = name
		}
		c.deviceID = id
	}
}

// WithClientInfo sets the client name and version sent with every request.
func WithClientInfo(name, version string) Option {
	return func(c *Client) {
		if name != "" {
			c.clientName = name
		}
		if version != "" {
			c.clientVersion = version
		}
	}
}

// WithRetry retries idempotent requests that failed to send or got a 5xx.
// Attempts counts the first try, so 1 disables retry.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// NewClient creates a client for the server at rawURL.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, &RequestError{Op: OpBadURL, Path: rawURL, Err: err}
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, &RequestError{Op: OpBadURL, Path: rawURL, Err: fmt.Errorf("unsupported server url %q", rawURL)}
	}

	c := &Client{
		baseURL:       base,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		logger:        slog.Default(),
		clientName:    defaultClientName,
		clientVersion: defaultClientVersion,
		deviceName:    defaultDeviceName,
		attempts:      1,
		retryDelay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "jellyfin")
	return c, nil
}

// UserID returns the authenticated user id.
func (c *Client) UserID() string { return c.userID }

// BaseURL returns the server root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// URL resolves path and query against the server root.
func (c *Client) URL(path string, query url.Values) (*url.URL, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, &RequestError{Op: OpBadURL, Path: path, Err: err}
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	q := rel.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return &u, nil
}

// authorization builds the MediaBrowser authorization header value.
func (c *Client) authorization() string {
	parts := []string{
		fmt.Sprintf("Client=%q", c.clientName),
		fmt.Sprintf("Device=%q", c.deviceName),
		fmt.Sprintf("DeviceId=%q", c.deviceID),
		fmt.Sprintf("Version=%q", c.clientVersion),
	}
	if c.token != "" {
		parts = append(parts, fmt.Sprintf("Token=%q", c.token))
	}
	return "MediaBrowser " + strings.Join(parts, ", ")
}

// Request sends one API call. A non-nil body is encoded as JSON; a non-nil
// out receives the decoded response. GET requests are retried per WithRetry.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := c.URL(path, query)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return &RequestError{Op: OpSend, Method: method, Path: path, Err: fmt.Errorf("encode body: %w", err)}
		}
	}

	attempt := func() error {
		return c.do(ctx, method, u, path, payload, out)
	}
	if method != http.MethodGet || c.attempts <= 1 {
		return attempt()
	}

	return retry.Do(attempt,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var reqErr *RequestError
			return errors.As(err, &reqErr) && reqErr.retryable()
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying request", "path", path, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &RequestError{Op: OpBadURL, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: OpSend, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var cause error
		if resp.StatusCode == http.StatusUnauthorized {
			cause = ErrUnauthorized
		} else if msg := strings.TrimSpace(string(snippet)); msg != "" {
			cause = errors.New(msg)
		}
		return &RequestError{Op: OpStatus, Method: method, Path: path, StatusCode: resp.StatusCode, Err: cause}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: OpDecode, Method: method, Path: path, Err: err}
	}
	return nil
}
