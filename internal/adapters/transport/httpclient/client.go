// Package httpclient implements ports.Transport over net/http.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/okc-cli/internal/ports"
	"github.com/rs/zerolog"
)

const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultLongPollTimeout = 65 * time.Second
	defaultUserAgent       = "okc-cli"
	maxResponseBytes       = 4 << 20
)

// CookieFunc returns the session cookie header value for each request.
type CookieFunc func(ctx context.Context) (string, error)

type Client struct {
	// BaseURL is the service origin, e.g. "https://www.okcupid.com".
	BaseURL         string
	HTTPClient      *http.Client
	Cookie          CookieFunc
	RequestTimeout  time.Duration
	LongPollTimeout time.Duration
	UserAgent       string
	Logger          zerolog.Logger
}

var _ ports.Transport = (*Client)(nil)

// Issue runs the request on its own goroutine and reports the body through
// onComplete. Failures of any kind are reported as a nil body.
func (c *Client) Issue(ctx context.Context, req ports.Request, onComplete func(body []byte)) {
	go func() {
		body, err := c.Do(ctx, req)
		if err != nil {
			event := c.Logger.Warn()
			if ctx.Err() != nil {
				event = c.Logger.Debug()
			}
			event.Err(err).Str("method", string(req.Method)).Str("path", req.Path).Msg("Request failed")
			body = nil
		}
		onComplete(body)
	}()
}

// Do performs the request synchronously.
func (c *Client) Do(ctx context.Context, req ports.Request) ([]byte, error) {
	endpoint, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx, req.LongPoll)
	defer cancel()

	var payload io.Reader
	if req.Method == ports.MethodPost {
		payload = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(requestCtx, string(req.Method), endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", req.Method, err)
	}
	if req.Method == ports.MethodPost {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	httpReq.Header.Set("User-Agent", c.userAgent())

	if c.Cookie != nil && req.Host == "" {
		cookie, err := c.Cookie(ctx)
		if err != nil {
			return nil, fmt.Errorf("load session cookie: %w", err)
		}
		if cookie != "" {
			httpReq.Header.Set("Cookie", cookie)
		}
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%s %s: unexpected status %d", req.Method, req.Path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", req.Method, req.Path, err)
	}

	c.Logger.Trace().Str("path", req.Path).Int("bytes", len(body)).Msg("Response received")
	return bytes.TrimSpace(body), nil
}

// buildURL joins the path onto the base URL, or onto the override host
// using the base URL's scheme.
func (c *Client) buildURL(req ports.Request) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base url %q must include scheme and host", c.BaseURL)
	}

	host := base.Host
	if req.Host != "" {
		host = req.Host
	}

	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return base.Scheme + "://" + host + path, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

// requestContext bounds every request by its own timeout. A caller
// deadline that comes first still applies.
func (c *Client) requestContext(ctx context.Context, longPoll bool) (context.Context, context.CancelFunc) {
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if longPoll {
		timeout = c.LongPollTimeout
		if timeout <= 0 {
			timeout = DefaultLongPollTimeout
		}
	}

	return context.WithTimeout(ctx, timeout)
}
