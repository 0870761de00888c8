// Package httpclient wraps http.Client with sane transport defaults, request
// logging and default headers. It deliberately performs no retries: callers
// that need them install a retry layer above it (see apiretry).
package httpclient

import (
	"context"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"time"
)

// Client wraps http.Client with logging.
type Client struct {
	hc          *stdhttp.Client
	log         *slog.Logger
	headers     map[string]string
	urlRedactor func(*url.URL) string
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets request timeout.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = t }
}

// WithLogger sets logger used by client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHeaders adds default headers to each request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			if c.headers == nil {
				c.headers = make(map[string]string)
			}
			c.headers[k] = v
		}
	}
}

// WithTransport sets custom transport.
func WithTransport(rt stdhttp.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.hc.Transport = rt
		}
	}
}

// WithURLRedactor sets URL redactor for logs. Bot API URLs embed the token in
// the path, so full-URL logging must be overridden for them.
func WithURLRedactor(f func(*url.URL) string) Option {
	return func(c *Client) { c.urlRedactor = f }
}

// New creates configured Client.
func New(opts ...Option) *Client {
	tr := stdhttp.DefaultTransport.(*stdhttp.Transport).Clone()
	tr.MaxIdleConns = 100
	tr.MaxConnsPerHost = 100
	tr.MaxIdleConnsPerHost = 100
	tr.IdleConnTimeout = 90 * time.Second
	tr.TLSHandshakeTimeout = 10 * time.Second
	tr.ResponseHeaderTimeout = 10 * time.Second
	tr.ExpectContinueTimeout = 1 * time.Second

	c := &Client{
		hc: &stdhttp.Client{
			Timeout:   30 * time.Second,
			Transport: tr,
		},
		log: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// redactURL returns the URL string safe for logs.
func (c *Client) redactURL(u *url.URL) string {
	if c.urlRedactor != nil {
		return c.urlRedactor(u)
	}
	return u.Redacted()
}

// Do sends a single HTTP request with context and logging.
func (c *Client) Do(ctx context.Context, req *stdhttp.Request) (*stdhttp.Response, error) {
	r := req.Clone(ctx)
	for k, v := range c.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}

	u := c.redactURL(r.URL)
	st := time.Now()
	resp, err := c.hc.Do(r)
	dur := time.Since(st)
	if err != nil {
		c.log.Warn("http request error",
			slog.String("method", r.Method),
			slog.String("url", u),
			slog.Any("error", err))
		return nil, err
	}
	c.log.Debug("http request",
		slog.String("method", r.Method),
		slog.String("url", u),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", dur))
	return resp, nil
}
