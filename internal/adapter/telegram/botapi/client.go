// Package botapi is a minimal Telegram Bot API client for outbound calls.
//
// The bot framework handles inbound updates; this client exists so that
// outbound sends (broadcasts, command replies issued by jobs) go through a
// call pipeline we control, where retry middleware can be installed.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	stdhttp "net/http"

	"notifybot/internal/platform/httpclient"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Caller performs a single attempt of a Bot API method invocation.
// payload is marshalled to JSON; the raw result field is returned on success.
type Caller func(ctx context.Context, method string, payload any) (json.RawMessage, error)

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	ErrorCode   int                 `json:"error_code"`
	Description string              `json:"description"`
	Parameters  *ResponseParameters `json:"parameters"`
}

// Client calls Bot API methods over HTTP.
type Client struct {
	hc      *httpclient.Client
	log     *slog.Logger
	baseURL string
	token   string
	call    Caller
	wrap    func(Caller) Caller
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (local Bot API server, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithInterceptor installs middleware around the call pipeline. The wrapped
// caller sees every method invocation made through this client.
func WithInterceptor(wrap func(Caller) Caller) Option {
	return func(c *Client) {
		if wrap != nil {
			c.wrap = wrap
		}
	}
}

// New creates a Client for the given bot token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		hc:      httpclient.New(),
		log:     slog.Default(),
		baseURL: DefaultBaseURL,
		token:   token,
	}
	for _, o := range opts {
		o(c)
	}
	c.call = c.do
	if c.wrap != nil {
		c.call = c.wrap(c.call)
	}
	return c
}

// Call invokes a Bot API method through the configured pipeline.
func (c *Client) Call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	return c.call(ctx, method, payload)
}

// do performs exactly one HTTP attempt of a method invocation.
func (c *Client) do(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", method, err)
		}
	}

	url := c.baseURL + "/bot" + c.token + "/" + method
	req, err := stdhttp.NewRequest(stdhttp.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	var env apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !env.OK {
		return nil, &Error{
			Code:        env.ErrorCode,
			Description: env.Description,
			Parameters:  env.Parameters,
		}
	}
	return env.Result, nil
}
