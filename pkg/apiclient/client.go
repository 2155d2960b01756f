// Package apiclient is the HTTP layer shared by the tools: pooled connections,
// per-service rate limiting, bounded retries and JSON decoding.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goodafternoonoo/my-mcp-server/pkg/config"
	"github.com/goodafternoonoo/my-mcp-server/pkg/version"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// Client talks to one upstream API.
type Client struct {
	service    string
	cfg        config.ServiceConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	retryWait  time.Duration
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the service's default rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxRetries sets how many times a retryable status is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryWait sets the initial backoff interval.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// WithLogger sets the logger for the client
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for service using cfg's endpoint, key and timeout.
func New(service string, cfg config.ServiceConfig, opts ...Option) *Client {
	c := &Client{
		service:    service,
		cfg:        cfg,
		limiter:    NewLimiter(service),
		userAgent:  version.UserAgent(),
		maxRetries: config.DefaultMaxRetries,
		retryWait:  500 * time.Millisecond,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(cfg.Timeout)
	}
	c.logger = c.logger.With("service", service)
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: timeout,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.cfg.EndpointURL
}

// APIKey returns the configured credential, possibly empty.
func (c *Client) APIKey() string {
	return c.cfg.APIKey
}

// Request describes one call. URL defaults to the configured endpoint.
// Body, when set, is sent as JSON.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	Body   any
}

// Do performs req and decodes a JSON response into out. Responses with status
// 429, 502, 503 or 504 are retried with exponential backoff; every other
// failure is returned immediately.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	target := req.URL
	if target == "" {
		target = c.cfg.EndpointURL
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%s: invalid URL %q: %w", c.service, target, err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request body: %w", c.service, err)
		}
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%s: failed to create request: %w", c.service, err))
		}
		httpReq.Header.Set("User-Agent", c.userAgent)
		httpReq.Header.Set("Accept", "application/json")
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}

		c.logger.Debug("sending request", "method", method, "url", u.Redacted(), "attempt", attempt)
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%s request failed: %w", c.service, err))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%s: failed to read response: %w", c.service, err))
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := NewAPIError(c.service, resp.StatusCode, errorMessage(resp.StatusCode, data))
			if apiErr.Recoverable {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("%s: failed to decode response: %w", c.service, err))
		}
		return nil
	}

	err = backoff.RetryNotify(operation, c.newBackOff(ctx), func(err error, wait time.Duration) {
		c.logger.Warn("retrying request", "error", err, "wait", wait, "attempt", attempt)
	})
	if err != nil {
		c.logger.Error("request failed", "error", err, "attempts", attempt)
	}
	return err
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryWait
	exp.MaxInterval = 10 * c.retryWait
	exp.MaxElapsedTime = 0
	retries := c.maxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}
