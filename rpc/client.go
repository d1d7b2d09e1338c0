package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Observer is notified once per completed call, successful or not.
type Observer interface {
	ObserveCall(provider, method string, elapsed time.Duration, err error)
}

// Client talks to a single JSON-RPC endpoint. It holds only configuration set
// at construction and is safe for concurrent use when its http.Client and
// Observer are.
type Client struct {
	name       string
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithName labels the client in logs and metrics. Defaults to the URL.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// WithHTTPClient replaces http.DefaultClient. Timeouts and connection reuse
// are the transport's business.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger enables debug logging of every call.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithObserver registers o to be told about every call.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient returns a client for the endpoint at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		name:       url,
		url:        url,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name is the label given with WithName, or the endpoint URL.
func (c *Client) Name() string { return c.name }

// Call executes method and returns the raw result member.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	return call[json.RawMessage](ctx, c, method, params...)
}

// call performs one round trip and decodes the result as T.
func call[T any](ctx context.Context, c *Client, method string, params ...any) (T, error) {
	start := time.Now()

	var result T
	body, err := c.doRequest(ctx, method, params)
	if err == nil {
		result, err = DecodeResult[T](body)
		if err != nil {
			err = fmt.Errorf("%s: %w", method, err)
		}
	}

	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveCall(c.name, method, elapsed, err)
	}
	if err != nil {
		c.logger.DebugContext(ctx, "rpc call failed", "provider", c.name, "method", method, "elapsed", elapsed, "err", err)
		var zero T
		return zero, err
	}
	c.logger.DebugContext(ctx, "rpc call", "provider", c.name, "method", method, "elapsed", elapsed)
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, method string, params []any) ([]byte, error) {
	body, err := json.Marshal(newRequest(method, params...))
	if err != nil {
		return nil, &TransportError{Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &TransportError{
			Method:     method,
			StatusCode: httpResp.StatusCode,
			Err:        errors.New(http.StatusText(httpResp.StatusCode)),
		}
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &IOError{Method: method, Err: err}
	}

	if !json.Valid(respBody) {
		return nil, &TransportError{
			Method: method,
			Err:    fmt.Errorf("invalid JSON response: %s", truncate(string(respBody), 64)),
		}
	}

	return respBody, nil
}
