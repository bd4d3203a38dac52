// Package client is the HTTP transport shared by the real-exchange
// adapters: request building, signing, bounded retries and the mapping of
// HTTP failures onto the typed error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
	"github.com/israel-nogueira/exchange-hub-sub000/sign"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
	defaultTimeout  = 10 * time.Second
)

// Client talks to one venue. Transport failures are retried with a linear
// backoff; anything the venue actually answered is never retried, a rejected
// request would only be rejected again.
type Client struct {
	Exchange string
	BaseURL  string
	Signer   sign.Signer
	HTTP     *http.Client
	Attempts int
	Backoff  time.Duration

	// Sleep is replaced in tests to avoid real waiting.
	Sleep func(time.Duration)
}

func New(exchangeName, baseURL string) *Client {
	return &Client{
		Exchange: exchangeName,
		BaseURL:  baseURL,
		HTTP:     &http.Client{Timeout: defaultTimeout},
		Attempts: defaultAttempts,
		Backoff:  defaultBackoff,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out interface{}) error {
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.wait(time.Duration(attempt-1) * c.Backoff)
		}

		err := c.once(ctx, method, path, query, body, out)
		if err == nil {
			return nil
		}

		if _, retryable := err.(*exchange.NetworkError); !retryable {
			return err
		}

		config.Logger.Warnf("[client] %s %s %s attempt %d/%d failed: %v",
			c.Exchange, method, path, attempt, attempts, err)
		last = err
	}

	return last
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, body []byte, out interface{}) error {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}

	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.Signer != nil {
		if err := c.Signer.Apply(req, body); err != nil {
			return err
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &exchange.NetworkError{Exchange: c.Exchange, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &exchange.NetworkError{Exchange: c.Exchange, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusTeapot:
		return &exchange.RateLimitError{Exchange: c.Exchange, RetryAfter: retryAfter(resp)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &exchange.AuthenticationError{Exchange: c.Exchange}
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s: request.failed: status %d: %s", c.Exchange, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(payload, out)
}

func (c *Client) wait(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}

	time.Sleep(d)
}

func retryAfter(resp *http.Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
