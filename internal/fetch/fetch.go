package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// FetchError represents a failed HTTP fetch.
type FetchError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %d %s", e.URL, e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *FetchError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// doRequest performs a single HTTP request and reads the full body.
// A non-2xx status becomes a *FetchError; the header of the response is
// returned alongside the body for callers that need it.
func (c *Client) doRequest(ctx context.Context, method, url string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, resp.Header, &FetchError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	return body, resp.Header, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, method, url string) ([]byte, http.Header, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying fetch",
				"attempt", attempt,
				"backoff", jitter,
				"url", url,
			)

			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, header, err := c.doRequest(ctx, method, url)
		if err == nil {
			return body, header, nil
		}

		lastErr = err

		fetchErr, ok := err.(*FetchError)
		if !ok || !fetchErr.IsRetryable() {
			return nil, nil, err
		}
	}

	return nil, nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// FetchBytes downloads the full body of a URL.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.doWithRetry(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// LastModified issues a HEAD request and parses the Last-Modified header.
// A missing header yields ok=false without an error, so callers can fall
// back to downloading unconditionally.
func (c *Client) LastModified(ctx context.Context, url string) (time.Time, bool, error) {
	_, header, err := c.doWithRetry(ctx, http.MethodHead, url)
	if err != nil {
		return time.Time{}, false, err
	}

	raw := header.Get("Last-Modified")
	if raw == "" {
		return time.Time{}, false, nil
	}

	t, err := http.ParseTime(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse Last-Modified %q: %w", raw, err)
	}

	return t, true, nil
}
