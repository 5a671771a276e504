// Package fetch retrieves the upstream open-data documents using a Colly
// collector. Every fetch is a single GET with a per-call timeout; callers
// treat an error as "source unavailable" and continue with what they have.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// Client performs one-shot GETs against the parliament open-data hosts.
type Client struct {
	userAgent string
	base      *colly.Collector
}

// NewClient builds a Client with a pooled transport shared by every fetch.
func NewClient(userAgent string) *Client {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Client{
		userAgent: userAgent,
		base:      c,
	}
}

// Bytes executes a single HTTP GET and returns the response body.
// Transport errors, timeouts and non-2xx statuses all surface as errors.
func (c *Client) Bytes(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	var (
		body     []byte
		fetchErr error
	)

	collector := c.base.Clone()
	if c.userAgent != "" {
		collector.UserAgent = c.userAgent
	}
	collector.IgnoreRobotsTxt = true
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", rawURL, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
		}
		return body, nil
	}
}

// JSON fetches rawURL and decodes the body into v.
func (c *Client) JSON(ctx context.Context, rawURL string, timeout time.Duration, v any) error {
	body, err := c.Bytes(ctx, rawURL, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// HTML fetches rawURL and returns the page text.
func (c *Client) HTML(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	body, err := c.Bytes(ctx, rawURL, timeout)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Archive fetches a zip archive and opens it in memory.
func (c *Client) Archive(ctx context.Context, rawURL string, timeout time.Duration) (*zip.Reader, error) {
	body, err := c.Bytes(ctx, rawURL, timeout)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", rawURL, err)
	}
	return zr, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
