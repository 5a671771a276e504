// Package photos downloads member portraits with a candidate-URL fallback
// chain, bounded fixed-wait retries and image content validation.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// maxPortraitBytes caps response reads; official portraits are well under
// a megabyte.
const maxPortraitBytes = 8 << 20

// Magic numbers accepted in place of a usable content-type header.
var (
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	pngMagic  = []byte{0x89, 'P', 'N'}
)

// Config controls download behavior.
type Config struct {
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts per candidate URL.
	Retries int
	// RetryWait is the fixed delay between attempts.
	RetryWait time.Duration
	// MinBytes is the smallest acceptable image size; also the threshold
	// for the skip-if-exists check.
	MinBytes int
}

// Downloader fetches portraits to local files. It is deliberately
// best-effort: Fetch reports success or failure and never errors out.
type Downloader struct {
	client   *retryablehttp.Client
	minBytes int
	logger   *zap.Logger
}

// NewDownloader builds a Downloader. Transport errors and non-2xx statuses
// are retried with a fixed wait; a well-formed response that fails image
// validation fails the candidate immediately, since refetching cannot
// change its bytes.
func NewDownloader(cfg Config, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.RetryWaitMin = cfg.RetryWait
	rc.RetryWaitMax = cfg.RetryWait
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return true, nil
		}
		return false, nil
	}

	return &Downloader{
		client:   rc,
		minBytes: cfg.MinBytes,
		logger:   logger,
	}
}

// Fetch tries each candidate URL in order and writes the first valid image
// to dest. When dest already holds a plausible image the download is
// skipped entirely, making repeated runs cheap.
func (d *Downloader) Fetch(ctx context.Context, candidates []string, dest string) bool {
	if info, err := os.Stat(dest); err == nil && info.Size() > int64(d.minBytes) {
		return true
	}

	for _, rawURL := range candidates {
		body, ok := d.attempt(ctx, rawURL)
		if !ok {
			continue
		}
		if err := writeImage(dest, body); err != nil {
			d.logger.Warn("portrait write failed", zap.String("dest", dest), zap.Error(err))
			return false
		}
		return true
	}
	return false
}

func (d *Downloader) attempt(ctx context.Context, rawURL string) ([]byte, bool) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		d.logger.Warn("bad portrait url", zap.String("url", rawURL), zap.Error(err))
		return nil, false
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Debug("portrait fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPortraitBytes))
	if err != nil {
		d.logger.Debug("portrait read failed", zap.String("url", rawURL), zap.Error(err))
		return nil, false
	}

	if len(body) <= d.minBytes {
		return nil, false
	}
	if !looksLikeImage(resp.Header.Get("Content-Type"), body) {
		d.logger.Debug("portrait response is not an image",
			zap.String("url", rawURL),
			zap.String("content_type", resp.Header.Get("Content-Type")),
		)
		return nil, false
	}
	return body, true
}

// looksLikeImage accepts image or binary-stream content types, or bodies
// opening with a JPEG/PNG signature when the header is unhelpful.
func looksLikeImage(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "image") || strings.Contains(ct, "octet") {
		return true
	}
	return bytes.HasPrefix(body, jpegMagic) || bytes.HasPrefix(body, pngMagic)
}

func writeImage(dest string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("create portrait dir: %w", err)
	}
	if err := os.WriteFile(dest, body, 0o600); err != nil {
		return fmt.Errorf("write portrait %s: %w", dest, err)
	}
	return nil
}
