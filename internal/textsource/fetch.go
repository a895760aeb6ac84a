package textsource

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "timetable/1.0"
)

// ErrSourceUnavailable means the chart could neither be downloaded nor found
// locally. Callers skip the venue scan.
var ErrSourceUnavailable = errors.New("room chart unavailable")

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	// Timeout bounds one download. Zero means one minute.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate checks. The institute
	// server has served incomplete chains in the past.
	InsecureSkipVerify bool
}

// Fetcher downloads the room chart.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewFetcher returns a Fetcher. A nil logger discards output.
func NewFetcher(opts FetcherOptions, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}

	return &Fetcher{
		client: &http.Client{Timeout: timeout, Transport: transport},
		logger: logger,
	}
}

// Fetch downloads url to dst. The body is written to a temporary file next
// to dst and renamed on success, so a failed download never truncates an
// existing copy.
func (f *Fetcher) Fetch(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("saving %s: %w", dst, err)
	}

	f.logger.Info("downloaded room chart",
		zap.String("url", url),
		zap.String("file", dst),
		zap.Int64("bytes", n),
	)
	return nil
}

// Acquire makes the chart available at dst. It tries to download url (when
// non-empty) and falls back to an existing file at dst. It returns
// ErrSourceUnavailable when neither works.
func (f *Fetcher) Acquire(ctx context.Context, url, dst string) (downloaded bool, err error) {
	if url != "" {
		fetchErr := f.Fetch(ctx, url, dst)
		if fetchErr == nil {
			return true, nil
		}
		f.logger.Warn("room chart download failed", zap.String("url", url), zap.Error(fetchErr))
	}

	info, statErr := os.Stat(dst)
	if statErr != nil || info.IsDir() {
		return false, fmt.Errorf("%w: no local copy at %s", ErrSourceUnavailable, dst)
	}

	f.logger.Info("using existing local room chart", zap.String("file", dst))
	return false, nil
}
