package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"filmstrip/internal/logging"
	"filmstrip/internal/services"
)

const (
	defaultRetries        = 2
	defaultRetryDelay     = 500 * time.Millisecond
	defaultRequestTimeout = 2 * time.Minute
)

// nonRetryableStatuses are responses that will not heal on retry.
var nonRetryableStatuses = map[int]struct{}{
	http.StatusBadRequest:   {},
	http.StatusUnauthorized: {},
	http.StatusForbidden:    {},
	http.StatusNotFound:     {},
}

// Options tunes fetcher retry and transport behavior. Zero values select
// defaults; a negative Retries also selects the default. Headers are sent
// verbatim on every request, for assets behind token or referer checks.
type Options struct {
	Retries        int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	Headers        map[string]string
}

// Fetcher downloads assets over a shared keep-alive HTTP client.
type Fetcher struct {
	client     *http.Client
	logger     *slog.Logger
	retries    int
	retryDelay time.Duration
	headers    map[string]string
}

// New creates a Fetcher with the provided options.
func New(opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	retries := opts.Retries
	if retries < 0 {
		retries = defaultRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 8

	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger:     logger,
		retries:    retries,
		retryDelay: retryDelay,
		headers:    opts.Headers,
	}
}

// Error describes a failed download after all attempts were spent.
type Error struct {
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d after %d attempt(s): %v", e.URL, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// writeError marks a failure that happened after the server already answered.
// Retrying the request cannot fix the local filesystem, so the retry loop
// stops on the first one.
type writeError struct {
	err error
}

func (e *writeError) Error() string {
	return e.err.Error()
}

func (e *writeError) Unwrap() error {
	return e.err
}

// Download fetches rawURL into dest, writing through a temp file so a
// partial download never masquerades as a completed asset. Retryable
// failures back off linearly with the attempt number.
func (f *Fetcher) Download(ctx context.Context, rawURL, dest string) error {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return services.Wrap(services.ErrValidation, "fetch", "download asset",
			fmt.Sprintf("invalid asset URL %q", rawURL), err)
	}

	log := logging.WithContext(ctx, f.logger)
	attempts := f.retries + 1
	var lastStatus int
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * f.retryDelay
			select {
			case <-ctx.Done():
				return services.Wrap(services.ErrTimeout, "fetch", "download asset",
					fmt.Sprintf("cancelled while waiting to retry %s", rawURL), ctx.Err())
			case <-time.After(delay):
			}
		}

		status, err := f.attempt(ctx, rawURL, dest)
		if err == nil {
			log.Debug("asset downloaded",
				logging.String("url", rawURL),
				logging.Int("status", status),
				logging.Int("attempt", attempt))
			return nil
		}
		lastStatus = status
		lastErr = err
		log.Warn("asset fetch attempt failed",
			logging.String("url", rawURL),
			logging.Int("status", status),
			logging.Int("attempt", attempt),
			logging.Error(err))

		var werr *writeError
		if errors.As(err, &werr) {
			attempts = attempt
			break
		}
		if _, fatal := nonRetryableStatuses[status]; fatal {
			attempts = attempt
			break
		}
	}

	ferr := &Error{URL: rawURL, StatusCode: lastStatus, Attempts: attempts, Err: lastErr}
	marker := services.ErrTransient
	var werr *writeError
	if errors.As(lastErr, &werr) {
		marker = services.ErrConfiguration
	}
	if _, fatal := nonRetryableStatuses[lastStatus]; fatal {
		marker = services.ErrValidation
	}
	return services.Wrap(marker, "fetch", "download asset", "", ferr)
}

// attempt performs one GET and returns the response status alongside any
// error. A zero status means either the request never produced a response or
// the failure happened locally after one; local failures come back as a
// writeError so the caller can stop retrying.
func (f *Fetcher) attempt(ctx context.Context, rawURL, dest string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	for name, value := range f.headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, &writeError{fmt.Errorf("create asset directory: %w", err)}
	}

	tempPath := dest + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return 0, &writeError{fmt.Errorf("create temp file: %w", err)}
	}

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		os.Remove(tempPath)
		// The body can fail mid-stream for network reasons; keep it retryable.
		return resp.StatusCode, fmt.Errorf("write asset body: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return 0, &writeError{fmt.Errorf("close temp file: %w", err)}
	}
	if err := os.Rename(tempPath, dest); err != nil {
		os.Remove(tempPath)
		return 0, &writeError{fmt.Errorf("replace asset file: %w", err)}
	}

	f.logger.Debug("asset written",
		logging.String("path", dest),
		logging.Int64("bytes", written))
	return resp.StatusCode, nil
}

// ExtensionFromURL extracts a plausible image extension (without the dot)
// from a URL path. It returns an empty string when the path carries no
// recognizable extension; content sniffing downstream does not depend on it.
func ExtensionFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	switch ext {
	case "png", "jpg", "jpeg", "webp", "gif", "bmp":
		return ext
	default:
		return ""
	}
}
