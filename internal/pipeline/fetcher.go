package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/lineage/internal/cache"
	"github.com/ppiankov/lineage/internal/model"
	"github.com/ppiankov/lineage/internal/util"
)

// fetchSleepFunc is the retry backoff sleep, injectable for tests
var fetchSleepFunc = time.Sleep

// Fetcher fetches HTML pages with validation, optional caching, and
// optional robots.txt compliance
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	cache      cache.Cache
	robots     *util.RobotsChecker
}

// NewFetcher creates a new Fetcher from the HTTP configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: cfg.MaxRetries,
	}
}

// UseCache enables page caching on the fetcher
func (f *Fetcher) UseCache(c cache.Cache) {
	f.cache = c
}

// UseRobots enables robots.txt checks on the fetcher
func (f *Fetcher) UseRobots(rc *util.RobotsChecker) {
	f.robots = rc
}

// Fetch retrieves an HTML page. A non-2xx status or a content type other
// than text/html is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.cache != nil {
		if data, found := f.cache.Get(cache.PageKey(rawURL)); found {
			return string(data), nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	page, err := f.fetchOnce(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		_ = f.cache.Set(cache.PageKey(rawURL), []byte(page), 0)
	}

	return page, nil
}

// FetchWithRetry retrieves an HTML page, retrying transient failures
// (transport errors and 5xx responses) with linear backoff. Client errors
// and wrong content types fail immediately.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(time.Duration(attempt) * time.Second)
		}

		page, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !isTransient(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", lastErr
		}
	}

	return "", fmt.Errorf("fetch %s: retries exhausted: %w", rawURL, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &transientError{fmt.Errorf("fetch: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if resp.StatusCode >= 500 {
			return "", &transientError{statusErr}
		}
		return "", statusErr
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "text/html") {
		return "", fmt.Errorf("expected HTML content, got %q", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", &transientError{fmt.Errorf("read body: %w", err)}
	}

	return string(body), nil
}

// transientError marks failures worth retrying
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
