package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/lineage/internal/cache"
	"github.com/ppiankov/lineage/internal/model"
	"github.com/ppiankov/lineage/internal/util"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
		MaxRetries:   2,
	}
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("unexpected User-Agent: %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	page, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page != "<html><body>OK</body></html>" {
		t.Errorf("unexpected page: %s", page)
	}
}

func TestFetch_NonHTMLContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Error("expected error for non-HTML content type")
	}
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt for client error, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	page, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if page != "<html>OK</html>" {
		t.Errorf("unexpected page: %s", page)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_Exhaustion(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	// maxRetries=2 means 3 attempts total
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>cached</html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	fetcher.UseCache(cache.NewMemoryCache(time.Minute, time.Minute))

	for i := 0; i < 3; i++ {
		page, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if page != "<html>cached</html>" {
			t.Errorf("fetch %d: unexpected page %q", i, page)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("expected 1 network hit, got %d", hits.Load())
	}
}

func TestFetch_RobotsDisallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>page</html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	fetcher.UseRobots(util.NewRobotsChecker("test-agent", 5*time.Second))

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/private/page"); err == nil {
		t.Error("expected robots.txt to disallow /private/")
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public"); err != nil {
		t.Errorf("expected /public to be allowed, got %v", err)
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		for i := 0; i < 100; i++ {
			_, _ = fmt.Fprint(w, "0123456789")
		}
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 50
	fetcher := NewFetcher(cfg)

	page, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page) != 50 {
		t.Errorf("expected body capped at 50 bytes, got %d", len(page))
	}
}
