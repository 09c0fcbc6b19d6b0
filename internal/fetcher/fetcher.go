package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/firefly/post-analyzer/internal/logging"
)

const (
	// UserAgent identifies us to servers. Reddit throttles generic agents.
	UserAgent = "go:post-analyzer:1.0 (by firefly)"

	// DefaultTimeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// MaxRetries for failed requests
	MaxRetries = 3

	// BackoffBase for exponential backoff
	BackoffBase = time.Second

	maxBackoff = 30 * time.Second
)

// Fetcher performs rate limited GET requests with retries
type Fetcher struct {
	client        *http.Client
	rateLimiter   *rate.Limiter
	robots        *RobotsRules
	logger        logging.Logger
	userRateLimit float64 // User-specified rate limit (0 = no limit)
	backoffBase   time.Duration
}

// New creates a Fetcher. requestsPerSecond of 0 disables rate limiting.
func New(requestsPerSecond float64, timeout time.Duration, logger logging.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter:   newLimiter(requestsPerSecond),
		logger:        logger,
		userRateLimit: requestsPerSecond,
		backoffBase:   BackoffBase,
	}
}

func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1)
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}

// LoadRobotsTxt fetches and parses robots.txt for the host of rawURL. A
// missing robots.txt allows everything. A Crawl-delay is applied when no
// rate limit was requested explicitly.
func (f *Fetcher) LoadRobotsTxt(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing base URL: %w", err)
	}
	robotsURL := parsed.Scheme + "://" + parsed.Host + "/robots.txt"

	f.logger.Debug("fetching robots.txt", "url", robotsURL)

	resp, err := f.get(ctx, robotsURL, "text/plain")
	if err != nil {
		return fmt.Errorf("fetching robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		f.logger.Debug("no robots.txt found, all URLs allowed", "url", robotsURL)
		f.robots = &RobotsRules{}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("robots.txt returned status %d", resp.StatusCode)
	}

	rules, err := ParseRobots(resp.Body)
	if err != nil {
		return fmt.Errorf("parsing robots.txt: %w", err)
	}
	f.robots = rules

	if f.userRateLimit == 0 {
		if delay := rules.CrawlDelay(UserAgent); delay > 0 {
			f.rateLimiter = rate.NewLimiter(rate.Every(delay), 1)
			f.logger.Info("applying robots.txt crawl-delay", "delay", delay)
		}
	}

	f.logger.Debug("loaded robots.txt", "groups", rules.Len())
	return nil
}

// IsAllowed checks if a URL may be fetched according to the loaded robots.txt
func (f *Fetcher) IsAllowed(rawURL string) bool {
	if f.robots == nil {
		return true
	}
	return f.robots.IsAllowed(rawURL, UserAgent)
}

// FetchJSON fetches rawURL expecting a JSON body. Server errors and transport
// failures are retried with exponential backoff; client errors are not.
// The caller must close the returned body.
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if !f.IsAllowed(rawURL) {
		return nil, fmt.Errorf("URL disallowed by robots.txt: %s", rawURL)
	}

	var lastErr error

	for attempt := 0; attempt < MaxRetries; attempt++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		if attempt > 0 {
			f.logger.Debug("retrying request", "url", rawURL, "attempt", attempt+1, "max", MaxRetries)
		}

		resp, err := f.get(ctx, rawURL, "application/json")
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if err := f.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			lastErr = &StatusError{Code: resp.StatusCode, Status: resp.Status}

			// Don't retry client errors (4xx), but do retry server errors (5xx)
			if resp.StatusCode < 500 {
				return nil, lastErr
			}

			if err := f.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		f.logger.Debug("fetched", "url", rawURL, "content_type", resp.Header.Get("Content-Type"))
		return resp.Body, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", MaxRetries, lastErr)
}

func (f *Fetcher) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", accept)

	return f.client.Do(req)
}

// backoff sleeps before the next attempt, giving up early if ctx is done
func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	if attempt >= MaxRetries-1 {
		return nil
	}

	wait := f.backoffBase * time.Duration(1<<uint(attempt))
	if wait > maxBackoff {
		wait = maxBackoff
	}

	f.logger.Debug("backing off", "wait", wait)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StatusError reports an HTTP error status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}
