package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Sh00k-ThaD3v/hors/internal/fingerprint"
	"github.com/Sh00k-ThaD3v/hors/internal/metrics"
	"github.com/Sh00k-ThaD3v/hors/pkg/httpclient"
	"github.com/Sh00k-ThaD3v/hors/pkg/proxy"
	"github.com/Sh00k-ThaD3v/hors/pkg/useragent"
	"github.com/google/uuid"
)

// Config configures page fetches.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	Fingerprint  fingerprint.Profile
	UAPool       *useragent.Pool
	Proxies      *proxy.Pool
}

// Fetcher retrieves search result pages with a spoofed browser identity.
// Every Fetch builds its own transport, client, and cookie jar, so invocations
// share nothing; cookies only live long enough to survive a redirect or
// consent challenge within a single call.
type Fetcher struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Fetcher, filling zero config values with defaults.
func New(cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 5
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if string(cfg.Fingerprint) == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{cfg: cfg, logger: logger}
}

// Fetch issues one GET to the given URL and returns the response body as
// text. Non-2xx status codes are not errors; whatever the engine returned is
// handed to the extractor, and challenge pages are only logged and counted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	id := uuid.New().String()
	start := time.Now()

	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	}

	var activeProxy *url.URL
	var proxyFunc func(*http.Request) (*url.URL, error)
	if f.cfg.Proxies != nil {
		if activeProxy = f.cfg.Proxies.Next(); activeProxy != nil {
			proxyFunc = http.ProxyURL(activeProxy)
		}
	}

	transport, err := fingerprint.Transport(f.cfg.Fingerprint, proxyFunc)
	if err != nil {
		metrics.RecordFetch(host, 0, time.Since(start), 0)
		return "", fmt.Errorf("build transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      f.cfg.Timeout,
		MaxRedirects: f.cfg.MaxRedirects,
		UseCookieJar: true,
		Transport:    transport,
	})
	if err != nil {
		metrics.RecordFetch(host, 0, time.Since(start), 0)
		return "", fmt.Errorf("build client: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.RecordFetch(host, 0, time.Since(start), 0)
		return "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.UAPool.GetRandom())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	f.logger.Debug("fetching search page", "id", id, "url", rawURL)

	resp, err := client.Do(ctx, req)
	if err != nil {
		if activeProxy != nil {
			_ = f.cfg.Proxies.MarkFailure(activeProxy)
		}
		metrics.RecordFetch(host, 0, time.Since(start), 0)
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if activeProxy != nil {
		_ = f.cfg.Proxies.MarkSuccess(activeProxy)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordFetch(host, resp.StatusCode, time.Since(start), 0)
		return "", fmt.Errorf("read body from %s: %w", rawURL, err)
	}

	metrics.RecordFetch(host, resp.StatusCode, time.Since(start), len(body))

	if detected, source := Analyze(resp.StatusCode, resp.Header, body, DefaultDetectors()); detected {
		metrics.RecordChallenge(host, source)
		f.logger.Warn("search engine served a bot challenge",
			"id", id, "source", source, "status", resp.StatusCode)
	}

	f.logger.Debug("fetched search page",
		"id", id, "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	return string(body), nil
}
