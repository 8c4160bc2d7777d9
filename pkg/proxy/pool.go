package proxy

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// entry is a single proxy endpoint with health tracking.
type entry struct {
	url           *url.URL
	failures      int
	disabledUntil time.Time
}

// Pool rotates through a set of egress proxies, sidelining ones that keep
// failing. Search engines block scraping IPs aggressively, so the pool lets
// callers spread requests across several exits.
type Pool struct {
	mu          sync.Mutex
	entries     []*entry
	next        int
	maxFailures int
	cooldown    time.Duration
}

// Config defines settings for the proxy Pool.
type Config struct {
	// MaxFailures before a proxy is sidelined.
	MaxFailures int
	// Cooldown is how long a sidelined proxy stays out of rotation.
	Cooldown time.Duration
}

// NewPool creates an empty pool. Zero config values get defaults.
func NewPool(cfg Config) *Pool {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Minute
	}
	return &Pool{
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
	}
}

// LoadFile reads proxy URLs from a file, one per line. Empty lines and lines
// starting with '#' are skipped.
func (p *Pool) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read proxy file: %w", err)
	}

	return p.Add(urls...)
}

// Add parses raw URL strings and adds them to the rotation. A missing scheme
// defaults to http.
func (p *Pool) Add(rawURLs ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, raw := range rawURLs {
		if !strings.Contains(raw, "://") {
			raw = "http://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse proxy url %q: %w", raw, err)
		}
		p.entries = append(p.entries, &entry{url: u})
	}
	return nil
}

// Next returns the next healthy proxy URL, or nil when the pool is empty or
// every proxy is cooling down.
func (p *Pool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 {
		return nil
	}

	now := time.Now()
	for i := 0; i < len(p.entries); i++ {
		e := p.entries[p.next]
		p.next = (p.next + 1) % len(p.entries)

		if !e.disabledUntil.IsZero() && now.After(e.disabledUntil) {
			e.disabledUntil = time.Time{}
			e.failures = 0
		}
		if e.disabledUntil.IsZero() {
			return e.url
		}
	}
	return nil
}

// MarkSuccess records a successful request through the given proxy.
func (p *Pool) MarkSuccess(proxyURL *url.URL) error {
	e, unlock, err := p.find(proxyURL)
	if err != nil {
		return err
	}
	defer unlock()

	if e.failures > 0 {
		e.failures--
	}
	return nil
}

// MarkFailure records a failed request. Once failures reach the configured
// maximum, the proxy is sidelined for the cooldown period.
func (p *Pool) MarkFailure(proxyURL *url.URL) error {
	e, unlock, err := p.find(proxyURL)
	if err != nil {
		return err
	}
	defer unlock()

	e.failures++
	if e.failures >= p.maxFailures {
		e.disabledUntil = time.Now().Add(p.cooldown)
	}
	return nil
}

func (p *Pool) find(u *url.URL) (*entry, func(), error) {
	if u == nil {
		return nil, nil, errors.New("proxy url cannot be nil")
	}

	p.mu.Lock()
	target := u.String()
	for _, e := range p.entries {
		if e.url.String() == target {
			return e, p.mu.Unlock, nil
		}
	}
	p.mu.Unlock()
	return nil, nil, fmt.Errorf("proxy %s not found in pool", target)
}
