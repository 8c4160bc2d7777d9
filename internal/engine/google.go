package engine

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Sh00k-ThaD3v/hors/internal/fetch"
)

const googleSearchURL = "https://www.google.com/search?q=" + siteScope

// Google scrapes answer links from Google's results page.
type Google struct {
	fetcher *fetch.Fetcher
	logger  *slog.Logger

	// SearchURL is the results page endpoint the query is appended to.
	SearchURL string
}

// NewGoogle creates a Google engine.
func NewGoogle(fetcher *fetch.Fetcher, logger *slog.Logger) *Google {
	if logger == nil {
		logger = slog.Default()
	}
	return &Google{fetcher: fetcher, logger: logger, SearchURL: googleSearchURL}
}

// Name returns the engine name.
func (g *Google) Name() string { return "google" }

// SearchLinks fetches the Google results page for query and returns the
// answer links found on it, in page order.
func (g *Google) SearchLinks(ctx context.Context, query string) ([]string, error) {
	page, err := g.fetcher.Fetch(ctx, g.SearchURL+query)
	if err != nil {
		return finish(g.Name(), nil, err)
	}

	links := extractGoogleLinks(page)
	g.logger.Debug("extracted result links", "engine", g.Name(), "count", len(links))
	return finish(g.Name(), links, nil)
}

// extractGoogleLinks pulls organic result links out of a Google results page.
// Results sit in containers carrying the g class; the answer link is the
// anchor wrapping the h3 heading. Depending on the client profile the href is
// either direct or a /url?q= redirect, which gets unwrapped here.
func extractGoogleLinks(page string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find(".g").Find("a").Each(func(_ int, s *goquery.Selection) {
		if s.Find("h3").Length() == 0 {
			return
		}
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		switch {
		case strings.HasPrefix(href, "/url?"):
			if target := redirectTarget(href, "q"); target != "" {
				links = append(links, target)
			}
		case strings.HasPrefix(href, "http") && !strings.Contains(href, "google.com"):
			links = append(links, href)
		}
	})
	return links
}

// redirectTarget unwraps an internal redirect href and returns the value of
// the named query parameter if it is an absolute http(s) URL.
func redirectTarget(href, param string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	target := u.Query().Get(param)
	if strings.HasPrefix(target, "http") {
		return target
	}
	return ""
}
