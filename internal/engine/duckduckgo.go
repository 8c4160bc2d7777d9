package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Sh00k-ThaD3v/hors/internal/fetch"
)

const duckDuckGoSearchURL = "https://duckduckgo.com/html?q=" + siteScope

// DuckDuckGo scrapes answer links from DuckDuckGo's HTML results page.
type DuckDuckGo struct {
	fetcher *fetch.Fetcher
	logger  *slog.Logger

	// SearchURL is the results page endpoint the query is appended to.
	SearchURL string
}

// NewDuckDuckGo creates a DuckDuckGo engine.
func NewDuckDuckGo(fetcher *fetch.Fetcher, logger *slog.Logger) *DuckDuckGo {
	if logger == nil {
		logger = slog.Default()
	}
	return &DuckDuckGo{fetcher: fetcher, logger: logger, SearchURL: duckDuckGoSearchURL}
}

// Name returns the engine name.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// SearchLinks fetches the DuckDuckGo results page for query and returns the
// answer links found on it, in page order.
func (d *DuckDuckGo) SearchLinks(ctx context.Context, query string) ([]string, error) {
	page, err := d.fetcher.Fetch(ctx, d.SearchURL+query)
	if err != nil {
		return finish(d.Name(), nil, err)
	}

	links := extractDuckDuckGoLinks(page)
	d.logger.Debug("extracted result links", "engine", d.Name(), "count", len(links))
	return finish(d.Name(), links, nil)
}

// extractDuckDuckGoLinks pulls result links out of a DuckDuckGo HTML results
// page. Result anchors carry the result__a class; their hrefs are usually
// /l/?uddg= redirect wrappers around the real URL.
func extractDuckDuckGoLinks(page string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a.result__a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if target := redirectTarget(href, "uddg"); target != "" {
			links = append(links, target)
			return
		}
		if strings.HasPrefix(href, "http") {
			links = append(links, href)
		}
	})
	return links
}
