package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Sh00k-ThaD3v/hors/internal/fetch"
)

const bingSearchURL = "https://www.bing.com/search?q=" + siteScope

// Bing scrapes answer links from Bing's results page.
type Bing struct {
	fetcher *fetch.Fetcher
	logger  *slog.Logger

	// SearchURL is the results page endpoint the query is appended to.
	SearchURL string
}

// NewBing creates a Bing engine.
func NewBing(fetcher *fetch.Fetcher, logger *slog.Logger) *Bing {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bing{fetcher: fetcher, logger: logger, SearchURL: bingSearchURL}
}

// Name returns the engine name.
func (b *Bing) Name() string { return "bing" }

// SearchLinks fetches the Bing results page for query and returns the answer
// links found on it, in page order. The query is appended to the search URL
// as-is; escaping beyond the scope term is left to the caller.
func (b *Bing) SearchLinks(ctx context.Context, query string) ([]string, error) {
	page, err := b.fetcher.Fetch(ctx, b.SearchURL+query)
	if err != nil {
		return finish(b.Name(), nil, err)
	}

	links := extractBingLinks(page)
	b.logger.Debug("extracted result links", "engine", b.Name(), "count", len(links))
	return finish(b.Name(), links, nil)
}

// extractBingLinks pulls organic result links out of a Bing results page.
// Each result sits in a container carrying the b_algo class with the answer
// link inside an h2 heading. Anchors without an href are skipped.
func extractBingLinks(page string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find(".b_algo").Find("h2").Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}
