package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Sh00k-ThaD3v/hors/internal/fetch"
	"github.com/Sh00k-ThaD3v/hors/internal/metrics"
)

// ErrNoResult is returned when a results page came back but no answer links
// could be extracted from it.
var ErrNoResult = errors.New("can't find search result")

// Engine turns a user query into an ordered list of answer-page links
// scraped from one search engine's results page.
type Engine interface {
	Name() string
	SearchLinks(ctx context.Context, query string) ([]string, error)
}

// siteScope restricts every query to Stack Overflow results. The trailing
// %20 separates the scope term from the query inside the q parameter.
const siteScope = "site:stackoverflow.com%20"

var constructors = map[string]func(*fetch.Fetcher, *slog.Logger) Engine{
	"bing":       func(f *fetch.Fetcher, l *slog.Logger) Engine { return NewBing(f, l) },
	"google":     func(f *fetch.Fetcher, l *slog.Logger) Engine { return NewGoogle(f, l) },
	"duckduckgo": func(f *fetch.Fetcher, l *slog.Logger) Engine { return NewDuckDuckGo(f, l) },
}

// New constructs the named engine. A nil fetcher or logger gets defaults.
func New(name string, fetcher *fetch.Fetcher, logger *slog.Logger) (Engine, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown search engine %q (available: %v)", name, Names())
	}
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		fetcher = fetch.New(fetch.Config{}, logger)
	}
	return ctor(fetcher, logger), nil
}

// Names lists the available engines in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// finish maps an engine's raw outcome onto the caller-facing contract: fetch
// errors propagate unchanged, an empty extraction becomes ErrNoResult, and
// the search metric is counted either way.
func finish(engine string, links []string, err error) ([]string, error) {
	switch {
	case err != nil:
		metrics.RecordSearch(engine, metrics.OutcomeError)
		return nil, err
	case len(links) == 0:
		metrics.RecordSearch(engine, metrics.OutcomeEmpty)
		return nil, ErrNoResult
	default:
		metrics.RecordSearch(engine, metrics.OutcomeOK)
		return links, nil
	}
}
