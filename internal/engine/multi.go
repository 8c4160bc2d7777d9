package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// SearchAll runs the query against every given engine concurrently. Engines
// are ranked by their position in the slice: the first one that found links
// wins. When every engine came back empty, SearchAll returns ErrNoResult;
// when none produced links and at least one failed outright, the
// highest-ranked failure is returned.
func SearchAll(ctx context.Context, engines []Engine, query string) ([]string, error) {
	if len(engines) == 0 {
		return nil, errors.New("no search engines given")
	}

	results := make([][]string, len(engines))
	errs := make([]error, len(engines))

	g, gCtx := errgroup.WithContext(ctx)
	for i, e := range engines {
		i, e := i, e
		g.Go(func() error {
			links, err := e.SearchLinks(gCtx, query)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = links
			return nil
		})
	}
	// Workers record their own failures; Wait only synchronizes.
	_ = g.Wait()

	for i := range engines {
		if len(results[i]) > 0 {
			return results[i], nil
		}
	}
	for _, err := range errs {
		if err != nil && !errors.Is(err, ErrNoResult) {
			return nil, err
		}
	}
	return nil, ErrNoResult
}
