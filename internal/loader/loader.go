// Package loader fetches the stories for one page of identifiers.
package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/storybrowser/internal/hn"
)

// ItemFetcher fetches a single story. Implemented by *hn.Client.
type ItemFetcher interface {
	FetchItem(ctx context.Context, id int) (hn.Story, error)
}

// Loader fetches every story on a page concurrently.
type Loader struct {
	items ItemFetcher
	limit int
}

// New creates a Loader. limit caps concurrent requests per page; a
// non-positive limit means one goroutine per identifier.
func New(items ItemFetcher, limit int) *Loader {
	return &Loader{items: items, limit: limit}
}

// LoadPage fetches the story for each identifier in page and returns them
// in page order. It waits for every request. If any request fails the whole
// call fails with the first error and no partial result; requests already
// issued still run to completion. Logging the failure is left to the caller,
// which knows the page index and request generation.
func (l *Loader) LoadPage(ctx context.Context, page []int) ([]hn.Story, error) {
	stories := make([]hn.Story, len(page))
	if len(page) == 0 {
		return stories, nil
	}

	var g errgroup.Group
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}

	for i, id := range page {
		g.Go(func() error {
			story, err := l.items.FetchItem(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch item %d: %w", id, err)
			}
			// Each goroutine owns its own index; no lock needed.
			stories[i] = story
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stories, nil
}
