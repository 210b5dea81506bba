// Package importer bulk-loads popular movies from TMDB into the local
// store. It runs independently of the serving path and shares only the
// movies table with it.
package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go/v4"

	"reelbase/models"
)

const (
	// pageAttempts is how many times one page is tried before it is skipped.
	pageAttempts = 3
	// retryDelay is the fixed backoff between attempts for the same page.
	retryDelay = 3 * time.Second
	// pageDelay is the pause between successful pages, kind to TMDB rate limits.
	pageDelay = 1200 * time.Millisecond
)

type popularLister interface {
	ListPopular(ctx context.Context, page int) ([]models.Movie, error)
}

type movieInserter interface {
	InsertIfAbsent(m models.Movie) error
	Count() (int64, error)
}

// Importer pages through TMDB's popular movies and appends them to the
// store. Failed pages are retried a fixed number of times, then skipped;
// partial progress is expected and fine.
type Importer struct {
	provider popularLister
	store    movieInserter

	// Overridable in tests.
	retryDelay time.Duration
	pageDelay  time.Duration
}

// New creates an importer over the provider and store.
func New(provider popularLister, store movieInserter) *Importer {
	return &Importer{
		provider:   provider,
		store:      store,
		retryDelay: retryDelay,
		pageDelay:  pageDelay,
	}
}

// Run imports pages startPage through endPage inclusive. It returns an
// error only for invalid arguments or context cancellation; per-page
// failures are logged and skipped.
func (imp *Importer) Run(ctx context.Context, startPage, endPage int) error {
	if startPage < 1 || endPage < startPage {
		return fmt.Errorf("invalid page range %d-%d", startPage, endPage)
	}

	log.Printf("[importer] starting bulk import pages %d-%d", startPage, endPage)
	imported := 0
	skipped := 0

	for page := startPage; page <= endPage; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var movies []models.Movie
		err := retry.Do(
			func() error {
				var err error
				movies, err = imp.provider.ListPopular(ctx, page)
				return err
			},
			retry.Context(ctx),
			retry.Attempts(pageAttempts),
			retry.Delay(imp.retryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(attempt uint, err error) {
				log.Printf("[importer] page %d attempt %d failed: %v", page, attempt+1, err)
			}),
		)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[importer] skipping page %d after %d attempts: %v", page, pageAttempts, err)
			skipped++
			continue
		}

		for _, m := range movies {
			if err := imp.store.InsertIfAbsent(m); err != nil {
				log.Printf("[importer] insert movie %d failed: %v", m.ID, err)
				continue
			}
			imported++
		}

		if page < endPage {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(imp.pageDelay):
			}
		}
	}

	total, err := imp.store.Count()
	if err != nil {
		log.Printf("[importer] count after import failed: %v", err)
	}
	log.Printf("[importer] done: %d rows inserted, %d pages skipped, %d rows total", imported, skipped, total)
	return nil
}
