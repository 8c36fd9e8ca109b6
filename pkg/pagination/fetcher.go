package pagination

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

// Config holds fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests.
	MaxConcurrency int
}

// DefaultConfig returns a safe default configuration. 8 workers keeps the
// fan-out well below what the upstream tolerates.
func DefaultConfig() Config {
	return Config{MaxConcurrency: 8}
}

// PageFunc fetches a single page of a paginated resource.
type PageFunc[T any] func(ctx context.Context, page int) (*lodestone.Page[T], error)

// Result is the merged outcome of a multi-page fetch.
type Result[T any] struct {
	// Items holds all merged items, ordered by ascending page number.
	Items []T

	// TotalPages as reported by page 1.
	TotalPages int

	// FailedPages lists pages whose fetch failed and contributed nothing.
	FailedPages []int
}

// Partial reports whether some pages were dropped from the merge.
func (r *Result[T]) Partial() bool {
	return len(r.FailedPages) > 0
}

// FetchAll fetches every page of a paginated resource.
//
// Page 1 is fetched synchronously; its error is returned as-is so callers
// can map ErrPrivate/ErrNotFound to a section outcome without any further
// pages being attempted. Remaining pages are fetched through a bounded
// worker pool and merged strictly by page number regardless of completion
// order. A failed page is dropped from the merge, never aborting the
// section; all issued fetches are awaited.
func FetchAll[T any](ctx context.Context, cfg Config, fetch PageFunc[T]) (*Result[T], error) {
	start := time.Now()

	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultConfig().MaxConcurrency
	}

	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, err
	}

	totalPages := first.Pagination.PageTotal
	if totalPages < 1 {
		totalPages = 1
	}

	if totalPages == 1 {
		return &Result[T]{Items: first.Results, TotalPages: 1}, nil
	}

	// An empty first page with more pages reported is an inconsistent
	// upstream state; the remaining pages are still fetched.
	pages := make([][]T, totalPages+1)
	pages[1] = first.Results

	pageQueue := make(chan int, totalPages)
	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	workers := cfg.MaxConcurrency
	if remaining := totalPages - 1; workers > remaining {
		workers = remaining
	}

	var mu sync.Mutex
	var failed []int
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range pageQueue {
				result, err := fetch(ctx, page)

				mu.Lock()
				if err != nil {
					failed = append(failed, page)
				} else {
					pages[page] = result.Results
				}
				mu.Unlock()

				if err != nil {
					log.Warn().
						Err(err).
						Int("page", page).
						Msg("Page fetch failed, dropping from merge")
				}
			}
		}()
	}

	wg.Wait()

	result := &Result[T]{TotalPages: totalPages}
	for page := 1; page <= totalPages; page++ {
		result.Items = append(result.Items, pages[page]...)
	}

	sort.Ints(failed)
	result.FailedPages = failed

	log.Debug().
		Int("total_pages", totalPages).
		Int("failed_pages", len(failed)).
		Int("items", len(result.Items)).
		Dur("duration", time.Since(start)).
		Msg("Paginated fetch complete")

	return result, nil
}
