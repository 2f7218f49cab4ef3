// Package workpool maps a worker over an ordered slice with bounded concurrency.
package workpool

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hochfrequenz/acc/internal/domain"
)

// Worker processes one item; index is the item's position in the input
type Worker[T, R any] func(ctx context.Context, item T, index int) (R, error)

// Map runs worker over items with at most limit items in flight. results[i]
// is always the output for items[i], whatever the completion order.
//
// min(limit, len(items)) goroutines share one cursor and each claims the
// lowest unclaimed index until the range is exhausted. The first error
// cancels ctx for the other workers, stops further claims and is returned.
func Map[T, R any](ctx context.Context, items []T, limit int, worker Worker[T, R]) ([]R, error) {
	if limit <= 0 {
		return nil, &domain.ConfigurationError{Message: fmt.Sprintf("concurrency must be greater than 0, got %d", limit)}
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	var cursor atomic.Int64

	workers := min(limit, len(items))
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				index := int(cursor.Add(1) - 1)
				if index >= len(items) {
					return nil
				}
				result, err := worker(ctx, items[index], index)
				if err != nil {
					return err
				}
				results[index] = result
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
