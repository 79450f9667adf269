package articlequery

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchChecked runs check and fetch concurrently and returns fetch's result
// only when both succeed. The first failure cancels the shared context and is
// returned; the other branch's outcome is discarded.
func FetchChecked[T any](ctx context.Context, check func(context.Context) error, fetch func(context.Context) (T, error)) (T, error) {
	g, gctx := errgroup.WithContext(ctx)

	var result T
	g.Go(func() error {
		return check(gctx)
	})
	g.Go(func() error {
		v, err := fetch(gctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})

	if err := g.Wait(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
