package mafia

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEach runs fn for indexes 0..n-1. With one worker the calls run in
// order; otherwise up to Workers run at once and anything they log lands in
// completion order. The first error cancels the rest.
func (e *Engine) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if e.opts.Workers <= 1 || n <= 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
