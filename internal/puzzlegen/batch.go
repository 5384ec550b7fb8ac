package puzzlegen

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// GenerateBatch runs n generations for the same input with at most
// concurrency in flight. The first failure cancels the generations still
// running; puzzles that completed before it are returned together with the
// error, in completion order.
func GenerateBatch(ctx context.Context, gen Generator, input GenerateInput, n, concurrency int) ([]*Puzzle, error) {
	if n <= 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var (
		mu  sync.Mutex
		out = make([]*Puzzle, 0, n)
	)
	for range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := gen.Generate(ctx, input)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, p)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return out, err
}
