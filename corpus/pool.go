package corpus

import (
	"context"
	"sync"
	"sync/atomic"
)

// parallelFor runs fn(i) for i in [0, n) on up to workers goroutines.
// Jobs are claimed in index order. The first error stops dispatch and is
// returned; a cancelled ctx stops dispatch and returns ctx.Err().
func parallelFor(ctx context.Context, workers, n int, fn func(i int) error) error {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var next int64 = -1
	var firstErr error
	var errOnce sync.Once

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				i := int(atomic.AddInt64(&next, 1))
				if i >= n {
					return
				}
				if err := fn(i); err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
