// Package parallel contains bounded concurrency primitives used by dataset loading and feature extraction.
package parallel

import "context"
import "runtime"

import "github.com/klauspost/cpuid/v2"
import "golang.org/x/sync/errgroup"

// Limit returns the default number of goroutines: the logical core count reported by cpuid,
// or runtime.NumCPU when cpuid couldn't detect it.
func Limit() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach executes body for every integer from 0 to length with at most limit concurrent
// goroutines. The first error cancels ctx for the remaining calls and is returned.
func ForEach(ctx context.Context, length, limit int, body func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = Limit()
	}
	if length <= 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < length; i++ {
		i := i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return body(ctx, i)
		})
	}
	return g.Wait()
}

// Chunks splits [0, length) into at most limit contiguous ranges and runs body on each range
// concurrently. It suits cheap per-row work where one goroutine per row would dominate.
func Chunks(ctx context.Context, length, limit int, body func(from, to int) error) error {
	if limit <= 0 {
		limit = Limit()
	}
	if length <= 0 {
		return nil
	}
	if limit > length {
		limit = length
	}
	size := (length + limit - 1) / limit
	return ForEach(ctx, limit, limit, func(ctx context.Context, n int) error {
		from := n * size
		to := from + size
		if to > length {
			to = length
		}
		if from >= to {
			return nil
		}
		return body(from, to)
	})
}

// CPU describes the processor for the training log
func CPU() string {
	return cpuid.CPU.BrandName
}
