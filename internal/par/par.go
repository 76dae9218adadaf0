// Package par provides the fork-join primitives every per-cell generation
// stage runs on: a chunk-size heuristic, a chunked ForEach/MapFold over
// disjoint index ranges, and a debug-only guard that flags superlinear
// call patterns before they reach six-figure province counts.
//
// The contract for callers: chunks receive disjoint [start,end) ranges and
// may write only to their own range of the output buffer. Stages that read
// neighbors must read from an immutable snapshot produced by the previous
// stage, never from the buffer being written.
package par

import (
	"context"
	"runtime"
	"sync"
)

const (
	// sequentialCutoff is the data size under which forking costs more
	// than it saves.
	sequentialCutoff = 1024

	// maxChunk caps chunk size for cache locality on very large inputs.
	maxChunk = 50_000

	// minChunk keeps per-task overhead amortized.
	minChunk = 256
)

// ChunkSize computes a chunk size balancing per-task overhead against
// granularity for n items on the available hardware parallelism.
func ChunkSize(n int) int {
	if n <= 0 {
		return 1
	}
	if n < sequentialCutoff {
		return n
	}
	workers := runtime.GOMAXPROCS(0)
	// Aim for a few chunks per worker so stragglers rebalance.
	chunk := n / (workers * 3)
	if chunk < minChunk {
		chunk = minChunk
	}
	if chunk > maxChunk {
		chunk = maxChunk
	}
	return chunk
}

// ForEach runs fn over [0,n) in parallel chunks. fn receives disjoint
// [start,end) ranges. Returns ctx.Err() if the context is cancelled before
// all chunks are scheduled; chunks already running finish first, so the
// output buffer is never observed mid-write by the caller.
func ForEach(ctx context.Context, n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	chunk := ChunkSize(n)
	if chunk >= n {
		fn(0, n)
		return ctx.Err()
	}

	var wg sync.WaitGroup
	cancelled := false
	for start := 0; start < n; start += chunk {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
	if cancelled {
		return ctx.Err()
	}
	return nil
}

// MapFold runs mapFn over [0,n) in parallel chunks, each chunk producing a
// partial value, then folds the partials sequentially in chunk order so
// the result does not depend on completion order.
func MapFold[T any](ctx context.Context, n int, mapFn func(start, end int) T, foldFn func(a, b T) T) (T, error) {
	var zero T
	if n <= 0 {
		return zero, nil
	}
	chunk := ChunkSize(n)
	if chunk >= n {
		return mapFn(0, n), ctx.Err()
	}

	nChunks := (n + chunk - 1) / chunk
	partials := make([]T, nChunks)
	var wg sync.WaitGroup
	for c := 0; c < nChunks; c++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		start := c * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(idx, s, e int) {
			defer wg.Done()
			partials[idx] = mapFn(s, e)
		}(c, start, end)
	}
	wg.Wait()

	acc := partials[0]
	for _, p := range partials[1:] {
		acc = foldFn(acc, p)
	}
	return acc, nil
}
