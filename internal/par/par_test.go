package par

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestChunkSizeBalancesGranularity(t *testing.T) {
	if got := ChunkSize(0); got != 1 {
		t.Errorf("ChunkSize(0) = %d, want 1", got)
	}
	if got := ChunkSize(500); got != 500 {
		t.Errorf("small input should stay sequential: ChunkSize(500) = %d", got)
	}
	for _, n := range []int{10_000, 300_000, 900_000} {
		c := ChunkSize(n)
		if c < minChunk || c > maxChunk {
			t.Errorf("ChunkSize(%d) = %d outside [%d, %d]", n, c, minChunk, maxChunk)
		}
	}
}

func TestForEachCoversEveryIndexOnce(t *testing.T) {
	const n = 100_000
	touched := make([]int32, n)
	err := ForEach(context.Background(), n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	for i, v := range touched {
		if v != 1 {
			t.Fatalf("index %d touched %d times", i, v)
		}
	}
}

func TestForEachCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEach(ctx, 1_000_000, func(start, end int) {})
	if err == nil {
		t.Error("cancelled context should surface an error")
	}
}

func TestMapFoldOrderIndependent(t *testing.T) {
	const n = 250_000
	data := make([]int, n)
	for i := range data {
		data[i] = i % 7
	}
	want := 0
	for _, v := range data {
		want += v
	}

	for run := 0; run < 3; run++ {
		got, err := MapFold(context.Background(), n,
			func(start, end int) int {
				s := 0
				for i := start; i < end; i++ {
					s += data[i]
				}
				return s
			},
			func(a, b int) int { return a + b },
		)
		if err != nil {
			t.Fatalf("MapFold: %v", err)
		}
		if got != want {
			t.Fatalf("run %d: sum = %d, want %d", run, got, want)
		}
	}
}

func TestGuardNilSafe(t *testing.T) {
	var g *Guard
	g.Count(10)
	g.Check() // must not panic
}
