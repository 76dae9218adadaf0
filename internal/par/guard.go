//go:build hexgendebug

package par

import (
	"log/slog"
	"sync/atomic"
)

// Guard tracks operation counts against data size for one named stage and
// flags call patterns whose cost grows faster than linear in the number of
// provinces. Typical culprit: a per-cell linear search that should have
// been a precomputed index.
type Guard struct {
	stage string
	size  int64
	ops   atomic.Int64
}

// NewGuard creates a guard for a stage operating on size items.
func NewGuard(stage string, size int) *Guard {
	return &Guard{stage: stage, size: int64(size)}
}

// Count records n operations.
func (g *Guard) Count(n int) {
	if g == nil {
		return
	}
	g.ops.Add(int64(n))
}

// Exceeded reports whether the recorded operation count is past the
// linear budget by more than a small constant factor.
func (g *Guard) Exceeded() bool {
	if g == nil || g.size == 0 {
		return false
	}
	// Budget: c·n with c covering the 6-neighbor walks plus slack.
	// Anything past 64·n is growing with n, not with the constant.
	return g.ops.Load() > g.size*64
}

// Check logs a warning when the stage blew its linear budget. Call once
// when the stage completes.
func (g *Guard) Check() {
	if !g.Exceeded() {
		return
	}
	ops := g.ops.Load()
	slog.Warn("superlinear call pattern detected",
		"stage", g.stage,
		"items", g.size,
		"operations", ops,
		"ops_per_item", ops/g.size,
	)
}
