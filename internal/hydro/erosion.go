// Package hydro is the hydraulic processor: iterative erosion smoothing
// over the elevation field, ocean depth shaping, and river generation by
// flow accumulation. Every sub-stage reads only the previous stage's
// complete snapshot, which is what keeps the output independent of chunk
// scheduling.
package hydro

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/par"
	"github.com/talgya/hexgen/internal/world"
)

// ErosionParams tunes the smoothing stage.
type ErosionParams struct {
	// Iterations is the number of full-field smoothing passes.
	Iterations int

	// Rate is the fraction of the gap toward the neighbor average closed
	// per iteration, in (0, 1].
	Rate float64
}

// DefaultErosion gives gentle smoothing that rounds noise spikes without
// flattening mountain ranges.
func DefaultErosion() ErosionParams {
	return ErosionParams{Iterations: 3, Rate: 0.25}
}

// Erode runs the smoothing iterations over the provinces' elevations.
// Each iteration nudges every cell toward the slope-weighted average of
// its neighbors, computed entirely from the previous iteration's buffer:
// two buffers alternate, and no cell ever reads a value written in the
// same iteration.
func Erode(ctx context.Context, provinces []world.Province, p ErosionParams) error {
	if p.Iterations <= 0 {
		return nil
	}
	start := time.Now()

	n := len(provinces)
	cur := make([]float64, n)
	next := make([]float64, n)
	for i := range provinces {
		cur[i] = provinces[i].Elevation.Float()
	}

	for it := 0; it < p.Iterations; it++ {
		err := par.ForEach(ctx, n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				next[i] = erodeCell(cur, &provinces[i], p.Rate)
			}
		})
		if err != nil {
			return err
		}
		cur, next = next, cur
	}

	err := par.ForEach(ctx, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			provinces[i].Elevation = fixmath.FromFloat(cur[i])
		}
	})
	if err != nil {
		return err
	}

	slog.Debug("erosion complete",
		"iterations", p.Iterations, "rate", p.Rate, "elapsed", time.Since(start))
	return nil
}

// erodeCell computes one cell's next elevation. Neighbors are weighted by
// slope magnitude, so steep faces erode faster than gentle ones; a cell
// whose neighborhood is flat keeps its value exactly.
func erodeCell(cur []float64, p *world.Province, rate float64) float64 {
	e := cur[p.ID]
	weightSum := 0.0
	weighted := 0.0
	for _, ni := range p.NeighborIndex {
		if ni < 0 {
			continue
		}
		ne := cur[ni]
		w := ne - e
		if w < 0 {
			w = -w
		}
		weightSum += w
		weighted += w * ne
	}
	if weightSum == 0 {
		return e
	}
	avg := weighted / weightSum
	return e + rate*(avg-e)
}
