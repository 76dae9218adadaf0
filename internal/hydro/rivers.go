package hydro

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/par"
	"github.com/talgya/hexgen/internal/world"
)

// RiverParams tunes river generation. Density in [0,1] moves the flow
// accumulation threshold: 1.0 rivers form easily, 0.0 only the largest
// basins carve one.
type RiverParams struct {
	Density float64
}

// Threshold bounds. The accumulation needed for a river ranges over
// [minThreshold, minThreshold+thresholdSpan] as density goes 1 → 0.
const (
	minThreshold  = 12
	thresholdSpan = 48
)

func (p RiverParams) threshold() uint32 {
	d := p.Density
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	return uint32(minThreshold + (1-d)*thresholdSpan)
}

// BuildRivers derives the river network from the eroded, classified
// elevation field.
//
// Flow direction is the steepest-descent neighbor, ties broken by the
// lowest hex direction index so the choice never depends on evaluation
// order. Accumulation processes cells in descending elevation (ties by
// ascending id): every cell starts with 1 for itself and pushes its total
// downstream, which makes accumulation non-decreasing along every flow
// path. Cells past the threshold become river tiles; river tiles touching
// ocean become deltas.
func BuildRivers(ctx context.Context, provinces []world.Province, p RiverParams) (world.RiverSystem, error) {
	start := time.Now()
	n := len(provinces)
	guard := par.NewGuard("rivers", n)

	rs := world.RiverSystem{
		FlowAccumulation: make([]uint32, n),
		FlowDirection:    make([]world.ID, n),
	}

	// Direction pass: pure per-cell, parallel.
	err := par.ForEach(ctx, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rs.FlowDirection[i] = flowDirection(provinces, i)
		}
		guard.Count((hi - lo) * grid.NumDirections)
	})
	if err != nil {
		return world.RiverSystem{}, err
	}

	// Accumulation pass: sequential over a deterministic ordering.
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea := provinces[order[a]].Elevation
		eb := provinces[order[b]].Elevation
		if ea != eb {
			return ea > eb
		}
		return order[a] < order[b]
	})

	for i := range rs.FlowAccumulation {
		rs.FlowAccumulation[i] = 1
	}
	for _, id := range order {
		if down := rs.FlowDirection[id]; down.Valid() {
			rs.FlowAccumulation[down] += rs.FlowAccumulation[id]
		}
	}

	// Threshold pass: collect river and delta tiles in id order.
	threshold := p.threshold()
	for i := range provinces {
		prov := &provinces[i]
		if prov.Terrain.IsWater() || rs.FlowAccumulation[i] <= threshold {
			continue
		}
		id := world.ID(i)
		rs.RiverTiles = append(rs.RiverTiles, id)
		prov.Terrain = world.TerrainRiver

		guard.Count(grid.NumDirections)
		for _, ni := range prov.NeighborIndex {
			if ni >= 0 && provinces[ni].Terrain == world.TerrainOcean {
				rs.DeltaTiles = append(rs.DeltaTiles, id)
				break
			}
		}
	}
	guard.Check()

	slog.Debug("rivers built",
		"threshold", threshold,
		"river_tiles", len(rs.RiverTiles),
		"delta_tiles", len(rs.DeltaTiles),
		"elapsed", time.Since(start))
	return rs, nil
}

// flowDirection picks the steepest-descent neighbor of cell i, or NoID
// for ocean cells and local minima. On equal drops the lowest direction
// index wins.
func flowDirection(provinces []world.Province, i int) world.ID {
	p := &provinces[i]
	if p.Terrain.IsWater() {
		return world.NoID
	}

	best := world.NoID
	bestElev := p.Elevation
	for _, ni := range p.NeighborIndex {
		if ni < 0 {
			continue
		}
		if ne := provinces[ni].Elevation; ne < bestElev {
			bestElev = ne
			best = world.ID(ni)
		}
	}
	return best
}
