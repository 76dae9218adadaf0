package terrain

import (
	"log/slog"

	"github.com/talgya/hexgen/internal/world"
)

// FilterIslands floods every connected land component and sinks the ones
// smaller than the frequency setting's minimum landmass size back into
// ocean. Runs sequentially: a single O(n) BFS over the whole map, and the
// result must not depend on which worker reaches a component first.
func FilterIslands(provinces []world.Province, freq world.IslandFrequency) int {
	minSize := freq.MinLandmassSize()
	if minSize <= 1 {
		return 0
	}

	visited := make([]bool, len(provinces))
	queue := make([]int32, 0, 1024)
	component := make([]int32, 0, 1024)
	sunk := 0

	for start := range provinces {
		if visited[start] || provinces[start].Terrain.IsWater() {
			continue
		}

		queue = append(queue[:0], int32(start))
		component = component[:0]
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			component = append(component, cur)
			for _, ni := range provinces[cur].NeighborIndex {
				if ni < 0 || visited[ni] || provinces[ni].Terrain.IsWater() {
					continue
				}
				visited[ni] = true
				queue = append(queue, ni)
			}
		}

		if len(component) < minSize {
			for _, id := range component {
				provinces[id].Terrain = world.TerrainOcean
			}
			sunk += len(component)
		}
	}

	if sunk > 0 {
		slog.Debug("small islands removed", "cells", sunk, "min_size", minSize)
	}
	return sunk
}
