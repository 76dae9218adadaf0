package hydro

import (
	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/world"
)

const (
	// shelfWidth is how many rings from the coast keep their shallow
	// post-classification elevation.
	shelfWidth = 2

	// depthStep lowers each ring past the shelf by this much, down to the
	// floor below.
	depthStep  = 0.04
	depthFloor = 0.0
)

// ShapeOceanDepths deepens ocean cells with distance from the coast: a
// shallow continental shelf, then a slope stepping down toward abyssal
// floor. A single BFS from all coastal ocean cells at once gives every
// cell its ring distance; expansion order within a ring cannot change the
// assigned ring, so the result is deterministic.
func ShapeOceanDepths(provinces []world.Province) {
	n := len(provinces)
	dist := make([]int32, n)
	for i := range dist {
		dist[i] = -1
	}

	// Seed the frontier with ocean cells touching land, in id order.
	queue := make([]int32, 0, n/8)
	for i := range provinces {
		p := &provinces[i]
		if !p.Terrain.IsWater() {
			continue
		}
		for _, ni := range p.NeighborIndex {
			if ni >= 0 && !provinces[ni].Terrain.IsWater() {
				dist[i] = 0
				queue = append(queue, int32(i))
				break
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, ni := range provinces[cur].NeighborIndex {
			if ni < 0 || dist[ni] >= 0 || !provinces[ni].Terrain.IsWater() {
				continue
			}
			dist[ni] = dist[cur] + 1
			queue = append(queue, ni)
		}
	}

	for i := range provinces {
		d := dist[i]
		if d < 0 || d <= shelfWidth {
			continue // land, shelf, or landlocked sea with no coast
		}
		e := provinces[i].Elevation.Float() - float64(d-shelfWidth)*depthStep
		if e < depthFloor {
			e = depthFloor
		}
		provinces[i].Elevation = fixmath.FromFloat(e)
	}
}
