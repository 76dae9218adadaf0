package world

import "github.com/talgya/hexgen/internal/grid"

// LinkNeighbors fills every province's Neighbors array from the grid
// adjacency rule. Edge cells get NoID in the off-map slots.
func LinkNeighbors(provinces []Province, dims grid.MapDimensions) {
	for i := range provinces {
		p := &provinces[i]
		coords := grid.NeighborCoords(int(p.Col), int(p.Row))
		for d, c := range coords {
			if id, ok := dims.CellID(c[0], c[1]); ok {
				p.Neighbors[d] = ID(id)
			} else {
				p.Neighbors[d] = NoID
			}
		}
	}
}

// PrecomputeNeighborIndexes converts each province's neighbor ids into
// direct array indices so later per-cell stages traverse the graph without
// map lookups. Ids are dense and equal to slice indices, so this is a
// straight copy with bounds checking. Idempotent: running it twice yields
// an identical table.
func PrecomputeNeighborIndexes(provinces []Province) {
	n := len(provinces)
	for i := range provinces {
		p := &provinces[i]
		for d, id := range p.Neighbors {
			if id.Valid() && int(id) < n {
				p.NeighborIndex[d] = int32(id)
			} else {
				p.NeighborIndex[d] = -1
			}
		}
	}
}

// PresentNeighbors counts the non-edge neighbor slots of a province.
func PresentNeighbors(p *Province) int {
	n := 0
	for _, id := range p.Neighbors {
		if id.Valid() {
			n++
		}
	}
	return n
}
