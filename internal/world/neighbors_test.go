package world

import (
	"testing"

	"github.com/talgya/hexgen/internal/grid"
)

func buildGrid(t *testing.T, dims grid.MapDimensions) []Province {
	t.Helper()
	provinces := make([]Province, dims.CellCount())
	for i := range provinces {
		col, row := dims.CellCoords(uint32(i))
		provinces[i] = Province{
			ID:    ID(i),
			Col:   int32(col),
			Row:   int32(row),
			Owner: NoID,
		}
	}
	LinkNeighbors(provinces, dims)
	return provinces
}

func smallDims() grid.MapDimensions {
	d := grid.NewMapDimensions(grid.SizeSmall)
	d.Cols, d.Rows = 20, 16
	return d
}

func TestLinkNeighborsSymmetry(t *testing.T) {
	dims := smallDims()
	provinces := buildGrid(t, dims)

	for i := range provinces {
		p := &provinces[i]
		for _, nid := range p.Neighbors {
			if !nid.Valid() {
				continue
			}
			q := &provinces[nid]
			back := false
			for _, bid := range q.Neighbors {
				if bid == p.ID {
					back = true
					break
				}
			}
			if !back {
				t.Fatalf("%v has neighbor %v but not vice versa", p.ID, q.ID)
			}
		}
	}
}

func TestEdgeCellsHaveMissingNeighbors(t *testing.T) {
	dims := smallDims()
	provinces := buildGrid(t, dims)

	for i := range provinces {
		p := &provinces[i]
		onEdge := p.Col == 0 || p.Row == 0 ||
			p.Col == int32(dims.Cols)-1 || p.Row == int32(dims.Rows)-1
		n := PresentNeighbors(p)
		if onEdge && n == 6 {
			t.Errorf("edge cell (%d,%d) reports 6 neighbors", p.Col, p.Row)
		}
		if !onEdge && n != 6 {
			t.Errorf("interior cell (%d,%d) reports %d neighbors, want 6", p.Col, p.Row, n)
		}
	}
}

func TestPrecomputeNeighborIndexesIdempotent(t *testing.T) {
	dims := smallDims()
	provinces := buildGrid(t, dims)

	PrecomputeNeighborIndexes(provinces)
	first := make([][6]int32, len(provinces))
	for i := range provinces {
		first[i] = provinces[i].NeighborIndex
	}

	PrecomputeNeighborIndexes(provinces)
	for i := range provinces {
		if provinces[i].NeighborIndex != first[i] {
			t.Fatalf("province %d: index table changed on second run", i)
		}
	}

	// Every valid index must point at the province with the matching id.
	for i := range provinces {
		p := &provinces[i]
		for d, idx := range p.NeighborIndex {
			if idx < 0 {
				if p.Neighbors[d].Valid() {
					t.Fatalf("province %d dir %d: id present but index absent", i, d)
				}
				continue
			}
			if provinces[idx].ID != p.Neighbors[d] {
				t.Fatalf("province %d dir %d: index %d points at %v, want %v",
					i, d, idx, provinces[idx].ID, p.Neighbors[d])
			}
		}
	}
}

func TestTerrainRankMonotonicOnLadder(t *testing.T) {
	ladder := []TerrainType{
		TerrainOcean, TerrainBeach, TerrainGrassland, TerrainForest,
		TerrainChaparral, TerrainAlpine, TerrainTundra,
	}
	for i := 1; i < len(ladder); i++ {
		if ladder[i].Rank() <= ladder[i-1].Rank() {
			t.Errorf("rank(%v)=%d not above rank(%v)=%d",
				ladder[i], ladder[i].Rank(), ladder[i-1], ladder[i-1].Rank())
		}
	}
	if TerrainDesert.Rank() != TerrainChaparral.Rank() {
		t.Error("desert and chaparral must share a rank (rain shadow converts between them)")
	}
}
