package grid

import "github.com/talgya/hexgen/internal/fixmath"

// SpatialIndex provides O(1) lookups between world positions, offset
// coordinates, and dense cell ids. It is pure arithmetic over the map
// dimensions, with no per-cell storage, so it is derived once from the
// dimensions and never mutated.
type SpatialIndex struct {
	dims MapDimensions
}

// NewSpatialIndex builds the index for the given dimensions.
func NewSpatialIndex(dims MapDimensions) SpatialIndex {
	return SpatialIndex{dims: dims}
}

// Dims returns the map dimensions the index was built from.
func (s SpatialIndex) Dims() MapDimensions { return s.dims }

// Bounds returns the world bounds.
func (s SpatialIndex) Bounds() Bounds { return s.dims.Bounds }

// AtGrid returns the id of the cell at offset coordinates, if in bounds.
func (s SpatialIndex) AtGrid(col, row int) (uint32, bool) {
	return s.dims.CellID(col, row)
}

// AtPosition returns the id of the cell whose center is nearest the world
// position, if the position lies within bounds. The candidate column comes
// straight from the x spacing; the hex actually containing the point is
// one of the 3x3 neighborhood, resolved by nearest center.
func (s SpatialIndex) AtPosition(x, y float64) (uint32, bool) {
	if !s.dims.Bounds.Contains(x, y) {
		return 0, false
	}
	p := fixmath.Vec2{X: x, Y: y}
	colGuess := int(x/(s.dims.HexSize*1.5) + float64(s.dims.Cols)/2)
	rowGuess := int(y/(s.dims.HexSize*Sqrt3) + float64(s.dims.Rows)/2)

	best := uint32(0)
	bestDist := -1.0
	found := false
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			col, row := colGuess+dc, rowGuess+dr
			id, ok := s.dims.CellID(col, row)
			if !ok {
				continue
			}
			d := s.dims.Position(col, row).Dist(p)
			if !found || d < bestDist {
				best, bestDist, found = id, d, true
			}
		}
	}
	return best, found
}
