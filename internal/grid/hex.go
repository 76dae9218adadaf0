package grid

import "math"

// Direction indexes the six neighbor slots of a hexagon.
// The order is fixed: it defines the tie-break priority for every
// neighbor-dependent rule (river descent, rain shadow counting).
type Direction uint8

const (
	DirNE Direction = iota
	DirE
	DirSE
	DirSW
	DirW
	DirNW
)

// NumDirections is the neighbor slot count of every hexagon.
const NumDirections = 6

func (dir Direction) String() string {
	switch dir {
	case DirNE:
		return "NE"
	case DirE:
		return "E"
	case DirSE:
		return "SE"
	case DirSW:
		return "SW"
	case DirW:
		return "W"
	case DirNW:
		return "NW"
	default:
		return "?"
	}
}

// evenColOffsets and oddColOffsets are the odd-q neighbor deltas in
// (dCol, dRow), indexed by Direction. Odd columns sit half a hex lower in
// row space, which shifts their diagonal neighbors down one row relative
// to even columns. This parity rule defines adjacency; both tables must
// stay exact mirrors of each other or symmetry breaks.
var evenColOffsets = [Corners][2]int{
	{+1, -1}, // NE
	{+1, 0},  // E
	{0, +1},  // SE
	{-1, 0},  // SW
	{-1, -1}, // W
	{0, -1},  // NW
}

var oddColOffsets = [Corners][2]int{
	{+1, 0},  // NE
	{+1, +1}, // E
	{0, +1},  // SE
	{-1, +1}, // SW
	{-1, 0},  // W
	{0, -1},  // NW
}

// NeighborOffsets returns the six (dCol, dRow) deltas for a cell in the
// given column, in Direction order.
func NeighborOffsets(col int) [Corners][2]int {
	if col%2 == 0 {
		return evenColOffsets
	}
	return oddColOffsets
}

// NeighborCoords returns the offset coordinates of the six neighbors of
// (col, row), in Direction order. Coordinates may fall outside the grid;
// bounds checking is the caller's job via MapDimensions.CellID.
func NeighborCoords(col, row int) [Corners][2]int {
	offs := NeighborOffsets(col)
	var out [Corners][2]int
	for i, o := range offs {
		out[i] = [2]int{col + o[0], row + o[1]}
	}
	return out
}

// CornerAngles are the flat-top hexagon corner angles in radians,
// starting at 0° (east) and proceeding counter-clockwise. Corners at
// fixed angles let adjacent hexagons share corner positions exactly.
var CornerAngles = [Corners]float64{
	0,
	math.Pi / 3,
	2 * math.Pi / 3,
	math.Pi,
	4 * math.Pi / 3,
	5 * math.Pi / 3,
}

// CornerOffset returns the (x, y) offset of corner i from the hex center
// for the given hex size.
func CornerOffset(i int, size float64) (float64, float64) {
	a := CornerAngles[i]
	return math.Cos(a) * size, math.Sin(a) * size
}
