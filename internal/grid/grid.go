// Package grid is the single source of truth for hexagon geometry and
// world-map addressing. The map is a rectangle of flat-top hexagons in
// odd-q offset coordinates: odd columns are shifted half a hex up, and the
// six neighbor offsets differ by column parity.
package grid

import (
	"fmt"

	"github.com/talgya/hexgen/internal/fixmath"
)

// HexSize is the hexagon radius (center to corner) in world units.
const HexSize = 50.0

// Sqrt3 is √3, the fundamental hexagon spacing constant.
const Sqrt3 = 1.7320508075688772

const (
	// Corners per hexagon.
	Corners = 6

	// VerticesPerHex is center + 6 corners, the fixed vertex count each
	// cell contributes to the world mesh.
	VerticesPerHex = 7

	// TrianglesPerHex slices for the triangle fan.
	TrianglesPerHex = 6

	// IndicesPerHex is 3 indices per triangle.
	IndicesPerHex = TrianglesPerHex * 3
)

// WorldSize enumerates the supported map scales.
type WorldSize uint8

const (
	SizeSmall WorldSize = iota
	SizeMedium
	SizeLarge
)

// Cells returns the grid dimensions (columns, rows) for the size.
func (s WorldSize) Cells() (cols, rows uint32) {
	switch s {
	case SizeSmall:
		return 600, 500 // 300,000 hexagons
	case SizeMedium:
		return 800, 750 // 600,000 hexagons
	case SizeLarge:
		return 1000, 900 // 900,000 hexagons
	default:
		return 600, 500
	}
}

func (s WorldSize) String() string {
	switch s {
	case SizeSmall:
		return "Small"
	case SizeMedium:
		return "Medium"
	case SizeLarge:
		return "Large"
	default:
		return fmt.Sprintf("WorldSize(%d)", uint8(s))
	}
}

// ParseWorldSize maps a size name to its enum value.
func ParseWorldSize(name string) (WorldSize, error) {
	switch name {
	case "small", "Small":
		return SizeSmall, nil
	case "medium", "Medium":
		return SizeMedium, nil
	case "large", "Large":
		return SizeLarge, nil
	}
	return 0, fmt.Errorf("unknown world size %q", name)
}

// Bounds is the axis-aligned extent of the map in world units.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Contains reports whether the point lies inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// MapDimensions describes a concrete world grid. Derived entirely from the
// world size; never mutated after construction.
type MapDimensions struct {
	Cols    uint32
	Rows    uint32
	HexSize float64
	Bounds  Bounds
}

// NewMapDimensions builds the dimensions for a world size.
func NewMapDimensions(size WorldSize) MapDimensions {
	cols, rows := size.Cells()
	halfW := float64(cols) / 2 * HexSize * 1.5
	halfH := float64(rows) / 2 * HexSize * Sqrt3
	return MapDimensions{
		Cols:    cols,
		Rows:    rows,
		HexSize: HexSize,
		Bounds:  Bounds{MinX: -halfW, MaxX: halfW, MinY: -halfH, MaxY: halfH},
	}
}

// CellCount returns the total number of cells.
func (d MapDimensions) CellCount() int {
	return int(d.Cols) * int(d.Rows)
}

// CellID converts offset coordinates to a dense row-major id.
// Returns false when the coordinates fall outside the grid.
func (d MapDimensions) CellID(col, row int) (uint32, bool) {
	if col < 0 || row < 0 || col >= int(d.Cols) || row >= int(d.Rows) {
		return 0, false
	}
	return uint32(row)*d.Cols + uint32(col), true
}

// CellCoords is the inverse of CellID.
func (d MapDimensions) CellCoords(id uint32) (col, row int) {
	return int(id % d.Cols), int(id / d.Cols)
}

// Position returns the world-space center of the cell, with the grid
// centered on the origin. Odd columns shift half a hex up.
func (d MapDimensions) Position(col, row int) fixmath.Vec2 {
	yOffset := 0.0
	if col%2 == 1 {
		yOffset = d.HexSize * Sqrt3 / 2
	}
	return fixmath.Vec2{
		X: (float64(col) - float64(d.Cols)/2) * d.HexSize * 1.5,
		Y: (float64(row)-float64(d.Rows)/2)*d.HexSize*Sqrt3 + yOffset,
	}
}
