package grid

import "testing"

func TestWorldSizeTable(t *testing.T) {
	cases := []struct {
		size WorldSize
		cols uint32
		rows uint32
	}{
		{SizeSmall, 600, 500},
		{SizeMedium, 800, 750},
		{SizeLarge, 1000, 900},
	}
	for _, c := range cases {
		cols, rows := c.size.Cells()
		if cols != c.cols || rows != c.rows {
			t.Errorf("%v: got %dx%d, want %dx%d", c.size, cols, rows, c.cols, c.rows)
		}
	}
}

func TestCellIDRoundTrip(t *testing.T) {
	d := NewMapDimensions(SizeSmall)
	coords := [][2]int{{0, 0}, {599, 499}, {0, 499}, {599, 0}, {17, 231}, {300, 250}}
	for _, c := range coords {
		id, ok := d.CellID(c[0], c[1])
		if !ok {
			t.Fatalf("CellID(%d,%d) unexpectedly out of bounds", c[0], c[1])
		}
		col, row := d.CellCoords(id)
		if col != c[0] || row != c[1] {
			t.Errorf("round trip (%d,%d) -> %d -> (%d,%d)", c[0], c[1], id, col, row)
		}
	}
	if _, ok := d.CellID(-1, 0); ok {
		t.Error("negative column accepted")
	}
	if _, ok := d.CellID(600, 0); ok {
		t.Error("column past edge accepted")
	}
	if _, ok := d.CellID(0, 500); ok {
		t.Error("row past edge accepted")
	}
}

// Adjacency must be symmetric: if q is p's neighbor, p is q's neighbor.
// The parity tables are mirrors, so every offset must invert through the
// opposite parity table.
func TestNeighborSymmetry(t *testing.T) {
	d := NewMapDimensions(SizeSmall)
	// A parity-covering sample, including both edges.
	samples := [][2]int{
		{0, 0}, {1, 0}, {2, 3}, {3, 3}, {100, 100}, {101, 100},
		{599, 499}, {598, 499}, {0, 499}, {599, 0}, {250, 250}, {251, 251},
	}
	for _, s := range samples {
		for _, nc := range NeighborCoords(s[0], s[1]) {
			if _, ok := d.CellID(nc[0], nc[1]); !ok {
				continue // off-map
			}
			back := false
			for _, bc := range NeighborCoords(nc[0], nc[1]) {
				if bc[0] == s[0] && bc[1] == s[1] {
					back = true
					break
				}
			}
			if !back {
				t.Errorf("(%d,%d) lists (%d,%d) as neighbor but not vice versa",
					s[0], s[1], nc[0], nc[1])
			}
		}
	}
}

func TestNeighborParityDiffers(t *testing.T) {
	even := NeighborOffsets(2)
	odd := NeighborOffsets(3)
	if even == odd {
		t.Fatal("even and odd column offsets must differ")
	}
	// Diagonals shift by exactly one row between parities.
	for _, dir := range []Direction{DirNE, DirE, DirSW, DirW} {
		if odd[dir][1]-even[dir][1] != 1 {
			t.Errorf("direction %v: odd row delta %d, even %d; want odd = even+1",
				dir, odd[dir][1], even[dir][1])
		}
	}
	// SE and NW are parity-independent.
	for _, dir := range []Direction{DirSE, DirNW} {
		if odd[dir] != even[dir] {
			t.Errorf("direction %v should not depend on parity", dir)
		}
	}
}

func TestPositionCentersGridOnOrigin(t *testing.T) {
	d := NewMapDimensions(SizeSmall)
	lo := d.Position(0, 0)
	hi := d.Position(int(d.Cols)-1, int(d.Rows)-1)
	if lo.X >= 0 || lo.Y >= 0 {
		t.Errorf("first cell should be in the negative quadrant, got %+v", lo)
	}
	if hi.X <= 0 || hi.Y <= 0 {
		t.Errorf("last cell should be in the positive quadrant, got %+v", hi)
	}
	// Odd columns shift up by hexSize*sqrt3/2.
	a := d.Position(10, 10)
	b := d.Position(11, 10)
	if diff := b.Y - a.Y; diff < d.HexSize*Sqrt3/2-1e-9 || diff > d.HexSize*Sqrt3/2+1e-9 {
		t.Errorf("odd column y offset = %v, want %v", diff, d.HexSize*Sqrt3/2)
	}
}

func TestSpatialIndexLookups(t *testing.T) {
	d := NewMapDimensions(SizeSmall)
	idx := NewSpatialIndex(d)

	for _, c := range [][2]int{{0, 0}, {300, 250}, {599, 499}, {42, 41}} {
		want, _ := d.CellID(c[0], c[1])
		pos := d.Position(c[0], c[1])
		got, ok := idx.AtPosition(pos.X, pos.Y)
		if !ok || got != want {
			t.Errorf("AtPosition(center of %v) = %d,%v, want %d", c, got, ok, want)
		}
	}

	if _, ok := idx.AtPosition(d.Bounds.MaxX*2, 0); ok {
		t.Error("position outside bounds should not resolve")
	}
}
