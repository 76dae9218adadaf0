package mesh

import (
	"context"
	"testing"

	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/world"
)

func buildProvinces(t *testing.T, cols, rows uint32) []world.Province {
	t.Helper()
	halfW := float64(cols) / 2 * grid.HexSize * 1.5
	halfH := float64(rows) / 2 * grid.HexSize * grid.Sqrt3
	dims := grid.MapDimensions{
		Cols:    cols,
		Rows:    rows,
		HexSize: grid.HexSize,
		Bounds:  grid.Bounds{MinX: -halfW, MaxX: halfW, MinY: -halfH, MaxY: halfH},
	}

	provinces := make([]world.Province, dims.CellCount())
	for i := range provinces {
		col, row := dims.CellCoords(uint32(i))
		pos := dims.Position(col, row)
		p := &provinces[i]
		p.ID = world.ID(i)
		p.Col = int32(col)
		p.Row = int32(row)
		p.X = float32(pos.X)
		p.Y = float32(pos.Y)
		p.Terrain = world.TerrainGrassland
		p.Elevation = fixmath.FromFloat(0.5)
		p.Owner = world.NoID
	}
	world.LinkNeighbors(provinces, dims)
	world.PrecomputeNeighborIndexes(provinces)
	return provinces
}

func TestBuildSizing(t *testing.T) {
	provinces := buildProvinces(t, 20, 16)
	buf, err := Build(context.Background(), provinces, &world.RiverSystem{}, SchemeTerrain)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got, want := buf.VertexCount(), len(provinces)*grid.VerticesPerHex; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	if got, want := buf.IndexCount(), len(provinces)*grid.IndicesPerHex; got != want {
		t.Errorf("index count = %d, want %d", got, want)
	}
	if buf.TexWidth*buf.TexHeight < len(provinces) {
		t.Errorf("texture %dx%d too small for %d provinces",
			buf.TexWidth, buf.TexHeight, len(provinces))
	}
}

func TestBuildEmptyWorld(t *testing.T) {
	if _, err := Build(context.Background(), nil, &world.RiverSystem{}, SchemeTerrain); err != ErrEmptyWorld {
		t.Fatalf("got %v, want ErrEmptyWorld", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	provinces := buildProvinces(t, 24, 20)
	a, err := Build(context.Background(), provinces, &world.RiverSystem{}, SchemeTerrain)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	b, err := Build(context.Background(), provinces, &world.RiverSystem{}, SchemeTerrain)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex float %d differs", i)
		}
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] {
			t.Fatalf("index %d differs", i)
		}
	}
	for i := range a.Texture {
		if a.Texture[i] != b.Texture[i] {
			t.Fatalf("texel byte %d differs", i)
		}
	}
}

func TestCellOffsetsFixed(t *testing.T) {
	provinces := buildProvinces(t, 10, 10)
	provinces[37].Elevation = fixmath.FromFloat(0.9)

	buf, err := Build(context.Background(), provinces, &world.RiverSystem{}, SchemeTerrain)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// The center vertex of province 37 sits at its fixed offset with its
	// own position and scaled elevation.
	base := 37 * grid.VerticesPerHex * 3
	if buf.Vertices[base] != provinces[37].X || buf.Vertices[base+1] != provinces[37].Y {
		t.Errorf("center vertex at wrong position: (%v, %v)", buf.Vertices[base], buf.Vertices[base+1])
	}
	wantZ := float32(provinces[37].Elevation.Float() * ElevationScale)
	if buf.Vertices[base+2] != wantZ {
		t.Errorf("center z = %v, want %v", buf.Vertices[base+2], wantZ)
	}

	// All 18 indices of the cell reference only its own 7 vertices.
	ibase := 37 * grid.IndicesPerHex
	lo := uint32(37 * grid.VerticesPerHex)
	hi := lo + grid.VerticesPerHex
	for i := ibase; i < ibase+grid.IndicesPerHex; i++ {
		if buf.Indices[i] < lo || buf.Indices[i] >= hi {
			t.Fatalf("index %d escapes the cell's vertex range: %d", i, buf.Indices[i])
		}
	}
}

func TestCornersMatchGeometry(t *testing.T) {
	provinces := buildProvinces(t, 8, 8)
	buf, err := Build(context.Background(), provinces, &world.RiverSystem{}, SchemeTerrain)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	p := &provinces[20]
	base := 20 * grid.VerticesPerHex * 3
	for c := 0; c < grid.Corners; c++ {
		dx, dy := grid.CornerOffset(c, grid.HexSize)
		o := base + (c+1)*3
		if buf.Vertices[o] != p.X+float32(dx) || buf.Vertices[o+1] != p.Y+float32(dy) {
			t.Fatalf("corner %d at (%v, %v), want (%v, %v)",
				c, buf.Vertices[o], buf.Vertices[o+1], p.X+float32(dx), p.Y+float32(dy))
		}
	}
}

func TestMineralSchemeColorsDeposits(t *testing.T) {
	provinces := buildProvinces(t, 8, 8)
	provinces[10].SetMineral(world.MineralGold, 90)

	buf, err := Build(context.Background(), provinces, &world.RiverSystem{}, SchemeMinerals)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	deposit := buf.Texture[10*4 : 10*4+4]
	barren := buf.Texture[11*4 : 11*4+4]
	if deposit[0] == barren[0] && deposit[1] == barren[1] && deposit[2] == barren[2] {
		t.Fatal("gold deposit texel matches barren land")
	}
}

func TestParseColorScheme(t *testing.T) {
	if s, ok := ParseColorScheme("minerals"); !ok || s != SchemeMinerals {
		t.Errorf("minerals: got %v, %v", s, ok)
	}
	if s, ok := ParseColorScheme(""); !ok || s != SchemeTerrain {
		t.Errorf("default: got %v, %v", s, ok)
	}
	if _, ok := ParseColorScheme("plasma"); ok {
		t.Error("unknown scheme accepted")
	}
}
