package terrain

import (
	"context"
	"math"
	"testing"

	"github.com/talgya/hexgen/internal/compute"
	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/world"
)

func testDims(cols, rows uint32) grid.MapDimensions {
	halfW := float64(cols) / 2 * grid.HexSize * 1.5
	halfH := float64(rows) / 2 * grid.HexSize * grid.Sqrt3
	return grid.MapDimensions{
		Cols:    cols,
		Rows:    rows,
		HexSize: grid.HexSize,
		Bounds:  grid.Bounds{MinX: -halfW, MaxX: halfW, MinY: -halfH, MaxY: halfH},
	}
}

func buildTestProvinces(t *testing.T, cols, rows uint32) ([]world.Province, grid.MapDimensions) {
	t.Helper()
	dims := testDims(cols, rows)
	provinces, err := BuildProvinces(context.Background(), dims)
	if err != nil {
		t.Fatalf("build provinces: %v", err)
	}
	return provinces, dims
}

func TestBuildProvincesDense(t *testing.T) {
	provinces, dims := buildTestProvinces(t, 24, 20)
	if len(provinces) != dims.CellCount() {
		t.Fatalf("got %d provinces, want %d", len(provinces), dims.CellCount())
	}
	for i, p := range provinces {
		if int(p.ID) != i {
			t.Fatalf("province %d has id %d", i, p.ID)
		}
		if id, ok := dims.CellID(int(p.Col), int(p.Row)); !ok || id != uint32(i) {
			t.Fatalf("province %d coords (%d,%d) do not round-trip", i, p.Col, p.Row)
		}
	}
}

func TestClassificationMonotonic(t *testing.T) {
	climates := []world.ClimateType{
		world.ClimateMixed, world.ClimateArctic, world.ClimateTemperate,
		world.ClimateTropical, world.ClimateDesert,
	}
	const seaLevel = 0.45

	for _, climate := range climates {
		prevRank := -10
		for e := 0.0; e <= 1.0; e += 0.001 {
			rank := classifyOne(e, seaLevel, climate).Rank()
			if rank < prevRank {
				t.Fatalf("climate %v: rank dropped from %d to %d at elevation %.3f",
					climate, prevRank, rank, e)
			}
			prevRank = rank
		}
	}
}

func TestCoastalSmoothBounded(t *testing.T) {
	const seaLevel = 0.5
	lo := seaLevel - smoothingBand/2
	hi := seaLevel + smoothingBand/2

	if got := coastalSmooth(0.2, seaLevel); got != 0.2 {
		t.Errorf("elevation below the band changed: %v", got)
	}
	if got := coastalSmooth(0.8, seaLevel); got != 0.8 {
		t.Errorf("elevation above the band changed: %v", got)
	}
	for e := lo; e <= hi; e += smoothingBand / 16 {
		got := coastalSmooth(e, seaLevel)
		if got < lo || got > hi {
			t.Fatalf("smoothed %.4f escaped band [%.4f, %.4f]: %.4f", e, lo, hi, got)
		}
	}
}

func TestRainShadow(t *testing.T) {
	provinces, _ := buildTestProvinces(t, 10, 10)
	for i := range provinces {
		provinces[i].Terrain = world.TerrainGrassland
		provinces[i].Elevation = fixmath.FromFloat(0.1)
	}

	// Interior cell with two mountain neighbors becomes desert.
	target := &provinces[45]
	target.Terrain = world.TerrainChaparral
	provinces[target.NeighborIndex[0]].Terrain = world.TerrainAlpine
	provinces[target.NeighborIndex[1]].Terrain = world.TerrainTundra

	// Second chaparral with one mountain neighbor and no high ground stays.
	lone := &provinces[22]
	lone.Terrain = world.TerrainChaparral
	provinces[lone.NeighborIndex[0]].Terrain = world.TerrainAlpine

	// Third chaparral next to a single high-elevation neighbor converts.
	high := &provinces[71]
	high.Terrain = world.TerrainChaparral
	provinces[high.NeighborIndex[2]].Elevation = fixmath.FromFloat(0.5)

	if err := rainShadow(context.Background(), provinces); err != nil {
		t.Fatalf("rain shadow: %v", err)
	}
	if target.Terrain != world.TerrainDesert {
		t.Errorf("two mountain neighbors: got %v, want Desert", target.Terrain)
	}
	if lone.Terrain != world.TerrainChaparral {
		t.Errorf("one mountain neighbor: got %v, want Chaparral", lone.Terrain)
	}
	if high.Terrain != world.TerrainDesert {
		t.Errorf("high neighbor: got %v, want Desert", high.Terrain)
	}
}

func TestRainShadowReadsSnapshotOnly(t *testing.T) {
	// A chain of chaparral cells next to one mountain pair: only the cell
	// adjacent to the mountains converts. If the pass read its own output,
	// newly-minted deserts could never cascade anyway, but a snapshot bug
	// where Alpine writes land mid-pass would.
	provinces, _ := buildTestProvinces(t, 12, 12)
	for i := range provinces {
		provinces[i].Terrain = world.TerrainChaparral
		provinces[i].Elevation = fixmath.FromFloat(0.2)
	}

	if err := rainShadow(context.Background(), provinces); err != nil {
		t.Fatalf("rain shadow: %v", err)
	}
	for i := range provinces {
		if provinces[i].Terrain != world.TerrainChaparral {
			t.Fatalf("cell %d converted with no mountains on the map", i)
		}
	}
}

func TestFilterIslands(t *testing.T) {
	provinces, _ := buildTestProvinces(t, 20, 20)
	for i := range provinces {
		provinces[i].Terrain = world.TerrainOcean
	}

	// Three-cell islet.
	isletStart := provinces[25]
	provinces[25].Terrain = world.TerrainGrassland
	provinces[isletStart.NeighborIndex[1]].Terrain = world.TerrainGrassland
	provinces[isletStart.NeighborIndex[2]].Terrain = world.TerrainGrassland

	// A 40-cell strip, well past any minimum size.
	for i := 200; i < 240; i++ {
		provinces[i].Terrain = world.TerrainForest
	}

	sunk := FilterIslands(provinces, world.IslandsModerate)
	if sunk != 3 {
		t.Fatalf("sunk %d cells, want 3", sunk)
	}
	if provinces[25].Terrain != world.TerrainOcean {
		t.Error("islet survived the filter")
	}
	if provinces[220].Terrain != world.TerrainForest {
		t.Error("continent strip was sunk")
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	acc := compute.NewAccelerator(0)
	params := Params{
		Seed:           42,
		Dims:           testDims(48, 40),
		OceanCoverage:  0.5,
		ContinentCount: 3,
		Mountains:      world.MountainsNormal,
	}

	run := func() ([]world.Province, float64) {
		provinces, err := BuildProvinces(context.Background(), params.Dims)
		if err != nil {
			t.Fatalf("build provinces: %v", err)
		}
		sea, err := Synthesize(context.Background(), acc, params, provinces)
		if err != nil {
			t.Fatalf("synthesize: %v", err)
		}
		return provinces, sea
	}

	a, seaA := run()
	b, seaB := run()
	if seaA != seaB {
		t.Fatalf("sea level differs: %v vs %v", seaA, seaB)
	}
	for i := range a {
		if a[i].Elevation != b[i].Elevation {
			t.Fatalf("cell %d elevation differs: %v vs %v", i, a[i].Elevation, b[i].Elevation)
		}
	}
}

func TestOceanCoverageHonored(t *testing.T) {
	acc := compute.NewAccelerator(0)
	params := Params{
		Seed:           7,
		Dims:           testDims(60, 50),
		OceanCoverage:  0.6,
		ContinentCount: 2,
		Mountains:      world.MountainsNormal,
	}

	provinces, err := BuildProvinces(context.Background(), params.Dims)
	if err != nil {
		t.Fatalf("build provinces: %v", err)
	}
	sea, err := Synthesize(context.Background(), acc, params, provinces)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if err := Classify(context.Background(), provinces, sea, world.ClimateMixed); err != nil {
		t.Fatalf("classify: %v", err)
	}

	ocean := 0
	for i := range provinces {
		if provinces[i].Terrain.IsWater() {
			ocean++
		}
	}
	frac := float64(ocean) / float64(len(provinces))
	if math.Abs(frac-params.OceanCoverage) > 0.05 {
		t.Fatalf("ocean fraction %.3f outside tolerance of %.2f", frac, params.OceanCoverage)
	}
}

func TestPlaceMineralsDeterministic(t *testing.T) {
	build := func() []world.Province {
		provinces, _ := buildTestProvinces(t, 30, 30)
		for i := range provinces {
			provinces[i].Terrain = world.TerrainGrassland
		}
		PlaceMinerals(provinces, MineralParams{
			Seed:         99,
			Abundance:    world.ResourcesNormal,
			Distribution: world.MineralsClustered,
		})
		return provinces
	}

	a := build()
	b := build()
	for i := range a {
		for _, m := range world.MineralTypes() {
			if a[i].MineralAbundance(m) != b[i].MineralAbundance(m) {
				t.Fatalf("cell %d mineral %v differs between runs", i, m)
			}
		}
	}
}

func TestMineralsSkipOcean(t *testing.T) {
	provinces, _ := buildTestProvinces(t, 20, 20)
	for i := range provinces {
		provinces[i].Terrain = world.TerrainOcean
	}
	PlaceMinerals(provinces, MineralParams{
		Seed:         5,
		Abundance:    world.ResourcesRich,
		Distribution: world.MineralsEven,
	})
	for i := range provinces {
		for _, m := range world.MineralTypes() {
			if provinces[i].MineralAbundance(m) != 0 {
				t.Fatalf("ocean cell %d received %v", i, m)
			}
		}
	}
}
