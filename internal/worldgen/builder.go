package worldgen

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexgen/internal/compute"
	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/hydro"
	"github.com/talgya/hexgen/internal/mesh"
	"github.com/talgya/hexgen/internal/terrain"
	"github.com/talgya/hexgen/internal/world"
)

// gpuTimeout bounds one GPU dispatch before the CPU fallback takes over.
const gpuTimeout = 30 * time.Second

// Generate runs the full pipeline in a background goroutine and returns
// the progress stream. The channel closes after the terminal event, or
// without one if ctx is cancelled; a cancelled run never emits a World or
// an error, it just stops and lets its buffers go.
func Generate(ctx context.Context, s Settings) <-chan Progress {
	ch := make(chan Progress, 8)
	go func() {
		defer close(ch)
		run(ctx, s, ch)
	}()
	return ch
}

func run(ctx context.Context, s Settings, ch chan<- Progress) {
	var timings []StageTiming
	stageStart := time.Now()

	emit := func(step string, frac float64) bool {
		timings = append(timings, StageTiming{Stage: step, Elapsed: time.Since(stageStart)})
		stageStart = time.Now()
		if ctx.Err() != nil {
			return false
		}
		select {
		case ch <- Progress{Step: step, Fraction: frac}:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(stage string, err error) {
		if ctx.Err() != nil {
			return // cancellation is not an error event
		}
		slog.Error("generation failed", "stage", stage, "error", err)
		gerr := &GenerationError{Stage: stage, Err: err, Timings: timings}
		select {
		case ch <- Progress{Step: stage, Err: gerr}:
		case <-ctx.Done():
		}
	}

	if err := s.Validate(); err != nil {
		fail("settings", err)
		return
	}

	start := time.Now()
	dims := grid.NewMapDimensions(s.Size)
	slog.Info("generation started",
		"seed", s.Seed, "size", s.Size.String(),
		"cells", humanize.Comma(int64(dims.CellCount())))

	// Provinces: dense array, neighbor graph, precomputed indices.
	provinces, err := terrain.BuildProvinces(ctx, dims)
	if err != nil {
		fail(StepProvinces, err)
		return
	}
	if !emit(StepProvinces, fracProvinces) {
		return
	}

	// Elevation synthesis and erosion.
	acc := compute.NewAccelerator(gpuTimeout)
	seaLevel, err := terrain.Synthesize(ctx, acc, terrain.Params{
		Seed:           s.Seed,
		Dims:           dims,
		OceanCoverage:  s.OceanCoverage,
		ContinentCount: s.Continents,
		Mountains:      s.Mountains,
	}, provinces)
	if err != nil {
		fail(StepErosion, err)
		return
	}
	if err := hydro.Erode(ctx, provinces, hydro.DefaultErosion()); err != nil {
		fail(StepErosion, err)
		return
	}
	if !emit(StepErosion, fracErosion) {
		return
	}

	// Climate: classification ladder, rain shadow, island filter.
	if err := terrain.Classify(ctx, provinces, seaLevel, s.Climate); err != nil {
		fail(StepClimate, err)
		return
	}
	terrain.FilterIslands(provinces, s.Islands)
	if !emit(StepClimate, fracClimate) {
		return
	}

	// Hydrology: ocean depth shaping, then the river network.
	hydro.ShapeOceanDepths(provinces)
	rivers, err := hydro.BuildRivers(ctx, provinces, hydro.RiverParams{Density: s.RiverDensity})
	if err != nil {
		fail(StepRivers, err)
		return
	}
	if !emit(StepRivers, fracRivers) {
		return
	}

	// Mesh geometry. The texture painted here reflects terrain only;
	// the overlay pass below repaints it once minerals exist.
	meshBuf, err := mesh.Build(ctx, provinces, &rivers, mesh.SchemeTerrain)
	if err != nil {
		fail(StepMesh, err)
		return
	}
	if !emit(StepMesh, fracMesh) {
		return
	}

	// Entities: mineral deposits.
	terrain.PlaceMinerals(provinces, terrain.MineralParams{
		Seed:         s.Seed,
		Abundance:    s.Resources,
		Distribution: s.Distribution,
	})
	if !emit(StepEntities, fracEntities) {
		return
	}

	// Overlays: repaint the texture with the requested scheme now that
	// every province attribute is final.
	if err := mesh.PaintTexture(ctx, meshBuf, provinces, &rivers, s.Scheme); err != nil {
		fail(StepOverlays, err)
		return
	}
	if !emit(StepOverlays, fracOverlays) {
		return
	}

	w := &world.World{
		Provinces: provinces,
		Rivers:    rivers,
		Index:     grid.NewSpatialIndex(dims),
		Dims:      dims,
		Mesh:      meshBuf,
		Seed:      s.Seed,
	}

	slog.Info("generation complete",
		"seed", s.Seed,
		"provinces", humanize.Comma(int64(len(w.Provinces))),
		"rivers", len(w.Rivers.RiverTiles),
		"backend", acc.BackendName(),
		"elapsed", time.Since(start))

	if ctx.Err() != nil {
		return
	}
	select {
	case ch <- Progress{Step: StepComplete, Fraction: fracComplete, Completed: true, World: w}:
	case <-ctx.Done():
	}
}

// Capability reports the compute probe result for settings/diagnostic
// surfaces without starting a run.
func Capability() compute.Capability {
	return compute.Probe()
}
