// Command hexgen generates a hexagonal world from a seed and reports
// progress milestones. It can persist the result to a sqlite database
// and serve progress to loading screens over websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexgen/internal/diag"
	"github.com/talgya/hexgen/internal/export"
	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/mesh"
	"github.com/talgya/hexgen/internal/world"
	"github.com/talgya/hexgen/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		seed        = flag.Uint("seed", 42, "generation seed (u32)")
		size        = flag.String("size", "medium", "world size: small, medium, large")
		presetName  = flag.String("preset", "", "builtin preset name (see -list-presets)")
		presetFile  = flag.String("preset-file", "", "path to a yaml preset file")
		ocean       = flag.Float64("ocean", 0.55, "target ocean coverage fraction")
		rivers      = flag.Float64("rivers", 0.5, "river density in [0, 1]")
		continents  = flag.Int("continents", 4, "landmass seed count")
		scheme      = flag.String("scheme", "terrain", "texture color scheme: terrain, minerals")
		exportPath  = flag.String("export", "", "save the world to a sqlite database at this path")
		servePort   = flag.Int("serve", 0, "serve progress and capability on this port (0 = off)")
		listPresets = flag.Bool("list-presets", false, "print builtin preset names and exit")
	)
	flag.Parse()

	if *listPresets {
		for _, name := range worldgen.PresetNames() {
			fmt.Println(name)
		}
		return
	}

	seed32, err := parseSeed(*seed)
	if err != nil {
		slog.Error("settings", "error", err)
		os.Exit(1)
	}

	settings, err := buildSettings(seed32, *presetName, *presetFile)
	if err != nil {
		slog.Error("settings", "error", err)
		os.Exit(1)
	}

	// Flags given explicitly override whatever the preset chose.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			s, err := grid.ParseWorldSize(*size)
			if err != nil {
				slog.Error("settings", "error", err)
				os.Exit(1)
			}
			settings.Size = s
		case "ocean":
			settings.OceanCoverage = *ocean
		case "rivers":
			settings.RiverDensity = *rivers
		case "continents":
			settings.Continents = *continents
		case "scheme":
			cs, ok := mesh.ParseColorScheme(*scheme)
			if !ok {
				slog.Error("settings", "error", fmt.Sprintf("unknown color scheme %q", *scheme))
				os.Exit(1)
			}
			settings.Scheme = cs
		}
	})

	if err := settings.Validate(); err != nil {
		slog.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	capability := worldgen.Capability()
	slog.Info("compute capability",
		"status", capability.Status,
		"backend", capability.Backend,
		"reason", capability.Reason,
	)

	var server *diag.Server
	if *servePort > 0 {
		server = diag.NewServer(*servePort)
		server.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cols, rows := settings.Size.Cells()
	slog.Info("generating world",
		"seed", settings.Seed,
		"size", settings.Size,
		"cells", humanize.Comma(int64(cols)*int64(rows)),
		"ocean", settings.OceanCoverage,
	)

	var result *world.World
	for p := range worldgen.Generate(ctx, settings) {
		if server != nil {
			server.Publish(p)
		}
		if p.Err != nil {
			slog.Error("generation failed", "step", p.Step, "error", p.Err)
			os.Exit(1)
		}
		slog.Info("milestone", "step", p.Step, "fraction", fmt.Sprintf("%.2f", p.Fraction))
		if p.Completed {
			result = p.World
		}
	}
	if result == nil {
		slog.Info("generation cancelled")
		return
	}

	reportWorld(result)

	if *exportPath != "" {
		if err := saveWorld(*exportPath, result); err != nil {
			slog.Error("export failed", "error", err)
			os.Exit(1)
		}
	}

	if server != nil {
		fmt.Printf("Serving progress on http://localhost:%d/api/v1/capability (Ctrl+C to stop)\n", *servePort)
		<-ctx.Done()
	}
}

// parseSeed rejects values a uint32 seed cannot hold; worlds are keyed by
// the 32-bit seed, so silent truncation would generate a different world
// than the one asked for.
func parseSeed(v uint) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("seed %d exceeds the 32-bit seed range", v)
	}
	return uint32(v), nil
}

func buildSettings(seed uint32, presetName, presetFile string) (worldgen.Settings, error) {
	switch {
	case presetName != "" && presetFile != "":
		return worldgen.Settings{}, fmt.Errorf("-preset and -preset-file are mutually exclusive")
	case presetName != "":
		p, ok := worldgen.LookupPreset(presetName)
		if !ok {
			return worldgen.Settings{}, fmt.Errorf("unknown preset %q", presetName)
		}
		return p.Settings(seed)
	case presetFile != "":
		p, err := worldgen.LoadPresetFile(presetFile)
		if err != nil {
			return worldgen.Settings{}, err
		}
		return p.Settings(seed)
	default:
		return worldgen.DefaultSettings(seed), nil
	}
}

func reportWorld(w *world.World) {
	land := 0
	for i := range w.Provinces {
		if w.Provinces[i].Terrain != world.TerrainOcean {
			land++
		}
	}
	slog.Info("world ready",
		"provinces", humanize.Comma(int64(len(w.Provinces))),
		"land", humanize.Comma(int64(land)),
		"river_tiles", len(w.Rivers.RiverTiles),
		"delta_tiles", len(w.Rivers.DeltaTiles),
		"vertices", humanize.Comma(int64(len(w.Mesh.Vertices)/3)),
		"indices", humanize.Comma(int64(len(w.Mesh.Indices))),
		"texture", humanize.Bytes(uint64(len(w.Mesh.Texture))),
	)
}

func saveWorld(path string, w *world.World) error {
	db, err := export.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveWorld(w)
	if err != nil {
		return err
	}
	slog.Info("world saved", "path", path, "run_id", runID)
	return nil
}
