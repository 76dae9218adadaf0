// Package worldgen orchestrates world generation: it validates settings,
// sequences the terrain, hydrology, classification, and mesh stages, and
// streams progress milestones to the caller over a channel.
package worldgen

import (
	"fmt"

	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/mesh"
	"github.com/talgya/hexgen/internal/world"
)

// Settings is the complete input to a generation run. Identical Settings
// produce a bit-identical province array.
type Settings struct {
	Seed uint32
	Size grid.WorldSize

	Climate      world.ClimateType
	Islands      world.IslandFrequency
	Mountains    world.MountainDensity
	Resources    world.ResourceAbundance
	Distribution world.MineralDistribution

	// OceanCoverage is the target fraction of underwater provinces,
	// in [0.05, 0.95].
	OceanCoverage float64

	// RiverDensity in [0, 1] controls how readily rivers form.
	RiverDensity float64

	// Continents is the landmass seed count, in [1, 100].
	Continents int

	// Scheme selects the mesh texture coloring.
	Scheme mesh.ColorScheme
}

// DefaultSettings is the balanced medium world used when the caller gives
// no preset.
func DefaultSettings(seed uint32) Settings {
	return Settings{
		Seed:          seed,
		Size:          grid.SizeMedium,
		Climate:       world.ClimateMixed,
		Islands:       world.IslandsModerate,
		Mountains:     world.MountainsNormal,
		Resources:     world.ResourcesNormal,
		Distribution:  world.MineralsClustered,
		OceanCoverage: 0.55,
		RiverDensity:  0.5,
		Continents:    4,
	}
}

// ValidationError names the offending field so settings UIs can point at
// the right control.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid setting %s: %s", e.Field, e.Reason)
}

// Validate checks the constrained ranges. Returns the first violation.
func (s Settings) Validate() error {
	if s.OceanCoverage < 0.05 || s.OceanCoverage > 0.95 {
		return &ValidationError{
			Field:  "ocean_coverage",
			Reason: fmt.Sprintf("%.3f outside [0.05, 0.95]", s.OceanCoverage),
		}
	}
	if s.RiverDensity < 0 || s.RiverDensity > 1 {
		return &ValidationError{
			Field:  "river_density",
			Reason: fmt.Sprintf("%.3f outside [0, 1]", s.RiverDensity),
		}
	}
	if s.Continents < 1 || s.Continents > 100 {
		return &ValidationError{
			Field:  "continents",
			Reason: fmt.Sprintf("%d outside [1, 100]", s.Continents),
		}
	}
	if s.Size != grid.SizeSmall && s.Size != grid.SizeMedium && s.Size != grid.SizeLarge {
		return &ValidationError{
			Field:  "size",
			Reason: fmt.Sprintf("unknown world size %d", s.Size),
		}
	}
	return nil
}
