package worldgen

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/world"
)

// Preset is the yaml-facing settings shape: every enum is a name, so
// preset files stay readable and hand-editable.
type Preset struct {
	Name         string  `yaml:"name"`
	Size         string  `yaml:"size"`
	Climate      string  `yaml:"climate"`
	Islands      string  `yaml:"islands"`
	Mountains    string  `yaml:"mountains"`
	Resources    string  `yaml:"resources"`
	Distribution string  `yaml:"distribution"`
	Ocean        float64 `yaml:"ocean_coverage"`
	Rivers       float64 `yaml:"river_density"`
	Continents   int     `yaml:"continents"`
}

// builtins are the shipped presets. A preset file with the same name
// overrides the builtin.
var builtins = map[string]Preset{
	"balanced": {
		Name: "balanced", Size: "medium", Climate: "mixed",
		Islands: "moderate", Mountains: "normal",
		Resources: "normal", Distribution: "clustered",
		Ocean: 0.55, Rivers: 0.5, Continents: 4,
	},
	"pangaea": {
		Name: "pangaea", Size: "large", Climate: "mixed",
		Islands: "sparse", Mountains: "normal",
		Resources: "normal", Distribution: "clustered",
		Ocean: 0.6, Rivers: 0.6, Continents: 1,
	},
	"archipelago": {
		Name: "archipelago", Size: "medium", Climate: "tropical",
		Islands: "abundant", Mountains: "few",
		Resources: "rich", Distribution: "even",
		Ocean: 0.75, Rivers: 0.3, Continents: 12,
	},
	"ice-age": {
		Name: "ice-age", Size: "medium", Climate: "arctic",
		Islands: "moderate", Mountains: "many",
		Resources: "scarce", Distribution: "strategic",
		Ocean: 0.45, Rivers: 0.4, Continents: 3,
	},
	"desert-world": {
		Name: "desert-world", Size: "medium", Climate: "desert",
		Islands: "none", Mountains: "normal",
		Resources: "normal", Distribution: "strategic",
		Ocean: 0.2, Rivers: 0.15, Continents: 2,
	},
}

// PresetNames lists the builtin presets in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupPreset resolves a builtin preset by name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := builtins[name]
	return p, ok
}

// LoadPresetFile reads one preset from a yaml file.
func LoadPresetFile(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("open preset: %w", err)
	}
	defer f.Close()
	return readPreset(f)
}

func readPreset(r io.Reader) (Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	return p, nil
}

// Settings converts the preset into validated Settings for the seed.
func (p Preset) Settings(seed uint32) (Settings, error) {
	s := DefaultSettings(seed)
	s.OceanCoverage = p.Ocean
	s.RiverDensity = p.Rivers
	s.Continents = p.Continents

	var err error
	if s.Size, err = grid.ParseWorldSize(p.Size); err != nil {
		return Settings{}, &ValidationError{Field: "size", Reason: err.Error()}
	}

	var ok bool
	if s.Climate, ok = climateByName(p.Climate); !ok {
		return Settings{}, &ValidationError{Field: "climate", Reason: "unknown name " + p.Climate}
	}
	if s.Islands, ok = islandsByName(p.Islands); !ok {
		return Settings{}, &ValidationError{Field: "islands", Reason: "unknown name " + p.Islands}
	}
	if s.Mountains, ok = mountainsByName(p.Mountains); !ok {
		return Settings{}, &ValidationError{Field: "mountains", Reason: "unknown name " + p.Mountains}
	}
	if s.Resources, ok = resourcesByName(p.Resources); !ok {
		return Settings{}, &ValidationError{Field: "resources", Reason: "unknown name " + p.Resources}
	}
	if s.Distribution, ok = distributionByName(p.Distribution); !ok {
		return Settings{}, &ValidationError{Field: "distribution", Reason: "unknown name " + p.Distribution}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func climateByName(name string) (world.ClimateType, bool) {
	switch name {
	case "mixed", "":
		return world.ClimateMixed, true
	case "arctic":
		return world.ClimateArctic, true
	case "temperate":
		return world.ClimateTemperate, true
	case "tropical":
		return world.ClimateTropical, true
	case "desert":
		return world.ClimateDesert, true
	}
	return 0, false
}

func islandsByName(name string) (world.IslandFrequency, bool) {
	switch name {
	case "none":
		return world.IslandsNone, true
	case "sparse":
		return world.IslandsSparse, true
	case "moderate", "":
		return world.IslandsModerate, true
	case "abundant":
		return world.IslandsAbundant, true
	}
	return 0, false
}

func mountainsByName(name string) (world.MountainDensity, bool) {
	switch name {
	case "few":
		return world.MountainsFew, true
	case "normal", "":
		return world.MountainsNormal, true
	case "many":
		return world.MountainsMany, true
	}
	return 0, false
}

func resourcesByName(name string) (world.ResourceAbundance, bool) {
	switch name {
	case "scarce":
		return world.ResourcesScarce, true
	case "normal", "":
		return world.ResourcesNormal, true
	case "rich":
		return world.ResourcesRich, true
	case "bountiful":
		return world.ResourcesBountiful, true
	}
	return 0, false
}

func distributionByName(name string) (world.MineralDistribution, bool) {
	switch name {
	case "even":
		return world.MineralsEven, true
	case "clustered", "":
		return world.MineralsClustered, true
	case "strategic":
		return world.MineralsStrategic, true
	}
	return 0, false
}
