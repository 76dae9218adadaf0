package world

import "fmt"

// Generation option enums. These live with the data model because both the
// generation pipeline and its configuration layer reference them.

// ClimateType shifts the terrain classification ladder.
type ClimateType uint8

const (
	ClimateMixed ClimateType = iota
	ClimateArctic
	ClimateTemperate
	ClimateTropical
	ClimateDesert
)

func (c ClimateType) String() string {
	switch c {
	case ClimateMixed:
		return "Mixed"
	case ClimateArctic:
		return "Arctic"
	case ClimateTemperate:
		return "Temperate"
	case ClimateTropical:
		return "Tropical"
	case ClimateDesert:
		return "Desert"
	default:
		return fmt.Sprintf("ClimateType(%d)", uint8(c))
	}
}

// IslandFrequency controls how aggressively small landmasses are kept.
type IslandFrequency uint8

const (
	IslandsNone IslandFrequency = iota
	IslandsSparse
	IslandsModerate
	IslandsAbundant
)

// MinLandmassSize returns the flood-fill threshold below which a landmass
// is sunk back into the ocean.
func (f IslandFrequency) MinLandmassSize() int {
	switch f {
	case IslandsNone:
		return 60
	case IslandsSparse:
		return 25
	case IslandsModerate:
		return 10
	case IslandsAbundant:
		return 3
	default:
		return 10
	}
}

func (f IslandFrequency) String() string {
	switch f {
	case IslandsNone:
		return "None"
	case IslandsSparse:
		return "Sparse"
	case IslandsModerate:
		return "Moderate"
	case IslandsAbundant:
		return "Abundant"
	default:
		return fmt.Sprintf("IslandFrequency(%d)", uint8(f))
	}
}

// MountainDensity scales the high-frequency octave contribution.
type MountainDensity uint8

const (
	MountainsFew MountainDensity = iota
	MountainsNormal
	MountainsMany
)

// AmplitudeScale returns the multiplier applied to the ridge octaves.
func (m MountainDensity) AmplitudeScale() float64 {
	switch m {
	case MountainsFew:
		return 0.7
	case MountainsMany:
		return 1.35
	default:
		return 1.0
	}
}

func (m MountainDensity) String() string {
	switch m {
	case MountainsFew:
		return "Few"
	case MountainsNormal:
		return "Normal"
	case MountainsMany:
		return "Many"
	default:
		return fmt.Sprintf("MountainDensity(%d)", uint8(m))
	}
}

// ResourceAbundance scales every mineral roll.
type ResourceAbundance uint8

const (
	ResourcesScarce ResourceAbundance = iota
	ResourcesNormal
	ResourcesRich
	ResourcesBountiful
)

// Scale returns the abundance multiplier.
func (r ResourceAbundance) Scale() float64 {
	switch r {
	case ResourcesScarce:
		return 0.5
	case ResourcesRich:
		return 1.5
	case ResourcesBountiful:
		return 2.0
	default:
		return 1.0
	}
}

func (r ResourceAbundance) String() string {
	switch r {
	case ResourcesScarce:
		return "Scarce"
	case ResourcesNormal:
		return "Normal"
	case ResourcesRich:
		return "Rich"
	case ResourcesBountiful:
		return "Bountiful"
	default:
		return fmt.Sprintf("ResourceAbundance(%d)", uint8(r))
	}
}

// MineralDistribution selects the deposit placement strategy.
type MineralDistribution uint8

const (
	MineralsEven MineralDistribution = iota
	MineralsClustered
	MineralsStrategic
)

func (m MineralDistribution) String() string {
	switch m {
	case MineralsEven:
		return "Even"
	case MineralsClustered:
		return "Clustered"
	case MineralsStrategic:
		return "Strategic"
	default:
		return fmt.Sprintf("MineralDistribution(%d)", uint8(m))
	}
}
