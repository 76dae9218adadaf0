// Package world defines the immutable world data model: provinces, terrain
// classification, the river system, and the assembled mesh buffers. The
// generation pipeline builds these once per run; after generation only the
// Owner field is ever mutated, and only by external simulation layers.
package world

import (
	"fmt"

	"github.com/talgya/hexgen/internal/fixmath"
)

// ID is a dense province identifier. Ids are contiguous in [0, N) and equal
// to the province's index in the world array, so id-to-index conversion is
// free. NoID marks an absent neighbor (map edge) or absent owner.
type ID uint32

// NoID is the sentinel for "no province".
const NoID ID = ^ID(0)

// Valid reports whether the id refers to a province.
func (id ID) Valid() bool { return id != NoID }

func (id ID) String() string {
	if id == NoID {
		return "Province#none"
	}
	return fmt.Sprintf("Province#%d", uint32(id))
}

// TerrainType classifies a province. The order is the elevation ladder:
// raising a cell's elevation (sea level fixed) never moves it to an
// earlier entry. Desert shares chaparral's rung; the rain-shadow pass
// converts between them without changing elevation.
type TerrainType uint8

const (
	TerrainOcean TerrainType = iota
	TerrainBeach
	TerrainGrassland
	TerrainForest
	TerrainChaparral
	TerrainDesert
	TerrainAlpine
	TerrainTundra
	TerrainRiver
)

// Rank returns the terrain's position on the elevation ladder.
// Chaparral and desert share a rank; river is outside the ladder
// (assigned by hydrology, not elevation).
func (t TerrainType) Rank() int {
	switch t {
	case TerrainOcean:
		return 0
	case TerrainBeach:
		return 1
	case TerrainGrassland:
		return 2
	case TerrainForest:
		return 3
	case TerrainChaparral, TerrainDesert:
		return 4
	case TerrainAlpine:
		return 5
	case TerrainTundra:
		return 6
	default:
		return -1
	}
}

// IsWater reports whether the terrain is ocean.
func (t TerrainType) IsWater() bool { return t == TerrainOcean }

// IsMountain reports whether the terrain blocks moisture for the
// rain-shadow rule.
func (t TerrainType) IsMountain() bool {
	return t == TerrainAlpine || t == TerrainTundra
}

func (t TerrainType) String() string {
	switch t {
	case TerrainOcean:
		return "Ocean"
	case TerrainBeach:
		return "Beach"
	case TerrainGrassland:
		return "Grassland"
	case TerrainForest:
		return "Forest"
	case TerrainChaparral:
		return "Chaparral"
	case TerrainDesert:
		return "Desert"
	case TerrainAlpine:
		return "Alpine"
	case TerrainTundra:
		return "Tundra"
	case TerrainRiver:
		return "River"
	default:
		return "Unknown"
	}
}

// MineralType enumerates the province resource kinds.
type MineralType uint8

const (
	MineralIron MineralType = iota
	MineralCopper
	MineralTin
	MineralGold
	MineralCoal
	MineralStone
	MineralGems
	mineralCount
)

// MineralTypes lists all minerals in a fixed order.
func MineralTypes() []MineralType {
	out := make([]MineralType, mineralCount)
	for i := range out {
		out[i] = MineralType(i)
	}
	return out
}

func (m MineralType) String() string {
	switch m {
	case MineralIron:
		return "Iron"
	case MineralCopper:
		return "Copper"
	case MineralTin:
		return "Tin"
	case MineralGold:
		return "Gold"
	case MineralCoal:
		return "Coal"
	case MineralStone:
		return "Stone"
	case MineralGems:
		return "Gems"
	default:
		return "Unknown"
	}
}

// Abundance is a mineral abundance percentage in [0, 100].
type Abundance uint8

// Clamp limits the value to 100.
func (a Abundance) Clamp() Abundance {
	if a > 100 {
		return 100
	}
	return a
}

// Normalized returns the abundance in [0, 1].
func (a Abundance) Normalized() float32 { return float32(a) / 100 }

// Province is a single hexagonal cell. Provinces are plain values in a
// contiguous slice indexed by ID with no entity indirection. The only
// relationship is the neighbor graph, held as fixed-size arrays.
type Province struct {
	ID ID

	// Offset coordinates and world-space center.
	Col, Row int32
	X, Y     float32

	// Elevation normalized to [0,1] in 16.16 fixed point.
	Elevation fixmath.Fixed

	Terrain TerrainType

	// Neighbors by direction (grid.Direction order). NoID at map edges.
	Neighbors [6]ID

	// NeighborIndex holds direct array indices for O(1) traversal,
	// -1 where the neighbor is absent. Populated by
	// PrecomputeNeighborIndexes; mandatory before any at-scale
	// neighbor-walking stage.
	NeighborIndex [6]int32

	// Mineral abundances.
	Iron, Copper, Tin, Gold, Coal, Stone, Gems Abundance

	// Owner is written only by external simulation layers after
	// generation. This core initializes it to NoID and never touches
	// it again.
	Owner ID
}

// MineralAbundance returns the abundance of one mineral type.
func (p *Province) MineralAbundance(m MineralType) Abundance {
	switch m {
	case MineralIron:
		return p.Iron
	case MineralCopper:
		return p.Copper
	case MineralTin:
		return p.Tin
	case MineralGold:
		return p.Gold
	case MineralCoal:
		return p.Coal
	case MineralStone:
		return p.Stone
	case MineralGems:
		return p.Gems
	default:
		return 0
	}
}

// SetMineral assigns one mineral's abundance, clamped to 100.
func (p *Province) SetMineral(m MineralType, a Abundance) {
	a = a.Clamp()
	switch m {
	case MineralIron:
		p.Iron = a
	case MineralCopper:
		p.Copper = a
	case MineralTin:
		p.Tin = a
	case MineralGold:
		p.Gold = a
	case MineralCoal:
		p.Coal = a
	case MineralStone:
		p.Stone = a
	case MineralGems:
		p.Gems = a
	}
}

// IsHabitable reports whether external layers may settle the province.
func (p *Province) IsHabitable() bool { return p.Terrain != TerrainOcean }
