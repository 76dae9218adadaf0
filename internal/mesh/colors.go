package mesh

import (
	"github.com/talgya/hexgen/internal/world"
)

// ColorScheme selects the texture's color source at construction time.
type ColorScheme uint8

const (
	// SchemeTerrain colors provinces by terrain type, shaded by elevation.
	SchemeTerrain ColorScheme = iota

	// SchemeMinerals colors provinces by their dominant mineral deposit.
	SchemeMinerals
)

func (s ColorScheme) String() string {
	if s == SchemeMinerals {
		return "minerals"
	}
	return "terrain"
}

// ParseColorScheme maps a scheme name to its value.
func ParseColorScheme(name string) (ColorScheme, bool) {
	switch name {
	case "terrain", "":
		return SchemeTerrain, true
	case "minerals":
		return SchemeMinerals, true
	}
	return SchemeTerrain, false
}

type colorFunc func(p *world.Province) (r, g, b, a uint8)

// colorFunc binds the scheme to a concrete lookup. River overlays need
// the river set only for the minerals scheme, where terrain no longer
// carries the information.
func (s ColorScheme) colorFunc(rivers *world.RiverSystem) colorFunc {
	switch s {
	case SchemeMinerals:
		return mineralColor
	default:
		_ = rivers // terrain already encodes rivers as a type
		return terrainColor
	}
}

type rgb struct{ r, g, b uint8 }

var terrainPalette = map[world.TerrainType]rgb{
	world.TerrainOcean:     {28, 60, 120},
	world.TerrainBeach:     {220, 205, 160},
	world.TerrainGrassland: {110, 160, 70},
	world.TerrainForest:    {50, 110, 50},
	world.TerrainChaparral: {160, 150, 90},
	world.TerrainDesert:    {210, 180, 120},
	world.TerrainAlpine:    {140, 140, 145},
	world.TerrainTundra:    {225, 230, 235},
	world.TerrainRiver:     {60, 120, 190},
}

// terrainColor shades the base palette by elevation: higher ground gets
// brighter, deep water darker.
func terrainColor(p *world.Province) (uint8, uint8, uint8, uint8) {
	c, ok := terrainPalette[p.Terrain]
	if !ok {
		return 255, 0, 255, 255 // unclassified cells show up loudly
	}
	shade := 0.7 + 0.6*p.Elevation.Float()
	return scale(c.r, shade), scale(c.g, shade), scale(c.b, shade), 255
}

var mineralPalette = map[world.MineralType]rgb{
	world.MineralIron:   {140, 90, 60},
	world.MineralCopper: {200, 120, 50},
	world.MineralTin:    {170, 170, 180},
	world.MineralGold:   {235, 195, 50},
	world.MineralCoal:   {45, 45, 45},
	world.MineralStone:  {120, 120, 110},
	world.MineralGems:   {170, 60, 190},
}

// mineralColor shows the richest deposit; barren land is muted terrain,
// water stays water.
func mineralColor(p *world.Province) (uint8, uint8, uint8, uint8) {
	if p.Terrain.IsWater() {
		c := terrainPalette[world.TerrainOcean]
		return c.r, c.g, c.b, 255
	}

	best := world.Abundance(0)
	var bestMineral world.MineralType
	for _, m := range world.MineralTypes() {
		if a := p.MineralAbundance(m); a > best {
			best = a
			bestMineral = m
		}
	}
	if best == 0 {
		return 80, 80, 75, 255
	}

	c := mineralPalette[bestMineral]
	// Abundance drives brightness so rich deposits pop on the overlay.
	shade := 0.5 + 0.5*float64(best.Normalized())
	return scale(c.r, shade), scale(c.g, shade), scale(c.b, shade), 255
}

func scale(v uint8, f float64) uint8 {
	s := float64(v) * f
	if s > 255 {
		return 255
	}
	if s < 0 {
		return 0
	}
	return uint8(s)
}
