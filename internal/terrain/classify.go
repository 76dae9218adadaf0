package terrain

import (
	"context"

	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/par"
	"github.com/talgya/hexgen/internal/world"
)

// smoothingBand is the elevation width around sea level inside which the
// value is smoothstep-remapped before classification. Kills single-cell
// coastline jitter without touching the stored elevation.
const smoothingBand = 0.04

// Elevation above which a neighbor counts as high ground for the rain
// shadow rule.
const rainShadowElevation = 0.3

// Classify assigns terrain types in two strict passes. The first is a
// pure function of (own elevation, sea level, climate) and runs in
// parallel chunks. The second applies the rain shadow rule reading only a
// snapshot of the first pass, so neighbor updates can never interleave.
func Classify(ctx context.Context, provinces []world.Province, seaLevel float64, climate world.ClimateType) error {
	err := par.ForEach(ctx, len(provinces), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := &provinces[i]
			e := coastalSmooth(p.Elevation.Float(), seaLevel)
			p.Terrain = classifyOne(e, seaLevel, climate)
		}
	})
	if err != nil {
		return err
	}
	return rainShadow(ctx, provinces)
}

// coastalSmooth remaps elevations inside the band straddling sea level so
// the ladder sees a smooth ramp instead of raw noise at the boundary.
func coastalSmooth(e, seaLevel float64) float64 {
	lo := seaLevel - smoothingBand/2
	hi := seaLevel + smoothingBand/2
	if e <= lo || e >= hi {
		return e
	}
	return lo + smoothingBand*fixmath.Smoothstep(lo, hi, e)
}

// classifyOne is the threshold ladder. Thresholds are offsets from sea
// level; the climate substitution below never reorders terrain rank, so
// raising elevation can never demote a cell.
func classifyOne(e, seaLevel float64, climate world.ClimateType) world.TerrainType {
	var t world.TerrainType
	switch {
	case e < seaLevel:
		t = world.TerrainOcean
	case e < seaLevel+0.01:
		t = world.TerrainBeach
	case e < seaLevel+0.05:
		t = world.TerrainGrassland
	case e < seaLevel+0.15:
		t = world.TerrainForest
	case e < seaLevel+0.25:
		t = world.TerrainChaparral
	case e < seaLevel+0.40:
		t = world.TerrainAlpine
	default:
		t = world.TerrainTundra
	}
	return climateShift(t, climate)
}

// climateShift biases the ladder output per climate. Each mapping keeps
// the rank sequence of the elevation bands non-decreasing.
func climateShift(t world.TerrainType, climate world.ClimateType) world.TerrainType {
	switch climate {
	case world.ClimateArctic:
		switch t {
		case world.TerrainForest:
			return world.TerrainGrassland
		case world.TerrainChaparral:
			return world.TerrainAlpine
		}
	case world.ClimateTropical:
		switch t {
		case world.TerrainChaparral:
			return world.TerrainForest
		case world.TerrainTundra:
			return world.TerrainAlpine
		}
	case world.ClimateDesert:
		switch t {
		case world.TerrainGrassland:
			return world.TerrainChaparral
		case world.TerrainForest, world.TerrainChaparral:
			return world.TerrainDesert
		}
	}
	return t
}

// rainShadow converts dry mid-elevation cells in the lee of mountains to
// desert. Reads terrain from a snapshot of the base pass: the rule is a
// function of the completed first pass only, never of cells this pass
// already rewrote.
func rainShadow(ctx context.Context, provinces []world.Province) error {
	base := make([]world.TerrainType, len(provinces))
	for i := range provinces {
		base[i] = provinces[i].Terrain
	}

	guard := par.NewGuard("rain shadow", len(provinces))
	defer guard.Check()

	return par.ForEach(ctx, len(provinces), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := &provinces[i]
			if base[i] != world.TerrainChaparral {
				continue
			}
			mountains := 0
			elevated := 0
			guard.Count(grid.NumDirections)
			for _, ni := range p.NeighborIndex {
				if ni < 0 {
					continue
				}
				if base[ni].IsMountain() {
					mountains++
				}
				if provinces[ni].Elevation.Float() > rainShadowElevation {
					elevated++
				}
			}
			if mountains >= 2 || elevated >= 1 {
				p.Terrain = world.TerrainDesert
			}
		}
	})
}
