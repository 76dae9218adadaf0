package terrain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/talgya/hexgen/internal/compute"
	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/grid"
	"github.com/talgya/hexgen/internal/par"
	"github.com/talgya/hexgen/internal/world"
)

// Params drives elevation synthesis. OceanCoverage picks the sea level as
// a quantile of the final field, so the requested fraction of the map is
// underwater regardless of what the noise produced.
type Params struct {
	Seed           uint32
	Dims           grid.MapDimensions
	OceanCoverage  float64
	ContinentCount int
	Mountains      world.MountainDensity
}

// Synthesize computes the elevation field on the accelerator, normalizes
// it to [0,1], writes it into the provinces as fixed-point values, and
// returns the sea level. Continent seeds come from their own stage RNG,
// so later stages cannot perturb continent placement.
func Synthesize(ctx context.Context, acc *compute.Accelerator, p Params, provinces []world.Province) (float64, error) {
	if len(provinces) != p.Dims.CellCount() {
		return 0, fmt.Errorf("province count %d does not match grid %dx%d",
			len(provinces), p.Dims.Cols, p.Dims.Rows)
	}

	req := compute.DefaultRequest(p.Seed, p.Dims)
	req.RidgeScale = p.Mountains.AmplitudeScale()
	req.Continents = continentSeeds(p)

	start := time.Now()
	res, err := acc.Elevation(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("elevation field: %w", err)
	}
	slog.Info("elevation field computed",
		"backend", res.Backend, "cells", len(res.Elevations), "elapsed", res.Elapsed)

	field, err := normalize(ctx, res.Elevations)
	if err != nil {
		return 0, err
	}

	err = par.ForEach(ctx, len(provinces), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			provinces[i].Elevation = fixmath.FromFloat(field[i])
		}
	})
	if err != nil {
		return 0, err
	}

	seaLevel := quantile(field, p.OceanCoverage)
	slog.Debug("sea level selected",
		"coverage", p.OceanCoverage, "sea_level", seaLevel, "elapsed", time.Since(start))
	return seaLevel, nil
}

// continentSeeds places the landmass centers inside the inner 60% of the
// map so falloff never fights the border fade. Radius shrinks as the
// count grows, keeping total land area roughly steady.
func continentSeeds(p Params) []compute.Continent {
	rng := fixmath.NewRNG(fixmath.StageSeed(p.Seed, fixmath.SaltContinents))

	count := p.ContinentCount
	if count < 1 {
		count = 1
	}
	b := p.Dims.Bounds
	baseRadius := math.Min(b.Width(), b.Height()) * 0.35 / math.Sqrt(float64(count))

	seeds := make([]compute.Continent, count)
	for i := range seeds {
		seeds[i] = compute.Continent{
			X:        float32(rng.RangeFloat(b.MinX*0.6, b.MaxX*0.6)),
			Y:        float32(rng.RangeFloat(b.MinY*0.6, b.MaxY*0.6)),
			Strength: float32(rng.RangeFloat(0.6, 1.0)),
			Radius:   float32(baseRadius * rng.RangeFloat(0.7, 1.3)),
		}
	}
	return seeds
}

// normalize rescales the field to span exactly [0,1]. Min and max are
// found with a chunked fold; chunk merge order cannot change a min/max.
func normalize(ctx context.Context, raw []float32) ([]float64, error) {
	type extent struct{ lo, hi float64 }

	ext, err := par.MapFold(ctx, len(raw),
		func(lo, hi int) extent {
			e := extent{lo: float64(raw[lo]), hi: float64(raw[lo])}
			for i := lo + 1; i < hi; i++ {
				v := float64(raw[i])
				if v < e.lo {
					e.lo = v
				}
				if v > e.hi {
					e.hi = v
				}
			}
			return e
		},
		func(a, b extent) extent {
			if b.lo < a.lo {
				a.lo = b.lo
			}
			if b.hi > a.hi {
				a.hi = b.hi
			}
			return a
		})
	if err != nil {
		return nil, err
	}

	span := ext.hi - ext.lo
	out := make([]float64, len(raw))
	if span <= 0 {
		return out, nil // flat field, everything sea floor
	}
	err = par.ForEach(ctx, len(raw), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = (float64(raw[i]) - ext.lo) / span
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// quantile returns the elevation below which the given fraction of cells
// falls. Sorting a copy keeps the field itself in id order.
func quantile(field []float64, frac float64) float64 {
	if len(field) == 0 {
		return 0
	}
	sorted := make([]float64, len(field))
	copy(sorted, field)
	sort.Float64s(sorted)

	idx := int(frac * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

