package compute

import (
	"context"
	"math"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/par"
)

// CPUBackend is the reference implementation of the elevation kernel.
// The GPU shader is a port of this code; any change here must be
// mirrored there and re-validated.
type CPUBackend struct{}

// NewCPUBackend returns the reference backend.
func NewCPUBackend() *CPUBackend { return &CPUBackend{} }

func (b *CPUBackend) Name() string { return "cpu" }

// Elevation evaluates the kernel for every cell. Work is chunked across
// GOMAXPROCS; each cell depends only on the request, so chunk order
// cannot affect the output.
func (b *CPUBackend) Elevation(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}
	start := time.Now()

	noise := opensimplex.NewNormalized(int64(req.Seed))
	n := req.Dims.CellCount()
	out := make([]float32, n)

	err := par.ForEach(ctx, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			col, row := req.Dims.CellCoords(uint32(i))
			pos := req.Dims.Position(col, row)
			out[i] = float32(cellElevation(noise, req, pos.X, pos.Y))
		}
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Elevations: out, Backend: b.Name(), Elapsed: time.Since(start)}, nil
}

// cellElevation is the kernel proper: fractal base terrain, continent
// mask with domain-warped distance, and an edge falloff pushing the map
// border underwater. Output is clamped to [0,1].
func cellElevation(noise opensimplex.Noise, req Request, px, py float64) float64 {
	scale := 1.0 / req.Dims.HexSize

	base := fbm(noise, req, px*scale, py*scale)
	continent := continentInfluence(noise, req, px, py)
	edge := edgeFalloff(req, px, py)

	e := base*0.4 + continent*0.4 + edge*0.2
	if e < 0 {
		return 0
	}
	if e > 1 {
		return 1
	}
	return e
}

// fbm sums Octaves layers of normalized simplex noise. RidgeScale
// weights the octaves past the third, so mountain density changes the
// roughness without moving the continents. Dividing by the accumulated
// amplitude keeps the result in [0,1] for any parameter choice.
func fbm(noise opensimplex.Noise, req Request, x, y float64) float64 {
	total := 0.0
	maxAmp := 0.0
	amp := 1.0
	freq := req.Frequency
	for o := 0; o < req.Octaves; o++ {
		a := amp
		if o >= 3 {
			a *= req.RidgeScale
		}
		total += noise.Eval2(x*freq, y*freq) * a
		maxAmp += a
		amp *= req.Persistence
		freq *= req.Lacunarity
	}
	return total / maxAmp
}

// continentInfluence returns the strongest landmass contribution at a
// point. The distance to each continent seed is warped by low-frequency
// noise so coastlines read as organic rather than radial.
func continentInfluence(noise opensimplex.Noise, req Request, px, py float64) float64 {
	best := 0.0
	for _, c := range req.Continents {
		dx := px - float64(c.X)
		dy := py - float64(c.Y)
		d := math.Sqrt(dx*dx + dy*dy)

		r := float64(c.Radius)
		warpX := noise.Eval2(px*0.005, py*0.005) - 0.5
		warpY := noise.Eval2(px*0.005+137.0, py*0.005+137.0) - 0.5
		d += (warpX + warpY) * r * 0.3

		infl := (1 - fixmath.Smoothstep(r*0.4, r*1.2, d)) * float64(c.Strength)
		if infl > best {
			best = infl
		}
	}
	return best
}

// edgeFalloff fades elevation toward the map border. The normalized
// distance uses the Chebyshev metric so corners fall off no harder than
// edges.
func edgeFalloff(req Request, px, py float64) float64 {
	b := req.Dims.Bounds
	nd := math.Max(math.Abs(px)/b.MaxX, math.Abs(py)/b.MaxY)
	return 1 - fixmath.Smoothstep(req.FalloffStart, 1.0, nd)
}
