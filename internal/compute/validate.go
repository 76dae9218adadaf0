package compute

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Epsilon is the per-cell tolerance between backends. The GPU evaluates
// the kernel in float32, so exact equality is not achievable; anything
// past this bound means the shader has diverged from the reference.
const Epsilon = 1e-4

// ValidationReport summarizes a backend comparison.
type ValidationReport struct {
	Cells    int
	Mismatch int     // cells past Epsilon
	MaxDiff  float64 // largest absolute difference
	MeanDiff float64
	RefName  string
	SubName  string
}

// OK reports whether the subject matched the reference within tolerance.
func (r ValidationReport) OK() bool { return r.Mismatch == 0 }

func (r ValidationReport) String() string {
	return fmt.Sprintf("%s vs %s: %d/%d cells past %g (max %g, mean %g)",
		r.SubName, r.RefName, r.Mismatch, r.Cells, Epsilon, r.MaxDiff, r.MeanDiff)
}

// Validate runs the same request on a reference and a subject backend and
// compares the fields cell by cell. Used to qualify the GPU path against
// the CPU reference before trusting it for a session.
func Validate(ctx context.Context, ref, sub Backend, req Request) (ValidationReport, error) {
	refRes, err := ref.Elevation(ctx, req)
	if err != nil {
		return ValidationReport{}, fmt.Errorf("reference %s: %w", ref.Name(), err)
	}
	subRes, err := sub.Elevation(ctx, req)
	if err != nil {
		return ValidationReport{}, fmt.Errorf("subject %s: %w", sub.Name(), err)
	}
	if len(refRes.Elevations) != len(subRes.Elevations) {
		return ValidationReport{}, fmt.Errorf("field size mismatch: %d vs %d",
			len(refRes.Elevations), len(subRes.Elevations))
	}

	rep := ValidationReport{
		Cells:   len(refRes.Elevations),
		RefName: ref.Name(),
		SubName: sub.Name(),
	}
	total := 0.0
	for i := range refRes.Elevations {
		d := math.Abs(float64(refRes.Elevations[i]) - float64(subRes.Elevations[i]))
		total += d
		if d > rep.MaxDiff {
			rep.MaxDiff = d
		}
		if d > Epsilon {
			rep.Mismatch++
		}
	}
	if rep.Cells > 0 {
		rep.MeanDiff = total / float64(rep.Cells)
	}

	if !rep.OK() {
		slog.Warn("backend validation failed", "report", rep.String())
	} else {
		slog.Debug("backend validation passed", "report", rep.String())
	}
	return rep, nil
}
