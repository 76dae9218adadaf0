package compute

import (
	"context"
	"testing"

	"github.com/talgya/hexgen/internal/grid"
)

func testDims(cols, rows uint32) grid.MapDimensions {
	halfW := float64(cols) / 2 * grid.HexSize * 1.5
	halfH := float64(rows) / 2 * grid.HexSize * grid.Sqrt3
	return grid.MapDimensions{
		Cols:    cols,
		Rows:    rows,
		HexSize: grid.HexSize,
		Bounds:  grid.Bounds{MinX: -halfW, MaxX: halfW, MinY: -halfH, MaxY: halfH},
	}
}

func testRequest(seed uint32) Request {
	req := DefaultRequest(seed, testDims(48, 36))
	req.Continents = []Continent{
		{X: 0, Y: 0, Strength: 0.9, Radius: 600},
		{X: -1200, Y: 400, Strength: 0.7, Radius: 400},
	}
	return req
}

func TestCPUElevationDeterministic(t *testing.T) {
	cpu := NewCPUBackend()
	req := testRequest(42)

	a, err := cpu.Elevation(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := cpu.Elevation(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(a.Elevations) != req.Dims.CellCount() {
		t.Fatalf("got %d elevations, want %d", len(a.Elevations), req.Dims.CellCount())
	}
	for i := range a.Elevations {
		if a.Elevations[i] != b.Elevations[i] {
			t.Fatalf("cell %d differs between runs: %v vs %v", i, a.Elevations[i], b.Elevations[i])
		}
	}
}

func TestCPUElevationRange(t *testing.T) {
	cpu := NewCPUBackend()
	res, err := cpu.Elevation(context.Background(), testRequest(7))
	if err != nil {
		t.Fatalf("elevation: %v", err)
	}
	for i, e := range res.Elevations {
		if e < 0 || e > 1 {
			t.Fatalf("cell %d out of range: %v", i, e)
		}
	}
}

func TestCPUElevationSeedsDiffer(t *testing.T) {
	cpu := NewCPUBackend()
	a, _ := cpu.Elevation(context.Background(), testRequest(1))
	b, _ := cpu.Elevation(context.Background(), testRequest(2))

	same := 0
	for i := range a.Elevations {
		if a.Elevations[i] == b.Elevations[i] {
			same++
		}
	}
	if same == len(a.Elevations) {
		t.Fatal("different seeds produced identical fields")
	}
}

func TestEdgeFalloff(t *testing.T) {
	req := testRequest(1)
	b := req.Dims.Bounds

	if got := edgeFalloff(req, 0, 0); got != 1 {
		t.Errorf("falloff at center = %v, want 1", got)
	}
	if got := edgeFalloff(req, b.MaxX, 0); got != 0 {
		t.Errorf("falloff at border = %v, want 0", got)
	}
	mid := edgeFalloff(req, b.MaxX*0.85, 0)
	if mid <= 0 || mid >= 1 {
		t.Errorf("falloff inside the band = %v, want strictly between 0 and 1", mid)
	}
}

func TestValidateRequest(t *testing.T) {
	good := testRequest(1)
	if err := validateRequest(good); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := good
	bad.Octaves = 0
	if err := validateRequest(bad); err == nil {
		t.Error("zero octaves accepted")
	}

	bad = good
	bad.Dims = grid.MapDimensions{}
	if err := validateRequest(bad); err == nil {
		t.Error("empty grid accepted")
	}
}

func TestElevationCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cpu := NewCPUBackend()
	if _, err := cpu.Elevation(ctx, testRequest(3)); err == nil {
		t.Fatal("cancelled context not observed")
	}
}

func TestAcceleratorDefaultsToCPU(t *testing.T) {
	acc := NewAccelerator(0)
	cap := acc.Capability()
	if cap.Status == StatusAvailable {
		t.Skip("gpu available on this host")
	}
	if acc.BackendName() != "cpu" {
		t.Fatalf("backend = %q, want cpu", acc.BackendName())
	}

	res, err := acc.Elevation(context.Background(), testRequest(9))
	if err != nil {
		t.Fatalf("elevation: %v", err)
	}
	if res.Backend != "cpu" {
		t.Errorf("result backend = %q, want cpu", res.Backend)
	}
}

// perturbedBackend shifts one cell past tolerance, standing in for a
// diverged accelerator.
type perturbedBackend struct {
	inner Backend
}

func (p perturbedBackend) Name() string { return "perturbed" }

func (p perturbedBackend) Elevation(ctx context.Context, req Request) (Result, error) {
	res, err := p.inner.Elevation(ctx, req)
	if err != nil {
		return res, err
	}
	res.Elevations[len(res.Elevations)/2] += 10 * Epsilon
	res.Backend = p.Name()
	return res, nil
}

func TestValidatePassesForIdenticalBackends(t *testing.T) {
	cpu := NewCPUBackend()
	rep, err := Validate(context.Background(), cpu, NewCPUBackend(), testRequest(11))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("identical backends reported mismatch: %s", rep)
	}
}

func TestValidateCatchesDivergence(t *testing.T) {
	cpu := NewCPUBackend()
	rep, err := Validate(context.Background(), cpu, perturbedBackend{inner: cpu}, testRequest(11))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if rep.OK() {
		t.Fatal("divergence not detected")
	}
	if rep.Mismatch != 1 {
		t.Errorf("mismatch count = %d, want 1", rep.Mismatch)
	}
	if rep.MaxDiff <= Epsilon {
		t.Errorf("max diff %v not past tolerance", rep.MaxDiff)
	}
}
