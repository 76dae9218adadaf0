// Package compute is the GPU/CPU hybrid layer for the elevation kernel.
// A capability probe selects a backend at construction; GPU dispatch is
// asynchronous with a bounded timeout, and any GPU failure falls back to
// the CPU reference transparently; callers always get the same Result
// type, only the latency differs.
package compute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/hexgen/internal/grid"
)

// Continent is one landmass seed influencing the elevation field.
type Continent struct {
	X, Y     float32
	Strength float32
	Radius   float32
}

// Request is the parameter bundle for one elevation field computation.
// Value type: backends never share mutable state with the caller.
type Request struct {
	Seed uint32
	Dims grid.MapDimensions

	// FBM parameters. The octave count, persistence and lacunarity are
	// part of the world's identity: changing them changes every world.
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Frequency   float64

	// RidgeScale multiplies the high-frequency octaves (mountain
	// density setting).
	RidgeScale float64

	Continents []Continent

	// FalloffStart is the normalized distance from map center where the
	// edge falloff begins.
	FalloffStart float64
}

// DefaultRequest returns the canonical FBM parameters: 6 octaves,
// persistence 0.5, lacunarity 2.0.
func DefaultRequest(seed uint32, dims grid.MapDimensions) Request {
	return Request{
		Seed:         seed,
		Dims:         dims,
		Octaves:      6,
		Persistence:  0.5,
		Lacunarity:   2.0,
		Frequency:    0.015,
		RidgeScale:   1.0,
		FalloffStart: 0.7,
	}
}

// Result is one computed elevation field. Elevations are raw kernel
// output in [0,1], one value per cell id, before field normalization.
type Result struct {
	Elevations []float32
	Backend    string
	Elapsed    time.Duration
}

// Backend computes elevation fields. Implementations must be pure: the
// same Request yields the same Elevations, independent of thread count.
type Backend interface {
	Name() string
	Elevation(ctx context.Context, req Request) (Result, error)
}

// Status reports compute capability.
type Status uint8

const (
	StatusAvailable Status = iota
	StatusDegraded
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusDegraded:
		return "degraded"
	default:
		return "unavailable"
	}
}

// Capability is the result of probing the host for GPU compute support.
type Capability struct {
	Status  Status
	Reason  string // set when degraded or unavailable
	Backend string

	MaxWorkgroupSize int
	MaxBufferBytes   int64
}

// Probe thresholds. A host under these runs the CPU path.
const (
	minWorkgroupSize = 64
	minBufferBytes   = 64 << 20 // worst case ~900k cells × 4B, with headroom
)

// Accelerator owns backend selection and fallback. Construct once per
// generation run.
type Accelerator struct {
	primary  Backend
	fallback Backend
	cap      Capability
	timeout  time.Duration
}

// NewAccelerator probes the host and wires the backend chain. The CPU
// reference is always the fallback; with a passing probe the GPU backend
// becomes primary.
func NewAccelerator(timeout time.Duration) *Accelerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cpu := NewCPUBackend()
	acc := &Accelerator{primary: cpu, fallback: cpu, timeout: timeout}

	cap := Probe()
	acc.cap = cap
	if cap.Status == StatusAvailable {
		gpu, err := NewGPUBackend()
		if err != nil {
			slog.Warn("gpu backend init failed, using cpu", "error", err)
			acc.cap.Status = StatusDegraded
			acc.cap.Reason = err.Error()
		} else {
			acc.primary = gpu
		}
	} else {
		slog.Info("gpu compute not selected", "status", cap.Status.String(), "reason", cap.Reason)
	}
	return acc
}

// Capability returns the probe result for diagnostics surfaces.
func (a *Accelerator) Capability() Capability { return a.cap }

// BackendName returns the currently selected primary backend.
func (a *Accelerator) BackendName() string { return a.primary.Name() }

// Elevation computes the field on the primary backend, falling back to
// the CPU reference on GPU error or timeout. GPU failure is recovered
// locally and logged; it never aborts generation.
func (a *Accelerator) Elevation(ctx context.Context, req Request) (Result, error) {
	if a.primary == a.fallback {
		return a.fallback.Elevation(ctx, req)
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	dispatchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	go func() {
		res, err := a.primary.Elevation(dispatchCtx, req)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		if o.err == nil {
			return o.res, nil
		}
		slog.Warn("gpu elevation failed, falling back to cpu",
			"backend", a.primary.Name(), "error", o.err)
	case <-dispatchCtx.Done():
		if ctx.Err() != nil {
			return Result{}, ctx.Err() // caller cancelled, not a GPU fault
		}
		slog.Warn("gpu elevation timed out, falling back to cpu",
			"backend", a.primary.Name(), "timeout", a.timeout)
	}
	return a.fallback.Elevation(ctx, req)
}

func validateRequest(req Request) error {
	n := req.Dims.CellCount()
	if n <= 0 {
		return fmt.Errorf("empty grid %dx%d", req.Dims.Cols, req.Dims.Rows)
	}
	if req.Octaves <= 0 {
		return fmt.Errorf("octaves must be positive, got %d", req.Octaves)
	}
	return nil
}
