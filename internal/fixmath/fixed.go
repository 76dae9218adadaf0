// Package fixmath provides the deterministic numeric primitives for world
// generation: a 16.16 fixed-point scalar, small vector types, and a seeded
// RNG with per-stage sub-seed derivation.
//
// Everything here produces bit-identical results for identical inputs on
// every platform and build configuration. No package-level mutable state.
package fixmath

import (
	"fmt"
	"math"
)

// Fixed is a 16.16 fixed-point number stored in an int32.
// Range is roughly [-32768, 32767.99998] with a resolution of 1/65536.
// Arithmetic saturates at the range limits instead of wrapping, so
// overflow behaves identically everywhere.
type Fixed int32

const (
	// One is the fixed-point representation of 1.0.
	One Fixed = 1 << 16

	// Half is the fixed-point representation of 0.5.
	Half Fixed = 1 << 15

	// MaxFixed is the largest representable value.
	MaxFixed Fixed = math.MaxInt32

	// MinFixed is the smallest representable value.
	MinFixed Fixed = math.MinInt32

	fracBits = 16
	fracMask = 1<<fracBits - 1
)

// FromInt converts an integer, saturating at the range limits.
func FromInt(n int) Fixed {
	return saturate(int64(n) << fracBits)
}

// FromFloat converts a float64 with round-half-up, saturating on overflow.
// NaN converts to zero.
func FromFloat(f float64) Fixed {
	if f != f {
		return 0
	}
	return saturate(int64(math.Floor(f*65536.0 + 0.5)))
}

// FromBits reinterprets raw 16.16 bits as a Fixed.
func FromBits(bits int32) Fixed { return Fixed(bits) }

// Bits returns the raw 16.16 representation.
func (f Fixed) Bits() int32 { return int32(f) }

// Float returns the closest float64. Intended for output and diagnostics,
// never as an input back into simulation state.
func (f Fixed) Float() float64 { return float64(f) / 65536.0 }

// Float32 returns the closest float32.
func (f Fixed) Float32() float32 { return float32(f) / 65536.0 }

// Int returns the integer part, truncated toward negative infinity.
func (f Fixed) Int() int { return int(f >> fracBits) }

// Add returns f+g with saturation.
func (f Fixed) Add(g Fixed) Fixed { return saturate(int64(f) + int64(g)) }

// Sub returns f-g with saturation.
func (f Fixed) Sub(g Fixed) Fixed { return saturate(int64(f) - int64(g)) }

// Mul returns f*g with a 64-bit intermediate, rounding the dropped
// fraction half-up, saturating on overflow.
func (f Fixed) Mul(g Fixed) Fixed {
	p := int64(f) * int64(g)
	return saturate((p + 1<<(fracBits-1)) >> fracBits)
}

// Div returns f/g, saturating on overflow. Division by zero saturates to
// MaxFixed or MinFixed by the sign of f (zero stays zero).
func (f Fixed) Div(g Fixed) Fixed {
	if g == 0 {
		switch {
		case f > 0:
			return MaxFixed
		case f < 0:
			return MinFixed
		default:
			return 0
		}
	}
	return saturate((int64(f) << fracBits) / int64(g))
}

// Abs returns the absolute value, saturating for MinFixed.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return saturate(-int64(f))
	}
	return f
}

// Clamp limits f to [lo, hi].
func (f Fixed) Clamp(lo, hi Fixed) Fixed {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Lerp interpolates from f to g by t, where t is normally in [0, One].
func (f Fixed) Lerp(g, t Fixed) Fixed {
	return f.Add(g.Sub(f).Mul(t))
}

// Floor rounds toward negative infinity.
func (f Fixed) Floor() Fixed { return f &^ fracMask }

// Round rounds to the nearest integer, half away from zero for positives.
func (f Fixed) Round() Fixed { return f.Add(Half).Floor() }

func (f Fixed) String() string {
	return fmt.Sprintf("%.5f", f.Float())
}

func saturate(v int64) Fixed {
	if v > math.MaxInt32 {
		return MaxFixed
	}
	if v < math.MinInt32 {
		return MinFixed
	}
	return Fixed(v)
}

// Smoothstep is the standard cubic smoothstep on float64, clamped to [0,1].
// Shared by terrain classification and mesh shading.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
