// Package simdops holds the table of SIMD kernels the resampling stages call
// in their inner loops.
//
// With Profile-Guided Optimization, the indirect calls in hot paths can be
// devirtualized and inlined, so the table costs next to nothing over direct
// calls while letting tests and benchmarks swap implementations.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops64 provides SIMD-accelerated float64 operations.
type Ops64 struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// CubicInterpDot computes the fused polynomial interpolation dot product:
	//   Σ hist[i] * (a[i] + x*(b[i] + x*(c[i] + x*d[i])))
	// Used by the fractional interpolator to blend adjacent bank entries.
	CubicInterpDot func(hist, a, b, c, d []float64, x float64) float64

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []float64)

	// Deinterleave2 is the inverse of Interleave2: a[0]=src[0], b[0]=src[1], ...
	Deinterleave2 func(a, b, src []float64)

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

var ops64 = Ops64{
	DotProductUnsafe: f64.DotProductUnsafe,
	CubicInterpDot:   f64.CubicInterpDot,
	Interleave2:      f64.Interleave2,
	Deinterleave2:    f64.Deinterleave2,
	Scale:            f64.Scale,
}

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops64 {
	return &ops64
}

// Describe reports the SIMD instruction set the kernels dispatch to.
func Describe() string {
	return cpu.Info()
}
