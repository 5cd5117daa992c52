package mathutil

import (
	"math"
	"math/bits"
)

// Pows raises x to the power p while preserving the sign of x.
func Pows(x, p float64) float64 {
	if x < 0 {
		return -math.Pow(-x, p)
	}
	return math.Pow(x, p)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// BitOccupancy returns the number of bits needed to represent v (v >= 0).
// BitOccupancy(0) is 1, matching the block-length sizing rule of the
// convolver (a kernel of length 1 still needs a 2-sample block).
func BitOccupancy(v int) int {
	if v <= 0 {
		return 1
	}
	return bits.Len(uint(v))
}

// NormalizeFIR scales the l taps found at p[0], p[stride], p[2*stride], ...
// so that their sum equals dcGain.
func NormalizeFIR(p []float64, l int, dcGain float64, stride int) {
	if l <= 0 || stride <= 0 {
		panic("mathutil: NormalizeFIR needs positive length and stride")
	}

	var s float64
	for i, k := 0, 0; i < l; i, k = i+1, k+stride {
		s += p[k]
	}

	s = dcGain / s
	for i, k := 0, 0; i < l; i, k = i+1, k+stride {
		p[k] *= s
	}
}

// SplitFrac splits a non-negative value into its integer and fractional parts.
func SplitFrac(v float64) (int, float64) {
	i := int(v)
	return i, v - float64(i)
}
