package testutil

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Sine returns n samples of a unit sine at freq Hz sampled at rate Hz.
func Sine(n int, freq, rate float64) []float64 {
	s := make([]float64, n)
	w := 2 * math.Pi * freq / rate
	for i := range s {
		s[i] = math.Sin(w * float64(i))
	}
	return s
}

// Impulse returns n samples with a unit impulse at pos.
func Impulse(n, pos int) []float64 {
	s := make([]float64, n)
	s[pos] = 1
	return s
}

// Constant returns n samples of value v.
func Constant(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// Noise returns n uniform samples in [-1, 1) from a fixed seed.
func Noise(n int, seed uint64) []float64 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := make([]float64, n)
	for i := range s {
		s[i] = 2*r.Float64() - 1
	}
	return s
}

// RMS returns the root mean square of s.
func RMS(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(s, s) / float64(len(s)))
}

// MaxAbs returns the largest magnitude in s and its index.
func MaxAbs(s []float64) (float64, int) {
	if len(s) == 0 {
		return 0, -1
	}
	hi, lo := floats.MaxIdx(s), floats.MinIdx(s)
	if -s[lo] > s[hi] {
		return -s[lo], lo
	}
	return s[hi], hi
}

// MaxAbsDiff returns the largest element-wise difference of equal-length
// slices.
func MaxAbsDiff(a, b []float64) float64 {
	d := make([]float64, len(a))
	floats.SubTo(d, a, b)
	v, _ := MaxAbs(d)
	return v
}

// Chunked feeds in to process in pieces of chunk samples and concatenates
// the results.
func Chunked(process func(in []float64) []float64, in []float64, chunk int) []float64 {
	var out []float64
	for len(in) > 0 {
		n := min(chunk, len(in))
		out = append(out, process(in[:n])...)
		in = in[n:]
	}
	return out
}
