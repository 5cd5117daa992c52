// Package fft wraps gonum's real FFT for power-of-2 lengths and provides the
// packed-spectrum algebra used by block convolution.
//
// A spectrum of a length-N real sequence is stored as N/2 complex128 values:
// element 0 carries the DC bin in its real part and the Nyquist bin in its
// imaginary part, elements 1..N/2-1 hold the remaining bins.
package fft

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform length limits, in bits.
const (
	MinLenBits = 1
	MaxLenBits = 30
)

// ErrInvalidLength indicates a transform length outside [2^MinLenBits, 2^MaxLenBits].
var ErrInvalidLength = errors.New("invalid FFT length")

// RealFFT performs forward and inverse real transforms of one length.
// A RealFFT is not safe for concurrent use; obtain one per goroutine from a Keeper.
type RealFFT struct {
	lenBits int
	n       int
	invMul  float64
	fft     *fourier.FFT
	scratch []complex128 // n/2+1 unpacked coefficients

	next *RealFFT // free-list link, owned by the Keeper
}

// New allocates a transform of length 2^lenBits.
func New(lenBits int) (*RealFFT, error) {
	if lenBits < MinLenBits || lenBits > MaxLenBits {
		return nil, fmt.Errorf("%w: %d bits (must be %d-%d)", ErrInvalidLength, lenBits, MinLenBits, MaxLenBits)
	}

	n := 1 << lenBits
	return &RealFFT{
		lenBits: lenBits,
		n:       n,
		invMul:  1.0 / float64(n),
		fft:     fourier.NewFFT(n),
		scratch: make([]complex128, n/2+1),
	}, nil
}

// LenBits returns log2 of the transform length.
func (f *RealFFT) LenBits() int { return f.lenBits }

// Len returns the transform length.
func (f *RealFFT) Len() int { return f.n }

// SpectrumLen returns the number of packed complex elements of a spectrum.
func (f *RealFFT) SpectrumLen() int { return f.n / 2 }

// InvMulConst returns 1/Len, the scale Inverse leaves out.
func (f *RealFFT) InvMulConst() float64 { return f.invMul }

// Forward transforms src (Len samples) into the packed spectrum dst (Len/2 elements).
func (f *RealFFT) Forward(dst []complex128, src []float64) {
	h := f.n / 2
	if len(src) < f.n || len(dst) < h {
		panic(fmt.Sprintf("fft: Forward needs %d samples and %d bins, got %d and %d", f.n, h, len(src), len(dst)))
	}

	f.scratch = f.fft.Coefficients(f.scratch, src[:f.n])
	dst[0] = complex(real(f.scratch[0]), real(f.scratch[h]))
	copy(dst[1:h], f.scratch[1:h])
}

// Inverse transforms the packed spectrum src back into dst without the 1/Len scale.
func (f *RealFFT) Inverse(dst []float64, src []complex128) {
	h := f.n / 2
	if len(dst) < f.n || len(src) < h {
		panic(fmt.Sprintf("fft: Inverse needs %d bins and %d samples, got %d and %d", h, f.n, len(src), len(dst)))
	}

	f.scratch[0] = complex(real(src[0]), 0)
	f.scratch[h] = complex(imag(src[0]), 0)
	copy(f.scratch[1:h], src[1:h])
	f.fft.Sequence(dst[:f.n], f.scratch)
}

// MultiplyBlocks sets dst = a * b bin by bin.
func MultiplyBlocks(dst, a, b []complex128) {
	n := len(dst)
	p0 := packedMul(a[0], b[0])
	c128.Mul(dst[1:n], a[1:n], b[1:n])
	dst[0] = p0
}

// MultiplyBlocksAdd sets dst += a * b bin by bin. tmp must hold len(dst) elements.
func MultiplyBlocksAdd(dst, a, b, tmp []complex128) {
	n := len(dst)
	p0 := packedMul(a[0], b[0])
	c128.Mul(tmp[1:n], a[1:n], b[1:n])
	for i := 1; i < n; i++ {
		dst[i] += tmp[i]
	}
	dst[0] += p0
}

// Sqr squares every bin of p in place.
func Sqr(p []complex128) {
	p0 := packedMul(p[0], p[0])
	c128.Mul(p[1:], p[1:], p[1:])
	p[0] = p0
}

// packedMul multiplies the DC and Nyquist bins, which are both real.
func packedMul(a, b complex128) complex128 {
	return complex(real(a)*real(b), imag(a)*imag(b))
}
