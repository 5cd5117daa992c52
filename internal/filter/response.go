package filter

import (
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-hq-resampler/internal/fft"
)

const (
	defaultResponsePoints = 512
	minMagnitude          = 1e-20
	dbMultiplier          = 20.0
)

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized to Nyquist, 0 to 1)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates the DTFT of a FIR filter at numPoints
// frequencies from DC up to (but excluding) Nyquist.
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / float64(numPoints)
		response.Frequencies[k] = freq
		response.Magnitude[k], response.Phase[k] = responseAt(coeffs, freq)
	}

	return response
}

// MagnitudeAt returns |H| of coeffs at normalized frequency freq (1 = Nyquist).
func MagnitudeAt(coeffs []float64, freq float64) float64 {
	m, _ := responseAt(coeffs, freq)
	return m
}

func responseAt(coeffs []float64, freq float64) (mag, phase float64) {
	var realPart, imagPart float64
	omega := math.Pi * freq

	for n, h := range coeffs {
		angle := omega * float64(n)
		realPart += h * math.Cos(angle)
		imagPart -= h * math.Sin(angle)
	}

	return math.Hypot(realPart, imagPart), math.Atan2(imagPart, realPart)
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}

// Taps recovers the time-domain kernel from the stored spectrum. The
// result has the filter's DC gain.
func (f *FIRFilter) Taps(keeper *fft.Keeper) []float64 {
	if keeper == nil {
		keeper = fft.DefaultKeeper
	}
	t := keeper.MustAcquire(f.blockLenBits + 1)
	defer keeper.Release(t)

	block := make([]float64, t.Len())
	t.Inverse(block, f.spectrum)
	return block[:f.kernelLen]
}

// DCGain returns the sum of the taps.
func DCGain(taps []float64) float64 {
	return f64.Sum(taps)
}

// StopbandAttenuation returns the smallest attenuation in dB (positive)
// measured over points frequencies in [from, 1], relative to the DC gain.
func StopbandAttenuation(taps []float64, from float64, points int) float64 {
	if points < 2 {
		points = defaultResponsePoints
	}

	dc := math.Abs(DCGain(taps))
	worst := 0.0
	for k := range points {
		freq := from + (1-from)*float64(k)/float64(points-1)
		worst = math.Max(worst, MagnitudeAt(taps, freq))
	}
	return MagnitudeDB(dc) - MagnitudeDB(worst)
}
