package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-hq-resampler/internal/fft"
	"github.com/tphakala/go-hq-resampler/internal/mathutil"
)

var (
	// ErrInvalidParameter indicates a filter request outside the supported range.
	ErrInvalidParameter = errors.New("invalid filter parameter")

	// ErrNotSupported indicates a filter feature that is not implemented.
	ErrNotSupported = errors.New("filter feature not supported")
)

// Phase selects the phase response of a low-pass filter.
type Phase int

const (
	// PhaseLinear produces a symmetric kernel with integer group delay.
	PhaseLinear Phase = iota
	// PhaseMinimum is recognized but not built.
	PhaseMinimum
)

func (p Phase) String() string {
	switch p {
	case PhaseLinear:
		return "linear"
	case PhaseMinimum:
		return "minimum"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Low-pass design limits.
const (
	MinTransBand = 0.5
	MaxTransBand = 45.0
	MinAtten     = 49.0
	MaxAtten     = 218.0
)

const (
	attenCorrCount = 264
	attenCorrMin   = 49.0
	attenCorrDiff  = 176.25

	lowPassKaiserBeta = 125.0

	// Window power threshold separating the two half-length fits.
	pwrThreshold = 0.067665322581
)

// Transition band tiers as fractions of the pass band.
const (
	tierWideMin   = 0.25
	tierMediumMin = 0.10
)

// tier holds the attenuation offsets (strong, moderate, weak request) and
// the correction table scale of one transition band tier.
type tier struct {
	offsets [3]float64
	scale   float64
}

var tiers = [3]tier{
	{offsets: [3]float64{1.60, 1.91, 2.25}, scale: 101},
	{offsets: [3]float64{0.69, 0.73, 1.13}, scale: 210},
	{offsets: [3]float64{0.21, 0.25, 0.36}, scale: 196},
}

// LowPassSpec identifies a low-pass filter. Two specs select the same
// cached filter only when every field compares equal.
type LowPassSpec struct {
	// NormFreq is the stop-band start, normalized to Nyquist, in (0, 1].
	NormFreq float64
	// TransBand is the transition band in percent of the pass band.
	TransBand float64
	// Atten is the stop-band attenuation in dB.
	Atten float64
	Phase Phase
	// Gain is the DC gain of the kernel. Zero means 1.
	Gain float64
}

func (s LowPassSpec) withDefaults() LowPassSpec {
	if s.Gain == 0 {
		s.Gain = 1
	}
	return s
}

// Validate checks the spec against the design limits.
func (s LowPassSpec) Validate() error {
	if !(s.NormFreq > 0 && s.NormFreq <= 1) {
		return fmt.Errorf("%w: normalized frequency %g (must be in (0, 1])", ErrInvalidParameter, s.NormFreq)
	}
	if !(s.TransBand >= MinTransBand && s.TransBand <= MaxTransBand) {
		return fmt.Errorf("%w: transition band %g%% (must be %g-%g)", ErrInvalidParameter, s.TransBand, MinTransBand, MaxTransBand)
	}
	if !(s.Atten >= MinAtten && s.Atten <= MaxAtten) {
		return fmt.Errorf("%w: attenuation %g dB (must be %g-%g)", ErrInvalidParameter, s.Atten, MinAtten, MaxAtten)
	}
	if s.Gain < 0 || math.IsNaN(s.Gain) || math.IsInf(s.Gain, 0) {
		return fmt.Errorf("%w: gain %g", ErrInvalidParameter, s.Gain)
	}
	switch s.Phase {
	case PhaseLinear:
	case PhaseMinimum:
		return fmt.Errorf("%w: minimum-phase filters", ErrNotSupported)
	default:
		return fmt.Errorf("%w: unknown phase response %d", ErrInvalidParameter, int(s.Phase))
	}
	return nil
}

// FIRFilter is an immutable low-pass kernel stored as the packed spectrum
// of its zero-padded taps, ready for overlap-save convolution.
type FIRFilter struct {
	spec LowPassSpec

	kernelLen    int
	latency      int
	latencyFrac  float64
	blockLenBits int
	spectrum     []complex128
}

// Spec returns the request the filter was built for.
func (f *FIRFilter) Spec() LowPassSpec { return f.spec }

// KernelLen returns the number of taps.
func (f *FIRFilter) KernelLen() int { return f.kernelLen }

// Latency returns the integer group delay in samples.
func (f *FIRFilter) Latency() int { return f.latency }

// LatencyFrac returns the fractional group delay, 0 for linear phase.
func (f *FIRFilter) LatencyFrac() float64 { return f.latencyFrac }

// BlockLenBits returns log2 of the block length. The spectrum belongs to a
// transform of twice the block length.
func (f *FIRFilter) BlockLenBits() int { return f.blockLenBits }

// Spectrum returns the packed kernel spectrum. Callers must not modify it.
func (f *FIRFilter) Spectrum() []complex128 { return f.spectrum }

// DesignLowPass builds the low-pass filter for s using transforms from keeper.
func DesignLowPass(s LowPassSpec, keeper *fft.Keeper) (*FIRFilter, error) {
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if keeper == nil {
		keeper = fft.DefaultKeeper
	}

	hl, fo1, pwr := lowPassShape(s.TransBand*0.01, s.Atten)

	g := SincGen{
		Len2:  0.25 * hl / s.NormFreq,
		Freq1: 0,
		Freq2: math.Pi * (1 - fo1) * s.NormFreq,
	}
	if g.Len2 < minSincLen2 {
		g.Len2 = minSincLen2
	}
	g.InitBand(WindowKaiser, []float64{lowPassKaiserBeta, pwr}, true)

	kernelLen := g.KernelLen()
	bits := mathutil.BitOccupancy(kernelLen - 1)

	f, err := keeper.Acquire(bits + 1)
	if err != nil {
		return nil, fmt.Errorf("%w: kernel of %d taps is too long", ErrInvalidParameter, kernelLen)
	}
	defer keeper.Release(f)

	block := make([]float64, f.Len())
	g.GenerateBand(block)
	mathutil.NormalizeFIR(block, kernelLen, s.Gain*f.InvMulConst(), 1)

	spectrum := make([]complex128, f.SpectrumLen())
	f.Forward(spectrum, block)

	return &FIRFilter{
		spec:         s,
		kernelLen:    kernelLen,
		latency:      g.Fl2(),
		blockLenBits: bits,
		spectrum:     spectrum,
	}, nil
}

// lowPassShape maps a transition band (fraction) and attenuation (dB) to the
// kernel half-length hl, the cutoff offset fo1 and the Kaiser window power.
func lowPassShape(tb, reqAtten float64) (hl, fo1, pwr float64) {
	ti := 2
	switch {
	case tb >= tierWideMin:
		ti = 0
	case tb >= tierMediumMin:
		ti = 1
	}

	oi := 2
	switch {
	case reqAtten >= 117:
		oi = 0
	case reqAtten >= 60:
		oi = 1
	}

	atten := -reqAtten - tiers[ti].offsets[oi]

	corr := int(math.Floor((-atten-attenCorrMin)*attenCorrCount/attenCorrDiff + 0.5))
	corr = max(0, min(attenCorrCount, corr))
	atten -= float64(attenCorrTables[ti][corr]) / tiers[ti].scale

	pwr = 7.43932822146293e-8*atten*atten +
		0.000102747434588003*math.Cos(0.00785021930010397*atten)*math.Cos(0.633854318781239+0.103208573657699*atten) -
		0.00798132247867036 - 0.000903555213543865*atten -
		0.0969365532127236*math.Exp(0.0779275237937911*atten) -
		1.37304948662012e-5*atten*math.Cos(0.00785021930010397*atten)

	if pwr <= pwrThreshold {
		switch ti {
		case 0:
			hl = 2.6778150875894/tb + 300.547590563091*math.Atan(math.Atan(2.68959772209918*pwr))/
				(5.5099277187035*tb-tb*math.Tanh(math.Cos(math.Asinh(atten))))
			fo1 = 0.987205355829873*tb + 1.00011788929851*math.Atan2(
				-0.321432067051302-6.19131357321578*math.Sqrt(pwr),
				hl+-1.14861472207245/(hl-14.1821147585957)+math.Pow(
					0.9521145021664, math.Pow(math.Atan2(1.12018764830637, tb),
						2.10988901686912*hl-20.9691278378345)))
		case 1:
			hl = (1.56688617018066 + 142.064321294568*pwr +
				0.00419441117131136*math.Cos(243.633511747297*pwr) -
				0.022953443903576*atten - 0.026629568860284*math.Cos(127.715550622571*pwr)) / tb
			fo1 = 0.982299356642411*tb + 0.999441744774215*math.Asinh(
				(-0.361783054039583-5.80540593623676*math.Sqrt(pwr))/hl)
		default:
			hl = (2.45739657014937 + 269.183679500541*pwr*math.Cos(
				5.73225668178813+math.Atan2(math.Cosh(0.988861169868941-17.2201556280744*pwr),
					1.08340138240431*pwr))) / tb
			fo1 = 2.291956939*tb + 0.01942450693*tb*tb*hl -
				4.67538973161837*pwr*tb - 1.668433124*tb*math.Pow(pwr, pwr)
		}
		return hl, fo1, pwr
	}

	switch ti {
	case 0:
		hl = (1.50258368698213 + 158.556968859477*math.Asinh(pwr)*
			math.Tanh(57.9466246871383*math.Tanh(pwr)) - 0.0105440479814834*atten) / tb
		fo1 = 0.994024401639321*tb + (-0.236282717577215-6.8724924545387*math.Sqrt(math.Sin(pwr)))/hl
	case 1:
		hl = (1.50277377248945 + 158.222625721046*math.Asinh(pwr)*
			math.Tanh(1.02875299001715+42.072277322604*pwr) - 0.0108380943845632*atten) / tb
		fo1 = 0.992539376734551*tb + (-0.251747813037178-
			6.74159892452584*math.Sqrt(math.Tanh(math.Tanh(math.Tan(pwr)))))/hl
	default:
		hl = (1.15990238966306*pwr - 5.02124037125213*pwr*pwr -
			0.158676856669827*atten*math.Cos(1.1609073390614*pwr-6.33932586197475*pwr*pwr*pwr)) / tb
		fo1 = 0.867344453126885*tb + 0.052693817907757*tb*math.Log(pwr) +
			0.0895511178735932*tb*math.Atan(59.7538527741309*pwr) - 0.0745653568081453*pwr*tb
	}
	return hl, fo1, pwr
}
