package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-hq-resampler/internal/mathutil"
)

// ErrInvalidRates indicates a rate pair that cannot be planned.
var ErrInvalidRates = errors.New("invalid sample rates")

// StageType identifies the kind of processing stage.
type StageType int

const (
	// StageConvolver is an FFT block convolver with integer up/down factors.
	StageConvolver StageType = iota

	// StageHalfBandUp doubles the rate with a half-band filter.
	StageHalfBandUp

	// StageHalfBandDown halves the rate with a half-band filter.
	StageHalfBandDown

	// StageInterpolator converts between arbitrary rates.
	StageInterpolator
)

func (t StageType) String() string {
	switch t {
	case StageConvolver:
		return "convolver"
	case StageHalfBandUp:
		return "halfband-up"
	case StageHalfBandDown:
		return "halfband-down"
	case StageInterpolator:
		return "interpolator"
	default:
		return fmt.Sprintf("stage(%d)", int(t))
	}
}

// StageSpec specifies parameters for creating a stage.
type StageSpec struct {
	Type StageType

	// Convolver
	NormFreq  float64 // Stop-band start, normalized to the upsampled Nyquist
	TransBand float64 // Percent
	Gain      float64
	Up, Down  int

	// Half-band
	Steepness int
	Third     bool // Third-band tables (half-band and interpolator)

	// Interpolator
	SrcRate, DstRate float64

	Atten float64 // dB, all stage types
}

func (s StageSpec) String() string {
	switch s.Type {
	case StageConvolver:
		return fmt.Sprintf("%v up=%d down=%d freq=%.6g tb=%.4g%% gain=%g", s.Type, s.Up, s.Down, s.NormFreq, s.TransBand, s.Gain)
	case StageHalfBandUp, StageHalfBandDown:
		return fmt.Sprintf("%v steepness=%d third=%t", s.Type, s.Steepness, s.Third)
	default:
		return fmt.Sprintf("%v %g->%g third=%t", s.Type, s.SrcRate, s.DstRate, s.Third)
	}
}

// QualityParams holds the filter requirements shared by all stages.
type QualityParams struct {
	TransBand   float64 // Percent of the pass band, 0.5-45
	Atten       float64 // Stop-band attenuation in dB, 49-218
	UsePowerOf2 bool    // Half-band stages for power-of-2 factors
}

// Plan is an ordered stage sequence for one rate pair.
type Plan struct {
	SrcRate, DstRate float64
	Stages           []StageSpec
}

func (p *Plan) String() string {
	if len(p.Stages) == 0 {
		return "identity"
	}
	parts := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

// BuildPlan decomposes the src->dst conversion into stages. The choice is
// deterministic: a common single-step ratio, whole 2^c or 3*2^c
// upsampling, 2x upsampling followed by interpolation, or halving stages
// followed by a final filter and optional interpolation.
func BuildPlan(src, dst float64, q QualityParams) (*Plan, error) {
	if !(src > 0) || !(dst > 0) || math.IsInf(src, 0) || math.IsInf(dst, 0) {
		return nil, fmt.Errorf("%w: %g -> %g", ErrInvalidRates, src, dst)
	}

	p := &Plan{SrcRate: src, DstRate: dst}
	if src == dst {
		return p, nil
	}

	if p.commonRatio(q) || p.wholeUpsampling(q) {
		return p, nil
	}

	if dst*2 > src {
		p.upThenInterpolate(q)
	} else {
		p.downsample(q)
	}
	return p, nil
}

func (p *Plan) add(s StageSpec) {
	p.Stages = append(p.Stages, s)
}

func (p *Plan) convolver(q QualityParams, freq, tb, gain float64, up, down int) {
	p.add(StageSpec{
		Type:      StageConvolver,
		NormFreq:  freq,
		TransBand: tb,
		Gain:      gain,
		Up:        up,
		Down:      down,
		Atten:     q.Atten,
	})
}

func (p *Plan) commonRatio(q QualityParams) bool {
	for _, r := range commonRatios {
		num, den := r[0], r[1]
		if p.SrcRate*float64(num) == p.DstRate*float64(den) {
			p.convolver(q, 1/float64(max(num, den)), q.TransBand, float64(num), num, den)
			return true
		}
	}
	return false
}

func (p *Plan) wholeUpsampling(q QualityParams) bool {
	for i := factorTwo; i <= factorThree; i++ {
		c := 0
		for {
			sr := p.SrcRate * float64(i<<c)
			if sr == p.DstRate {
				break
			}
			if sr > p.DstRate {
				c = -1
				break
			}
			c++
		}
		if c < 0 {
			continue
		}

		p.convolver(q, 1/float64(i), q.TransBand, float64(i), i, 1)
		for k := range c {
			if q.UsePowerOf2 {
				p.add(StageSpec{Type: StageHalfBandUp, Steepness: k, Third: i == factorThree, Atten: q.Atten})
			} else {
				p.convolver(q, 0.5, relaxedTransBand, factorTwo, factorTwo, 1)
			}
		}
		return true
	}
	return false
}

func (p *Plan) upThenInterpolate(q QualityParams) {
	freq := 0.5
	if p.DstRate < p.SrcRate {
		freq = 0.5 * p.DstRate / p.SrcRate
	}

	p.convolver(q, freq, q.TransBand, factorTwo, factorTwo, 1)

	// Large upsampling ratios interpolate at a lower intermediate rate and
	// reach dst through further 2x stages, keeping the interpolator cheap.
	src2 := p.SrcRate * factorTwo
	thresh := p.SrcRate / (1 - interpTransBandScale*q.TransBand)
	c := 0
	div := 1.0
	for thresh > 0 && p.DstRate >= thresh*div*2 {
		c++
		div *= 2
	}
	if c == 1 {
		if _, _, ok := mathutil.WholeStepping(src2, p.DstRate); ok {
			c = 0
		}
	}

	if c == 0 {
		p.add(StageSpec{
			Type:    StageInterpolator,
			SrcRate: src2,
			DstRate: p.DstRate,
			Atten:   q.Atten,
		})
		return
	}

	// Interpolator rates are scaled by div so that the ratio stays correct
	// when the output rate is changed at runtime.
	p.add(StageSpec{
		Type:    StageInterpolator,
		SrcRate: src2 * div,
		DstRate: p.DstRate,
		Atten:   q.Atten,
	})

	tb := min((1-p.SrcRate*div/p.DstRate)/interpTransBandScale, relaxedTransBand)
	p.convolver(q, 0.5, tb, factorTwo, factorTwo, 1)
	for k := range c - 1 {
		if q.UsePowerOf2 {
			p.add(StageSpec{Type: StageHalfBandUp, Steepness: k, Atten: q.Atten})
		} else {
			p.convolver(q, 0.5, relaxedTransBand, factorTwo, factorTwo, 1)
		}
	}
}

func (p *Plan) downsample(q QualityParams) {
	c := 0
	for check := p.DstRate * downsampleCheckFactor; check <= p.SrcRate; check *= 2 {
		c++
	}
	div := float64(int(1) << c)

	downf := 1
	freq := p.DstRate * div / p.SrcRate
	third := freq*factorThree <= 1
	interp := true
	for f := factorTwo; f <= factorThree; f++ {
		if p.DstRate*div*float64(f) == p.SrcRate {
			downf = f
			freq = 1 / float64(f)
			third = f == factorThree
			interp = false
			break
		}
	}

	for i := range c {
		switch {
		case q.UsePowerOf2:
			p.add(StageSpec{Type: StageHalfBandDown, Steepness: c - 1 - i, Third: third, Atten: q.Atten})
		case i == c-1:
			p.convolver(q, 0.5, lastHalvingTransBand, 1, 1, factorTwo)
		default:
			p.convolver(q, 0.5, relaxedTransBand, 1, 1, factorTwo)
		}
	}

	p.convolver(q, freq, q.TransBand, 1, 1, downf)

	if interp {
		p.add(StageSpec{
			Type:    StageInterpolator,
			SrcRate: p.SrcRate / div,
			DstRate: p.DstRate,
			Third:   third,
			Atten:   q.Atten,
		})
	}
}
