package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-hq-resampler/internal/filter"
	"github.com/tphakala/go-hq-resampler/internal/mathutil"
	"github.com/tphakala/go-hq-resampler/internal/pipeline"
	"github.com/tphakala/go-hq-resampler/internal/simdops"
)

// InterpolatorSpec describes a fractional interpolation stage.
type InterpolatorSpec struct {
	SrcRate float64
	DstRate float64
	// Atten is the required attenuation of the delay filters in dB.
	Atten float64
	// Third selects delay filters for 1/3 bandwidth resampling.
	Third bool
}

// FracInterpolator resamples by an arbitrary ratio with a bank of
// fractional delay filters. When the rates reduce to small integer steps
// the bank holds one exact filter per output phase; otherwise filters
// between bank entries are spline interpolated.
type FracInterpolator struct {
	spec  InterpolatorSpec
	banks *filter.BankCache
	ops   *simdops.Ops64

	bank       *filter.FracDelayFilterBank
	bankHandle *filter.BankHandle // nil for static banks

	ring *pipeline.MirrorRing

	filterLen int
	fl2       int // filterLen/2
	fll       int // fl2-1
	flo       int // fll+fl2
	flb       int // initial read position

	readPos  int
	writePos int
	bufLeft  int

	latency     int // input samples to drop after Clear
	latencyLeft int
	latencyFrac float64

	whole        bool
	inStep       int
	outStep      int
	initFracPos  float64
	initFracPosW int
	inPosFracW   int
	inPosFrac    float64
	inCounter    int
	inPosInt     int
	inPosShift   float64
}

// NewFracInterpolator builds an interpolator taking delay filter banks from
// banks. The whole part of prevLatencyFrac is dropped from the input and
// the fractional part shifts the first interpolation position.
func NewFracInterpolator(banks *filter.BankCache, spec InterpolatorSpec, prevLatencyFrac float64) (*FracInterpolator, error) {
	if !(spec.SrcRate > 0) || !(spec.DstRate > 0) || math.IsInf(spec.SrcRate, 0) || math.IsInf(spec.DstRate, 0) {
		return nil, fmt.Errorf("%w: interpolator rates %g -> %g", ErrInvalidStage, spec.SrcRate, spec.DstRate)
	}
	if prevLatencyFrac < 0 {
		return nil, fmt.Errorf("%w: negative previous latency %g", ErrInvalidStage, prevLatencyFrac)
	}
	if banks == nil {
		banks = filter.DefaultBankCache
	}

	fi := &FracInterpolator{
		spec:  spec,
		banks: banks,
		ops:   simdops.Float64Ops(),
	}
	fi.latency, fi.initFracPos = mathutil.SplitFrac(prevLatencyFrac)

	var err error
	fi.inStep, fi.outStep, fi.whole = mathutil.WholeStepping(spec.SrcRate, spec.DstRate)
	if fi.whole {
		fi.initFracPosW = int(fi.initFracPos * float64(fi.outStep))
		fi.latencyFrac = fi.initFracPos - float64(fi.initFracPosW)/float64(fi.outStep)
		fi.bankHandle, err = banks.Bank(filter.BankSpec{
			Fracs:  fi.outStep,
			Order:  0,
			Points: filter.Points2,
			Atten:  spec.Atten,
			Third:  spec.Third,
		})
		if err == nil {
			fi.bank = fi.bankHandle.FracDelayFilterBank
		}
	} else {
		fi.bank, err = banks.Static(fi.splineBankSpec())
	}
	if err != nil {
		return nil, err
	}

	fi.filterLen = fi.bank.FilterLen()
	fi.fl2 = fi.filterLen / 2
	fi.fll = fi.fl2 - 1
	fi.flo = fi.fll + fi.fl2
	fi.flb = interpBufLen - fi.fll
	fi.ring = pipeline.NewMirrorRing(interpBufLen, fi.flo)

	fi.Clear()
	return fi, nil
}

func (fi *FracInterpolator) splineBankSpec() filter.BankSpec {
	return filter.BankSpec{
		Fracs:  filter.FracsAuto,
		Order:  2,
		Points: filter.Points8,
		Atten:  fi.spec.Atten,
		Third:  fi.spec.Third,
	}
}

// Process implements pipeline.Stage.
func (fi *FracInterpolator) Process(in, out []float64) []float64 {
	if fi.latencyLeft > 0 {
		s := min(fi.latencyLeft, len(in))
		fi.latencyLeft -= s
		in = in[s:]
	}

	k := 0
	for len(in) > 0 {
		b := min(len(in), fi.flb-fi.bufLeft)
		fi.writePos = fi.ring.Write(fi.writePos, in[:b])
		in = in[b:]
		fi.bufLeft += b

		if fi.whole {
			k = fi.convolveWhole(out, k)
		} else {
			k = fi.convolveSpline(out, k)
		}
	}

	if !fi.whole && fi.inCounter > interpReanchorCount {
		fi.inCounter = 0
		fi.inPosInt = 0
		fi.inPosShift = fi.inPosFrac * fi.spec.DstRate / fi.spec.SrcRate
	}
	return out[:k]
}

func (fi *FracInterpolator) convolveWhole(out []float64, k int) int {
	mask := fi.ring.Mask()
	for fi.bufLeft > fi.fl2 {
		c0, _, _, _ := fi.bank.Planes(fi.inPosFracW)
		out[k] = fi.ops.DotProductUnsafe(fi.ring.Window(fi.readPos, fi.filterLen), c0)
		k++

		fi.inPosFracW += fi.inStep
		incr := fi.inPosFracW / fi.outStep
		fi.inPosFracW -= incr * fi.outStep
		fi.readPos = (fi.readPos + incr) & mask
		fi.bufLeft -= incr
	}
	return k
}

func (fi *FracInterpolator) convolveSpline(out []float64, k int) int {
	mask := fi.ring.Mask()
	fracs := float64(fi.bank.FilterFracs())
	ratio := fi.spec.SrcRate / fi.spec.DstRate

	for fi.bufLeft > fi.fl2 {
		x := fi.inPosFrac * fracs
		fti := int(x)
		x -= float64(fti)

		c0, c1, c2, c3 := fi.bank.Planes(fti)
		out[k] = fi.ops.CubicInterpDot(fi.ring.Window(fi.readPos, fi.filterLen), c0, c1, c2, c3, x)
		k++

		fi.inCounter++
		next := (float64(fi.inCounter) + fi.inPosShift) * ratio
		nextInt := int(next)
		incr := nextInt - fi.inPosInt
		fi.inPosInt = nextInt
		fi.inPosFrac = next - float64(nextInt)

		fi.readPos = (fi.readPos + incr) & mask
		fi.bufLeft -= incr
	}
	return k
}

// Clear implements pipeline.Stage.
func (fi *FracInterpolator) Clear() {
	fi.latencyLeft = fi.latency
	fi.bufLeft = 0
	fi.writePos = 0
	fi.readPos = fi.flb
	fi.ring.Fill(fi.flb, interpBufLen-fi.flb, 0)

	if fi.whole {
		fi.inPosFracW = fi.initFracPosW
		return
	}
	fi.inPosFrac = fi.initFracPos
	fi.inCounter = 0
	fi.inPosInt = 0
	fi.inPosShift = fi.initFracPos * fi.spec.DstRate / fi.spec.SrcRate
}

// SetDstSampleRate changes the output rate without clearing buffered input.
// The interpolation position restarts from the current sample and integer
// stepping is abandoned.
func (fi *FracInterpolator) SetDstSampleRate(dstRate float64) error {
	if !(dstRate > 0) || math.IsInf(dstRate, 0) {
		return fmt.Errorf("%w: destination rate %g", ErrInvalidStage, dstRate)
	}

	if fi.whole {
		bank, err := fi.banks.Static(fi.splineBankSpec())
		if err != nil {
			return err
		}
		fi.bankHandle.Release()
		fi.bankHandle = nil
		fi.bank = bank
		fi.inPosFrac = float64(fi.inPosFracW) / float64(fi.outStep)
		fi.whole = false
	}

	fi.spec.DstRate = dstRate
	fi.inCounter = 0
	fi.inPosInt = 0
	fi.inPosShift = fi.inPosFrac * dstRate / fi.spec.SrcRate
	return nil
}

// Close releases the filter bank reference.
func (fi *FracInterpolator) Close() {
	fi.bankHandle.Release()
}

// Latency implements pipeline.Stage.
func (fi *FracInterpolator) Latency() int { return 0 }

// LatencyFrac implements pipeline.Stage.
func (fi *FracInterpolator) LatencyFrac() float64 { return fi.latencyFrac }

// MaxOutLen implements pipeline.Stage.
func (fi *FracInterpolator) MaxOutLen(maxInLen int) int {
	return int(math.Ceil(float64(maxInLen)*fi.spec.DstRate/fi.spec.SrcRate)) + 1
}

// InLenBeforeOutStart implements pipeline.Stage. The position of output
// nextInLen is taken from the initial interpolation state.
func (fi *FracInterpolator) InLenBeforeOutStart(nextInLen int) int {
	var pos int
	if fi.whole {
		pos = (fi.initFracPosW + nextInLen*fi.inStep) / fi.outStep
	} else {
		pos = int(float64(nextInLen)*fi.spec.SrcRate/fi.spec.DstRate + fi.initFracPos)
	}
	return fi.latency + pos + fi.fl2
}

// Whole reports whether integer stepping is in use.
func (fi *FracInterpolator) Whole() bool { return fi.whole }

// Info implements pipeline.Stage.
func (fi *FracInterpolator) Info() pipeline.StageInfo {
	fracs := fi.bank.FilterFracs()
	return pipeline.StageInfo{
		Kind:        "interp",
		Taps:        fi.filterLen,
		Up:          1,
		Down:        1,
		Latency:     fi.latency,
		LatencyFrac: fi.latencyFrac,
		Detail: fmt.Sprintf("src=%.2f dst=%.2f fracs=%d whole=%t third=%t atten=%.2f",
			fi.spec.SrcRate, fi.spec.DstRate, fracs, fi.whole, fi.spec.Third, fi.bank.Atten()),
	}
}
