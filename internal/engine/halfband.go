package engine

import (
	"fmt"

	"github.com/tphakala/go-hq-resampler/internal/pipeline"
	"github.com/tphakala/go-hq-resampler/internal/simdops"
)

// halfBandGroup is one steepness level of the half-band kernel tables.
type halfBandGroup struct {
	attens  []float64
	kernels [][]float64
}

// HalfBandSpec selects a half-band kernel.
type HalfBandSpec struct {
	// Atten is the required stop-band attenuation in dB. The first kernel
	// reaching it is used, or the strongest one.
	Atten float64
	// Steepness is 0 for the steepest transition; each further doubling
	// of the overall ratio allows one more level of relaxation.
	Steepness int
	// Third selects kernels for 1/3 bandwidth resampling.
	Third bool
	// KeepLatency makes an upsampler report its filter latency instead of
	// consuming it.
	KeepLatency bool
}

// selectHalfBand returns the taps and achieved attenuation for spec.
func selectHalfBand(spec HalfBandSpec) (flt []float64, atten float64) {
	groups := halfBandKernels[:]
	if spec.Third {
		groups = halfBandThirdKernels[:]
	}

	g := groups[max(0, min(spec.Steepness, len(groups)-1))]
	k := 0
	for k != len(g.attens)-1 && g.attens[k] < spec.Atten {
		k++
	}
	return g.kernels[k], g.attens[k]
}

// upKernel expands half-band taps into the kernel producing the odd output
// of an upsampler from a window of 2*len(flt) inputs centered between
// w[len(flt)-1] and w[len(flt)].
func upKernel(flt []float64) []float64 {
	c := len(flt) - 1
	k := make([]float64, 2*len(flt))
	for i, f := range flt {
		k[c+i+1] = f
		k[c-i] = f
	}
	return k
}

// downKernel expands half-band taps into the full unity-gain kernel of
// 4*len(flt)-1 taps. Only the center and odd distances from it are non-zero.
func downKernel(flt []float64) []float64 {
	c := 2*len(flt) - 1
	k := make([]float64, 4*len(flt)-1)
	k[c] = 0.5
	for i, f := range flt {
		k[c-2*i-1] = 0.5 * f
		k[c+2*i+1] = 0.5 * f
	}
	return k
}

// HalfBandUpsampler doubles the sample rate with a symmetric half-band
// filter. Even outputs copy the input; odd outputs are interpolated.
type HalfBandUpsampler struct {
	spec  HalfBandSpec
	flt   []float64
	kern  []float64
	atten float64
	ops   *simdops.Ops64

	ring *pipeline.MirrorRing

	fll int // taps-1, input latency
	fl2 int // taps, look-ahead
	flo int // fll+fl2
	flb int // initial read position

	readPos  int
	writePos int
	bufLeft  int

	latency     int
	latencyLeft int
	latencyFrac float64
}

// NewHalfBandUpsampler builds a 2x upsampler. prevLatencyFrac is the
// fractional latency, in input samples, left by the preceding stage.
func NewHalfBandUpsampler(spec HalfBandSpec, prevLatencyFrac float64) (*HalfBandUpsampler, error) {
	if prevLatencyFrac < 0 {
		return nil, fmt.Errorf("%w: negative previous latency %g", ErrInvalidStage, prevLatencyFrac)
	}

	flt, atten := selectHalfBand(spec)
	taps := len(flt)

	u := &HalfBandUpsampler{
		spec:  spec,
		flt:   flt,
		kern:  upKernel(flt),
		atten: atten,
		ops:   simdops.Float64Ops(),
		fll:   taps - 1,
		fl2:   taps,
		flo:   2*taps - 1,
	}
	u.ring = pipeline.NewMirrorRing(halfBandBufLen, u.flo)

	lf := prevLatencyFrac * 2
	u.latency = int(lf)
	u.latencyFrac = lf - float64(u.latency)

	if spec.KeepLatency {
		u.latency += 2 * u.fl2
		u.flb = halfBandBufLen - u.flo
	} else {
		u.flb = halfBandBufLen - u.fll
	}

	u.Clear()
	return u, nil
}

// Process implements pipeline.Stage.
func (u *HalfBandUpsampler) Process(in, out []float64) []float64 {
	mask := u.ring.Mask()
	win := u.flo + 1
	k := 0

	for len(in) > 0 {
		b := min(len(in), u.flb-u.bufLeft)
		u.writePos = u.ring.Write(u.writePos, in[:b])
		in = in[b:]
		u.bufLeft += b

		if u.bufLeft <= u.fl2 {
			continue
		}

		c := u.bufLeft - u.fl2
		for range c {
			w := u.ring.Window(u.readPos, win)
			out[k] = w[u.fll]
			out[k+1] = u.ops.DotProductUnsafe(w, u.kern)
			k += 2
			u.readPos = (u.readPos + 1) & mask
		}
		u.bufLeft -= c
	}

	o := out[:k]
	if u.latencyLeft > 0 {
		s := min(u.latencyLeft, k)
		u.latencyLeft -= s
		o = o[s:]
	}
	return o
}

// Clear implements pipeline.Stage.
func (u *HalfBandUpsampler) Clear() {
	if u.spec.KeepLatency {
		u.latencyLeft = 0
		u.bufLeft = u.fl2
	} else {
		u.latencyLeft = u.latency
		u.bufLeft = 0
	}

	u.writePos = 0
	u.readPos = u.flb
	u.ring.Fill(u.flb, halfBandBufLen-u.flb, 0)
}

// Latency implements pipeline.Stage.
func (u *HalfBandUpsampler) Latency() int {
	if u.spec.KeepLatency {
		return u.latency
	}
	return 0
}

// LatencyFrac implements pipeline.Stage.
func (u *HalfBandUpsampler) LatencyFrac() float64 { return u.latencyFrac }

// MaxOutLen implements pipeline.Stage.
func (u *HalfBandUpsampler) MaxOutLen(maxInLen int) int { return maxInLen * 2 }

// InLenBeforeOutStart implements pipeline.Stage.
func (u *HalfBandUpsampler) InLenBeforeOutStart(nextInLen int) int {
	if u.spec.KeepLatency {
		return nextInLen / 2
	}
	return u.fll + (u.latency+nextInLen+2)/2
}

// Info implements pipeline.Stage.
func (u *HalfBandUpsampler) Info() pipeline.StageInfo {
	return pipeline.StageInfo{
		Kind:        "hb-up",
		Taps:        len(u.flt),
		Up:          2,
		Down:        1,
		Latency:     u.latency,
		LatencyFrac: u.latencyFrac,
		Detail:      fmt.Sprintf("steep=%d third=%t atten=%.2f", u.spec.Steepness, u.spec.Third, u.atten),
	}
}

// HalfBandDownsampler halves the sample rate with a symmetric half-band
// filter of unity DC gain. Output n is centered on input 2n, so the stage
// adds no whole-sample latency.
type HalfBandDownsampler struct {
	spec  HalfBandSpec
	flt   []float64
	kern  []float64
	atten float64
	ops   *simdops.Ops64

	center int // 2*taps-1, distance from window start to its center
	win    int // 4*taps-1

	buf  []float64
	fill int

	drop        int
	dropLeft    int
	latencyFrac float64
}

// NewHalfBandDownsampler builds a 2x downsampler. The whole part of
// prevLatencyFrac is dropped from the input and the fractional part is
// passed on, halved.
func NewHalfBandDownsampler(spec HalfBandSpec, prevLatencyFrac float64) (*HalfBandDownsampler, error) {
	if prevLatencyFrac < 0 {
		return nil, fmt.Errorf("%w: negative previous latency %g", ErrInvalidStage, prevLatencyFrac)
	}
	spec.KeepLatency = false

	flt, atten := selectHalfBand(spec)
	taps := len(flt)

	d := &HalfBandDownsampler{
		spec:   spec,
		flt:    flt,
		kern:   downKernel(flt),
		atten:  atten,
		ops:    simdops.Float64Ops(),
		center: 2*taps - 1,
		win:    4*taps - 1,
	}
	d.buf = make([]float64, d.win-1+halfBandChunk)

	d.drop = int(prevLatencyFrac)
	d.latencyFrac = (prevLatencyFrac - float64(d.drop)) / 2

	d.Clear()
	return d, nil
}

// Process implements pipeline.Stage.
func (d *HalfBandDownsampler) Process(in, out []float64) []float64 {
	if d.dropLeft > 0 {
		s := min(d.dropLeft, len(in))
		d.dropLeft -= s
		in = in[s:]
	}

	k := 0
	for len(in) > 0 {
		n := copy(d.buf[d.fill:], in)
		in = in[n:]
		d.fill += n

		pos := 0
		for ; pos+d.win <= d.fill; pos += 2 {
			out[k] = d.ops.DotProductUnsafe(d.buf[pos:pos+d.win], d.kern)
			k++
		}
		d.fill = copy(d.buf, d.buf[pos:d.fill])
	}
	return out[:k]
}

// Clear implements pipeline.Stage.
func (d *HalfBandDownsampler) Clear() {
	clear(d.buf)
	d.fill = d.center
	d.dropLeft = d.drop
}

// Latency implements pipeline.Stage.
func (d *HalfBandDownsampler) Latency() int { return 0 }

// LatencyFrac implements pipeline.Stage.
func (d *HalfBandDownsampler) LatencyFrac() float64 { return d.latencyFrac }

// MaxOutLen implements pipeline.Stage.
func (d *HalfBandDownsampler) MaxOutLen(maxInLen int) int { return maxInLen/2 + 1 }

// InLenBeforeOutStart implements pipeline.Stage.
func (d *HalfBandDownsampler) InLenBeforeOutStart(nextInLen int) int {
	return d.drop + d.center + 2*nextInLen
}

// Info implements pipeline.Stage.
func (d *HalfBandDownsampler) Info() pipeline.StageInfo {
	return pipeline.StageInfo{
		Kind:        "hb-down",
		Taps:        len(d.flt),
		Up:          1,
		Down:        2,
		LatencyFrac: d.latencyFrac,
		Detail:      fmt.Sprintf("steep=%d third=%t atten=%.2f", d.spec.Steepness, d.spec.Third, d.atten),
	}
}
