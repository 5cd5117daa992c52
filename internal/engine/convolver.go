package engine

import (
	"fmt"

	"github.com/tphakala/go-hq-resampler/internal/fft"
	"github.com/tphakala/go-hq-resampler/internal/filter"
	"github.com/tphakala/go-hq-resampler/internal/pipeline"
)

// BlockConvolver filters a stream with a cached low-pass filter using
// overlap-save FFT convolution, optionally upsampling by zero insertion
// before the filter and downsampling by decimation after it.
//
// Block layout (time domain, length 2*BlockLen):
//  1. the first kernelLen-1 samples hold the tail of the previous block
//  2. the remaining inputLen samples are filled with new (upsampled) input
//  3. after the inverse FFT, positions kernelLen-1 onward are valid outputs
//
// Output is read from the previous block at the offset the current input
// is written to, so every input sample yields output immediately at the
// cost of one block (inputLen samples) of extra latency, which is consumed.
type BlockConvolver struct {
	handle *filter.FilterHandle
	keeper *fft.Keeper
	fft    *fft.RealFFT

	up, down  int
	fftLen    int
	kernelLen int
	hist      int // kernelLen-1
	inputLen  int // new samples per block

	block    []float64
	result   []float64
	spectrum []complex128

	pos         int // new samples in the current block
	upLeft      int // zeros still owed to the current input sample
	downSkip    int // upsampled outputs to skip before the next kept one
	latency     int // upsampled outputs to drop after Clear
	latencyLeft int
	latencyFrac float64
}

// NewBlockConvolver designs or fetches the low-pass filter described by spec
// from cache and builds a convolver around it. prevLatencyFrac is the
// fractional latency, in input samples, left by the preceding stage.
func NewBlockConvolver(cache *filter.Cache, spec filter.LowPassSpec, up, down int, prevLatencyFrac float64) (*BlockConvolver, error) {
	if up < 1 || down < 1 {
		return nil, fmt.Errorf("%w: convolver factors %d/%d", ErrInvalidStage, up, down)
	}
	if prevLatencyFrac < 0 {
		return nil, fmt.Errorf("%w: negative previous latency %g", ErrInvalidStage, prevLatencyFrac)
	}

	h, err := cache.LowPass(spec)
	if err != nil {
		return nil, err
	}

	keeper := cache.Keeper()
	f, err := keeper.Acquire(h.BlockLenBits() + 1)
	if err != nil {
		h.Release()
		return nil, err
	}

	n := f.Len()
	c := &BlockConvolver{
		handle:    h,
		keeper:    keeper,
		fft:       f,
		up:        up,
		down:      down,
		fftLen:    n,
		kernelLen: h.KernelLen(),
		hist:      h.KernelLen() - 1,
		inputLen:  n - (h.KernelLen() - 1),
		block:     make([]float64, n),
		result:    make([]float64, n),
		spectrum:  make([]complex128, f.SpectrumLen()),
	}

	lf := prevLatencyFrac * float64(up)
	whole := int(lf)
	c.latencyFrac = (lf - float64(whole)) / float64(down)
	c.latency = whole + c.inputLen + h.Latency()

	c.Clear()
	return c, nil
}

// Process implements pipeline.Stage.
func (c *BlockConvolver) Process(in, out []float64) []float64 {
	out = out[:0]
	hist := c.hist

	for {
		var n int
		switch {
		case c.upLeft > 0:
			n = min(c.upLeft, c.inputLen-c.pos)
			clear(c.block[hist+c.pos : hist+c.pos+n])
			c.upLeft -= n
		case len(in) == 0:
			return out
		case c.up == 1:
			n = copy(c.block[hist+c.pos:hist+c.inputLen], in)
			in = in[n:]
		default:
			c.block[hist+c.pos] = in[0]
			in = in[1:]
			n = 1
			c.upLeft = c.up - 1
		}

		out = c.emit(out, c.result[hist+c.pos:hist+c.pos+n])
		c.pos += n

		if c.pos == c.inputLen {
			c.filterBlock()
			c.pos = 0
		}
	}
}

// emit appends the kept samples of src, after latency removal and
// decimation, to out.
func (c *BlockConvolver) emit(out, src []float64) []float64 {
	if c.latencyLeft > 0 {
		s := min(c.latencyLeft, len(src))
		c.latencyLeft -= s
		src = src[s:]
	}

	if c.down == 1 {
		return append(out, src...)
	}

	j := c.downSkip
	for ; j < len(src); j += c.down {
		out = append(out, src[j])
	}
	c.downSkip = j - len(src)
	return out
}

func (c *BlockConvolver) filterBlock() {
	c.fft.Forward(c.spectrum, c.block)
	fft.MultiplyBlocks(c.spectrum, c.spectrum, c.handle.Spectrum())
	c.fft.Inverse(c.result, c.spectrum)

	copy(c.block[:c.hist], c.block[c.inputLen:])
}

// Clear implements pipeline.Stage.
func (c *BlockConvolver) Clear() {
	clear(c.block)
	clear(c.result)
	c.pos = 0
	c.upLeft = 0
	c.downSkip = 0
	c.latencyLeft = c.latency
}

// Close returns the filter reference and FFT object to their pools. The
// convolver must not be used afterwards.
func (c *BlockConvolver) Close() {
	if c.fft != nil {
		c.keeper.Release(c.fft)
		c.fft = nil
	}
	c.handle.Release()
}

// Latency implements pipeline.Stage. The integer latency is consumed.
func (c *BlockConvolver) Latency() int { return 0 }

// LatencyFrac implements pipeline.Stage.
func (c *BlockConvolver) LatencyFrac() float64 { return c.latencyFrac }

// MaxOutLen implements pipeline.Stage.
func (c *BlockConvolver) MaxOutLen(maxInLen int) int {
	return (maxInLen*c.up + c.down - 1) / c.down
}

// InLenBeforeOutStart implements pipeline.Stage.
func (c *BlockConvolver) InLenBeforeOutStart(nextInLen int) int {
	return (nextInLen*c.down + c.latency) / c.up
}

// Info implements pipeline.Stage.
func (c *BlockConvolver) Info() pipeline.StageInfo {
	s := c.handle.Spec()
	return pipeline.StageInfo{
		Kind:        "conv",
		Taps:        c.kernelLen,
		Up:          c.up,
		Down:        c.down,
		Latency:     c.latency,
		LatencyFrac: c.latencyFrac,
		Detail: fmt.Sprintf("freq=%.6f tb=%.2f atten=%.2f block=%d",
			s.NormFreq, s.TransBand, s.Atten, c.fftLen),
	}
}

// Filter returns the filter the convolver uses.
func (c *BlockConvolver) Filter() *filter.FIRFilter { return c.handle.FIRFilter }
