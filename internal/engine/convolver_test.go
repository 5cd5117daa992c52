package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-hq-resampler/internal/filter"
	"github.com/tphakala/go-hq-resampler/internal/testutil"
)

type convCase struct {
	name     string
	up, down int
	freq     float64
}

var convCases = []convCase{
	{"plain", 1, 1, 0.5},
	{"up2", 2, 1, 0.5},
	{"down2", 1, 2, 0.5},
	{"up3down2", 3, 2, 1.0 / 3},
	{"up2down3", 2, 3, 1.0 / 3},
}

func newTestConvolver(t *testing.T, cache *filter.Cache, c convCase, prev float64) *BlockConvolver {
	t.Helper()
	spec := filter.LowPassSpec{NormFreq: c.freq, TransBand: 10, Atten: 100, Gain: float64(c.up)}
	conv, err := NewBlockConvolver(cache, spec, c.up, c.down, prev)
	require.NoError(t, err)
	t.Cleanup(conv.Close)
	return conv
}

func TestBlockConvolver_InvalidFactors(t *testing.T) {
	cache := newTestCache()
	spec := filter.LowPassSpec{NormFreq: 0.5, TransBand: 10, Atten: 100}

	_, err := NewBlockConvolver(cache, spec, 0, 1, 0)
	require.ErrorIs(t, err, ErrInvalidStage)
	_, err = NewBlockConvolver(cache, spec, 1, -2, 0)
	require.ErrorIs(t, err, ErrInvalidStage)
	_, err = NewBlockConvolver(cache, spec, 1, 1, -0.5)
	require.ErrorIs(t, err, ErrInvalidStage)

	_, err = NewBlockConvolver(cache, filter.LowPassSpec{NormFreq: 0.5, TransBand: 80, Atten: 100}, 1, 1, 0)
	require.ErrorIs(t, err, filter.ErrInvalidParameter)
}

// TestBlockConvolver_ImpulseAlignment checks that the consumed latency
// leaves an impulse at its ideal output position.
func TestBlockConvolver_ImpulseAlignment(t *testing.T) {
	const pos = 300
	for _, c := range convCases {
		t.Run(c.name, func(t *testing.T) {
			conv := newTestConvolver(t, newTestCache(), c, 0)
			// Place the impulse where pos*up is a multiple of down.
			in := testutil.Impulse(4000, pos*c.down)
			out := processChunked(conv, in, len(in))

			_, peak := testutil.MaxAbs(out)
			assert.Equal(t, pos*c.up, peak)
		})
	}
}

func TestBlockConvolver_DCGain(t *testing.T) {
	for _, c := range convCases {
		t.Run(c.name, func(t *testing.T) {
			conv := newTestConvolver(t, newTestCache(), c, 0)
			out := processChunked(conv, testutil.Constant(6000, 1), 6000)
			require.Greater(t, len(out), 600)

			tail := out[len(out)-200:]
			for i, v := range tail {
				assert.InDelta(t, 1.0, v, 1e-6, "tail sample %d", i)
			}
		})
	}
}

func TestBlockConvolver_StreamingEquivalence(t *testing.T) {
	in := testutil.Noise(5000, 7)
	for _, c := range convCases {
		t.Run(c.name, func(t *testing.T) {
			conv := newTestConvolver(t, newTestCache(), c, 0.3)
			want := processChunked(conv, in, len(in))

			for _, chunk := range streamChunks {
				conv.Clear()
				got := processChunked(conv, in, chunk)
				require.Len(t, got, len(want), "chunk %d", chunk)
				assert.LessOrEqual(t, testutil.MaxAbsDiff(want, got), 1e-12, "chunk %d", chunk)
			}
		})
	}
}

func TestBlockConvolver_MaxOutLen(t *testing.T) {
	conv := newTestConvolver(t, newTestCache(), convCases[3], 0)
	in := testutil.Noise(20000, 3)
	sizes := []int{1, 2, 3, 5, 64, 127, 999, 4096}

	for i := 0; len(in) > 0; i++ {
		n := min(sizes[i%len(sizes)], len(in))
		out := make([]float64, conv.MaxOutLen(n))
		got := conv.Process(in[:n], out)
		require.LessOrEqual(t, len(got), conv.MaxOutLen(n))
		in = in[n:]
	}
}

func TestBlockConvolver_InLenBeforeOutStart(t *testing.T) {
	for _, c := range convCases {
		for _, prev := range []float64{0, 0.3, 1.7} {
			t.Run(fmt.Sprintf("%s/prev=%.1f", c.name, prev), func(t *testing.T) {
				conv := newTestConvolver(t, newTestCache(), c, prev)
				for _, n := range []int{0, 1, 7} {
					want := conv.InLenBeforeOutStart(n)
					got := measureInLenBeforeOutStart(t, conv, n, 20000)
					assert.Equal(t, want, got, "output %d", n)
				}
			})
		}
	}
}

func TestBlockConvolver_LatencyFrac(t *testing.T) {
	cache := newTestCache()
	conv := newTestConvolver(t, cache, convCase{"up3down2", 3, 2, 1.0 / 3}, 0.7)

	// 0.7*3 = 2.1: two samples consumed, 0.1 upsampled samples left over.
	assert.InDelta(t, 0.1/2, conv.LatencyFrac(), 1e-12)
	assert.Zero(t, conv.Latency())
}

func TestBlockConvolver_ClearReproducible(t *testing.T) {
	conv := newTestConvolver(t, newTestCache(), convCases[1], 0)
	in := testutil.Noise(3000, 11)

	first := processChunked(conv, in, 333)
	conv.Clear()
	second := processChunked(conv, in, 333)

	assert.Equal(t, first, second)
}

func TestBlockConvolver_CloseReturnsResources(t *testing.T) {
	cache := newTestCache()
	spec := filter.LowPassSpec{NormFreq: 0.5, TransBand: 10, Atten: 100}
	conv, err := NewBlockConvolver(cache, spec, 1, 1, 0)
	require.NoError(t, err)

	bits := conv.Filter().BlockLenBits() + 1
	pooled := cache.Keeper().Pooled(bits)
	conv.Close()
	assert.Equal(t, pooled+1, cache.Keeper().Pooled(bits))

	info := conv.Info()
	assert.Equal(t, "conv", info.Kind)
	assert.Equal(t, conv.Filter().KernelLen(), info.Taps)
}

func BenchmarkBlockConvolver(b *testing.B) {
	cache := newTestCache()
	spec := filter.LowPassSpec{NormFreq: 0.5, TransBand: 2, Atten: 206.91, Gain: 2}
	conv, err := NewBlockConvolver(cache, spec, 2, 1, 0)
	if err != nil {
		b.Fatal(err)
	}
	defer conv.Close()

	in := testutil.Noise(4096, 1)
	out := make([]float64, conv.MaxOutLen(len(in)))

	b.ReportAllocs()
	b.SetBytes(int64(len(in) * 8))
	for b.Loop() {
		conv.Process(in, out)
	}
}
