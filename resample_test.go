package resampler

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tphakala/go-hq-resampler/internal/testutil"
)

func newTestResampler(t *testing.T, cfg *Config) Resampler {
	t.Helper()
	if cfg.Channels == 0 {
		cfg.Channels = 1
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry(RegistryOptions{})
	}
	r, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

// processAll feeds in using the chunk sizes in turn and appends the flushed tail.
func processAll(t *testing.T, r Resampler, in []float64, chunks ...int) []float64 {
	t.Helper()
	if len(chunks) == 0 {
		chunks = []int{len(in)}
	}

	var out []float64
	for i := 0; len(in) > 0; i++ {
		n := min(chunks[i%len(chunks)], len(in))
		got, err := r.Process(in[:n])
		require.NoError(t, err)
		out = append(out, got...)
		in = in[n:]
	}

	tail, err := r.Flush()
	require.NoError(t, err)
	return append(out, tail...)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{InputRate: 44100, OutputRate: 48000, Channels: 2}, nil},
		{"zero rate", Config{InputRate: 0, OutputRate: 48000, Channels: 1}, ErrInvalidConfig},
		{"infinite rate", Config{InputRate: 44100, OutputRate: math.Inf(1), Channels: 1}, ErrInvalidConfig},
		{"nan rate", Config{InputRate: math.NaN(), OutputRate: 48000, Channels: 1}, ErrInvalidConfig},
		{"no channels", Config{InputRate: 44100, OutputRate: 48000}, ErrInvalidConfig},
		{"too many channels", Config{InputRate: 44100, OutputRate: 48000, Channels: maxChannels + 1}, ErrInvalidConfig},
		{"ratio too high", Config{InputRate: 100, OutputRate: 100 * 300, Channels: 1}, ErrInvalidConfig},
		{"negative max input", Config{InputRate: 44100, OutputRate: 48000, Channels: 1, MaxInputSize: -1}, ErrInvalidConfig},
		{"unknown preset", Config{InputRate: 44100, OutputRate: 48000, Channels: 1, Quality: QualitySpec{Preset: 17}}, ErrInvalidConfig},
		{
			"custom band too wide",
			Config{InputRate: 44100, OutputRate: 48000, Channels: 1, Quality: QualitySpec{Preset: QualityCustom, TransitionBand: 50, Attenuation: 120}},
			ErrInvalidConfig,
		},
		{
			"custom atten too low",
			Config{InputRate: 44100, OutputRate: 48000, Channels: 1, Quality: QualitySpec{Preset: QualityCustom, TransitionBand: 3, Attenuation: 20}},
			ErrInvalidConfig,
		},
		{
			"minimum phase",
			Config{InputRate: 44100, OutputRate: 48000, Channels: 1, Quality: QualitySpec{Phase: PhaseMinimum}},
			ErrNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = New(&tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGetPresetSpec(t *testing.T) {
	tests := []struct {
		preset QualityPreset
		atten  float64
	}{
		{QualityLow, 109.56},
		{QualityMedium, 136.45},
		{QualityHigh, 180.15},
		{QualityVeryHigh, 206.91},
	}

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			q := GetPresetSpec(tt.preset)
			assert.InDelta(t, tt.atten, q.Attenuation, 0)
			assert.InDelta(t, 2.0, q.TransitionBand, 0)
			assert.True(t, q.UsePowerOf2)
			require.NoError(t, q.Validate())

			p, err := ParseQualityPreset(tt.preset.String())
			require.NoError(t, err)
			assert.Equal(t, tt.preset, p)
		})
	}

	_, err := ParseQualityPreset("ultra")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_DoesNotModifyConfig(t *testing.T) {
	cfg := &Config{InputRate: 44100, OutputRate: 48000, Channels: 1, Quality: QualitySpec{Preset: QualityLow}}
	r, err := New(cfg)
	require.NoError(t, err)
	defer r.Close()

	assert.Zero(t, cfg.Quality.Attenuation)
	assert.Nil(t, cfg.Logger)
}

func TestIdentityReturnsInput(t *testing.T) {
	r := newTestResampler(t, &Config{InputRate: 48000, OutputRate: 48000})

	in := testutil.Noise(512, 1)
	out, err := r.Process(in)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	assert.Same(t, &in[0], &out[0])

	assert.Zero(t, r.GetInLenBeforeOutStart())
	assert.Equal(t, 100, r.GetMaxOutLen(100))
	assert.Equal(t, "identity", GetInfo(r).Algorithm)

	tail, err := r.Flush()
	require.NoError(t, err)
	assert.Empty(t, tail)
}

// TestUpsample2x_ImpulseAlignment checks that latency is removed from the
// visible stream: an impulse at input n peaks at output 2n.
func TestUpsample2x_ImpulseAlignment(t *testing.T) {
	const pos = 100
	for _, usePow2 := range []bool{true, false} {
		t.Run(fmt.Sprintf("pow2=%t", usePow2), func(t *testing.T) {
			q := GetPresetSpec(QualityVeryHigh)
			q.Preset = QualityCustom
			q.UsePowerOf2 = usePow2
			r := newTestResampler(t, &Config{InputRate: 22050, OutputRate: 44100, Quality: q})

			out := processAll(t, r, testutil.Impulse(1000, pos))
			require.Len(t, out, 2000)

			_, peak := testutil.MaxAbs(out)
			assert.InDelta(t, 2*pos, peak, 2)
		})
	}
}

// TestPowerOfTwoRoundTrip resamples a tone up by 2, 4 and 8 and back down;
// the residual stays below -100 dB.
func TestPowerOfTwoRoundTrip(t *testing.T) {
	const (
		rate = 44100.0
		n    = 30000
		edge = 6000
	)
	in := testutil.Sine(n, 1000, rate)

	for _, factor := range []float64{2, 4, 8} {
		t.Run(fmt.Sprintf("x%g", factor), func(t *testing.T) {
			reg := NewRegistry(RegistryOptions{})
			up := newTestResampler(t, &Config{InputRate: rate, OutputRate: rate * factor, Registry: reg})
			down := newTestResampler(t, &Config{InputRate: rate * factor, OutputRate: rate, Registry: reg})

			mid := processAll(t, up, in)
			require.Len(t, mid, int(n*factor))
			back := processAll(t, down, mid)
			require.Len(t, back, n)

			diff := testutil.MaxAbsDiff(in[edge:n-edge], back[edge:n-edge])
			assert.Less(t, diff, 1e-5)
		})
	}
}

// TestArbitraryRatio_Amplitude resamples a tone at 0.3 of Nyquist between
// 44.1 kHz and 48 kHz and checks it against the ideal output.
func TestArbitraryRatio_Amplitude(t *testing.T) {
	pairs := [][2]float64{{44100, 48000}, {48000, 44100}, {44100, 32000}, {96000, 44100}, {44100, 192000}}
	for _, p := range pairs {
		t.Run(fmt.Sprintf("%gto%g", p[0], p[1]), func(t *testing.T) {
			src, dst := p[0], p[1]
			freq := 0.3 * min(src, dst) / 2
			r := newTestResampler(t, &Config{InputRate: src, OutputRate: dst})

			in := testutil.Sine(40000, freq, src)
			out := processAll(t, r, in)
			require.Len(t, out, int(math.Ceil(float64(len(in))*dst/src)))

			body := out[len(out)/4 : 3*len(out)/4]
			peak, _ := testutil.MaxAbs(body)
			// 0.1 dB
			assert.InDelta(t, 1.0, peak, 0.0116)

			w := 2 * math.Pi * freq / dst
			for i := len(out) / 4; i < 3*len(out)/4; i++ {
				require.InDelta(t, math.Sin(w*float64(i)), out[i], 1e-4, "output %d", i)
			}
		})
	}
}

func TestDownsample_RejectsAliases(t *testing.T) {
	r := newTestResampler(t, &Config{
		InputRate:  48000,
		OutputRate: 22050,
		Quality:    QualitySpec{Preset: QualityLow},
	})

	// 15 kHz folds to 7050 Hz unless the anti-aliasing filter removes it.
	out := processAll(t, r, testutil.Sine(48000, 15000, 48000))
	assert.Less(t, testutil.RMS(out[len(out)/4:3*len(out)/4]), 1e-4)

	r.Clear()
	out = processAll(t, r, testutil.Sine(48000, 5000, 48000))
	assert.InDelta(t, math.Sqrt2/2, testutil.RMS(out[len(out)/4:3*len(out)/4]), 0.01)
}

func TestStreamingEquivalence(t *testing.T) {
	in := testutil.Sine(1000, 1000, 44100)

	r := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 48000})
	want := processAll(t, r, in)

	got := processAll(t, r, in, 1, 7, 50, 942)
	require.Len(t, got, len(want))
	assert.LessOrEqual(t, testutil.MaxAbsDiff(want, got), 1e-12)
}

func TestClearReproducible(t *testing.T) {
	r := newTestResampler(t, &Config{InputRate: 48000, OutputRate: 44100, Quality: QualitySpec{Preset: QualityMedium}})
	in := testutil.Noise(20000, 3)

	var first []float64
	for _, chunk := range [][]float64{in[:7000], in[7000:]} {
		out, err := r.Process(chunk)
		require.NoError(t, err)
		first = append(first, out...)
	}

	r.Clear()

	var second []float64
	for _, chunk := range [][]float64{in[:7000], in[7000:]} {
		out, err := r.Process(chunk)
		require.NoError(t, err)
		second = append(second, out...)
	}

	assert.Equal(t, first, second)
}

func TestGetInLenBeforeOutStart(t *testing.T) {
	pairs := [][2]float64{
		{44100, 48000},
		{48000, 44100},
		{44100, 176400},
		{96000, 44100},
		{192000, 48000},
		{88200, 44100},
		{44100, 192000},
	}

	for _, p := range pairs {
		t.Run(fmt.Sprintf("%gto%g", p[0], p[1]), func(t *testing.T) {
			r := newTestResampler(t, &Config{InputRate: p[0], OutputRate: p[1], Quality: QualitySpec{Preset: QualityLow}})
			want := r.GetInLenBeforeOutStart()

			one := []float64{0.25}
			fed := 0
			for ; fed < 100000; fed++ {
				out, err := r.Process(one)
				require.NoError(t, err)
				if len(out) > 0 {
					break
				}
			}
			assert.Equal(t, want, fed)
		})
	}
}

func TestGetMaxOutLen(t *testing.T) {
	r := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 96000, MaxInputSize: 1024})
	in := testutil.Noise(1024, 2)
	for range 40 {
		out, err := r.Process(in)
		require.NoError(t, err)
		require.LessOrEqual(t, len(out), r.GetMaxOutLen(len(in)))
	}
}

func TestMaxInputSize(t *testing.T) {
	r := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 48000, MaxInputSize: 64})

	_, err := r.Process(make([]float64, 64))
	require.NoError(t, err)
	_, err = r.Process(make([]float64, 65))
	assert.ErrorIs(t, err, ErrInputTooLong)
}

func TestProcessFloat32(t *testing.T) {
	in := testutil.Sine(40000, 440, 44100)
	in32 := make([]float32, len(in))
	for i, v := range in {
		in32[i] = float32(v)
	}

	r64 := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 88200})
	r32 := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 88200})

	want, err := r64.Process(in)
	require.NoError(t, err)
	got, err := r32.ProcessFloat32(in32)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	require.NotEmpty(t, got)
	for i := range got {
		assert.InDelta(t, want[i], float64(got[i]), 1e-6)
	}
}

func TestGetInfo(t *testing.T) {
	r := newTestResampler(t, &Config{
		InputRate:  44100,
		OutputRate: 48000,
		Logger:     zaptest.NewLogger(t),
	})

	info := GetInfo(r)
	assert.Len(t, info.Stages, 2)
	assert.Contains(t, info.Algorithm, "convolver")
	assert.Contains(t, info.Algorithm, "interpolator")
	assert.Positive(t, info.FilterLength)
	assert.Equal(t, r.GetInLenBeforeOutStart(), info.InLenBeforeOutStart)
	assert.InDelta(t, 48000.0/44100, r.GetRatio(), 1e-15)
}

func TestClose_GettersStayUsable(t *testing.T) {
	r := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 48000, Channels: 2})
	inLen := r.GetInLenBeforeOutStart()
	frac := r.GetLatencyFrac()
	info := GetInfo(r)
	require.Positive(t, r.GetMaxOutLen(256))

	r.Close()

	assert.NotPanics(t, func() {
		assert.Equal(t, inLen, r.GetInLenBeforeOutStart())
		assert.InDelta(t, frac, r.GetLatencyFrac(), 0)
		assert.Equal(t, info, GetInfo(r))
		assert.Zero(t, r.GetMaxOutLen(256))
	})

	_, err := r.Process([]float64{1})
	require.ErrorIs(t, err, ErrClosed)
	_, err = r.ProcessMulti([][]float64{{1}, {1}})
	require.ErrorIs(t, err, ErrClosed)
	_, err = r.Flush()
	require.ErrorIs(t, err, ErrClosed)
	_, err = r.FlushMulti()
	require.ErrorIs(t, err, ErrClosed)
	assert.NotPanics(t, r.Clear)
}

func TestRegistrySharesFilters(t *testing.T) {
	reg := NewRegistry(RegistryOptions{})

	a := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 48000, Channels: 2, Registry: reg})
	b := newTestResampler(t, &Config{InputRate: 44100, OutputRate: 48000, Registry: reg})
	require.NotNil(t, a)
	require.NotNil(t, b)

	stats := reg.Stats()
	assert.Equal(t, 1, stats.Filters)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, 1, stats.Banks)
	assert.Equal(t, uint64(1), stats.BankMisses)
	assert.Equal(t, uint64(2), stats.BankHits)
	assert.Zero(t, stats.BankEvictions)
}
