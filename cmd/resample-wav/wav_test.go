package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeTestWAV writes a sine tone with one phase offset per channel.
func writeTestWAV(t *testing.T, path string, rate, bitDepth, channels, frames int) {
	t.Helper()

	out, err := createWAVOutput(path, rate, bitDepth, channels)
	require.NoError(t, err)

	chans := make([][]float64, channels)
	for ch := range chans {
		chans[ch] = make([]float64, frames)
		for i := range frames {
			chans[ch][i] = 0.5 * math.Sin(2*math.Pi*1000*float64(i)/float64(rate)+float64(ch))
		}
	}
	require.NoError(t, out.write(chans))
	require.NoError(t, out.Close())
}

// readTestWAV decodes a whole WAV file.
func readTestWAV(t *testing.T, path string) (*wavInput, [][]float64) {
	t.Helper()

	in, err := openWAVInput(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = in.Close() })

	const block = 1000
	buf := &audio.IntBuffer{Format: in.decoder.Format(), Data: make([]int, block*in.channels)}
	tmp := make([][]float64, in.channels)
	all := make([][]float64, in.channels)
	for i := range tmp {
		tmp[i] = make([]float64, block)
	}
	for {
		n, err := in.read(buf, tmp)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		for ch := range all {
			all[ch] = append(all[ch], tmp[ch][:n]...)
		}
	}
	return in, all
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("this is not a RIFF file"), 0o600))

	_, err := openWAVInput(path)
	assert.ErrorContains(t, err, "not a valid WAV file")
}

func TestCreateWAVOutput_UnsupportedBitDepth(t *testing.T) {
	_, err := createWAVOutput(filepath.Join(t.TempDir(), "out.wav"), 48000, 12, 2)
	assert.ErrorIs(t, err, errUnsupportedBitDepth)
}

func TestWAVRoundTrip(t *testing.T) {
	for _, depth := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%dbit", depth), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tone.wav")
			writeTestWAV(t, path, 44100, depth, 2, 4410)

			in, got := readTestWAV(t, path)
			assert.Equal(t, 44100, in.sampleRate)
			assert.Equal(t, 2, in.channels)
			assert.Equal(t, depth, in.bitDepth)
			require.Len(t, got[0], 4410)
			require.Len(t, got[1], 4410)

			tol := 1.5 / fullScale(depth)
			for i := range 4410 {
				want := 0.5 * math.Sin(2*math.Pi*1000*float64(i)/44100+1)
				assert.InDelta(t, want, got[1][i], tol, "sample %d", i)
			}
		})
	}
}

func TestDeinterleaveInto(t *testing.T) {
	src := make([]float64, 7)
	pcmToFloat(src, []int{1, -1, 2, -2, 3, -3, 4}, 0.5)
	assert.Equal(t, []float64{0.5, -0.5, 1, -1, 1.5, -1.5, 2}, src)

	t.Run("stereo", func(t *testing.T) {
		dst := [][]float64{make([]float64, 4), make([]float64, 4)}
		n := deinterleaveInto(dst, src)

		assert.Equal(t, 3, n, "partial trailing frame is dropped")
		assert.Equal(t, []float64{0.5, 1, 1.5}, dst[0][:n])
		assert.Equal(t, []float64{-0.5, -1, -1.5}, dst[1][:n])
	})

	t.Run("three channels", func(t *testing.T) {
		dst := [][]float64{make([]float64, 4), make([]float64, 4), make([]float64, 4)}
		n := deinterleaveInto(dst, src)

		assert.Equal(t, 2, n)
		assert.Equal(t, []float64{0.5, -1}, dst[0][:n])
		assert.Equal(t, []float64{-0.5, 1.5}, dst[1][:n])
		assert.Equal(t, []float64{1, -1.5}, dst[2][:n])
	})
}

func TestInterleaveInto(t *testing.T) {
	t.Run("stereo", func(t *testing.T) {
		dst := make([]float64, 6)
		interleaveInto(dst, [][]float64{{1, 2, 3, 9}, {-1, -2, -3}}, 3)
		assert.Equal(t, []float64{1, -1, 2, -2, 3, -3}, dst)
	})

	t.Run("three channels", func(t *testing.T) {
		dst := make([]float64, 6)
		interleaveInto(dst, [][]float64{{1, 2}, {3, 4}, {5, 6}}, 2)
		assert.Equal(t, []float64{1, 3, 5, 2, 4, 6}, dst)
	})
}

func TestQuantizeInto_Clips(t *testing.T) {
	src := []float64{0, 0.5, 1, 1.5, -1, -1.5}
	dst := make([]int, len(src))
	quantizeInto(dst, src, maxInt16)

	assert.Equal(t, []int{0, 16384, maxInt16, maxInt16, -maxInt16, -maxInt16 - 1}, dst)
}

func TestFullScale(t *testing.T) {
	assert.InDelta(t, maxInt16, fullScale(16), 0)
	assert.InDelta(t, maxInt24, fullScale(24), 0)
	assert.InDelta(t, maxInt32, fullScale(32), 0)
	assert.Zero(t, fullScale(20))
}

func TestProgressTracker(t *testing.T) {
	p := newProgressTracker(zap.NewNop(), 200)
	p.add(50)
	assert.InDelta(t, 25.0, p.percent(), 1e-9)
	p.add(500)
	assert.InDelta(t, 100.0, p.percent(), 1e-9)

	assert.Zero(t, newProgressTracker(zap.NewNop(), 0).percent())
}
