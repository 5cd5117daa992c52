package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"

	resampler "github.com/tphakala/go-hq-resampler"
	"github.com/tphakala/go-hq-resampler/internal/simdops"
)

const (
	wavFormatPCM = 1

	maxInt16 = 32767
	maxInt24 = 8388607
	maxInt32 = 2147483647

	progressInterval = 500 * time.Millisecond
)

var errUnsupportedBitDepth = errors.New("unsupported bit depth")

// wavInput is an open WAV file being decoded.
type wavInput struct {
	file       *os.File
	decoder    *wav.Decoder
	sampleRate int
	channels   int
	bitDepth   int
	duration   time.Duration

	samples []float64 // scaled interleaved samples of the last read
}

func openWAVInput(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	format := dec.Format()
	duration, err := dec.Duration()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read duration: %w", err)
	}

	return &wavInput{
		file:       f,
		decoder:    dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
		duration:   duration,
	}, nil
}

// read decodes up to len(dst[0]) frames into dst, scaled to [-1, 1].
// It returns the number of frames; 0 means end of data.
func (in *wavInput) read(buf *audio.IntBuffer, dst [][]float64) (int, error) {
	// n counts samples, not frames.
	n, err := in.decoder.PCMBuffer(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decode: %w", err)
	}
	if cap(in.samples) < n {
		in.samples = make([]float64, n)
	}
	in.samples = in.samples[:n]
	pcmToFloat(in.samples, buf.Data[:n], 1/fullScale(in.bitDepth))
	return deinterleaveInto(dst, in.samples), nil
}

func (in *wavInput) Close() error {
	return in.file.Close()
}

// wavOutput encodes float channels to an integer PCM WAV file.
type wavOutput struct {
	file     *os.File
	encoder  *wav.Encoder
	channels int
	scale    float64

	buf         *audio.IntBuffer
	interleaved []float64
	frames      int64
}

func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutput, error) {
	if fullScale(bitDepth) == 0 {
		return nil, fmt.Errorf("%w: %d", errUnsupportedBitDepth, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	return &wavOutput{
		file:     f,
		encoder:  wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM),
		channels: channels,
		scale:    fullScale(bitDepth),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// write encodes one block of per-channel samples. Channels may differ in
// length; the shortest one sets the frame count.
func (o *wavOutput) write(chans [][]float64) error {
	frames := len(chans[0])
	for _, c := range chans[1:] {
		frames = min(frames, len(c))
	}
	if frames == 0 {
		return nil
	}

	n := frames * o.channels
	if cap(o.interleaved) < n {
		o.interleaved = make([]float64, n)
		o.buf.Data = make([]int, n)
	}
	o.interleaved = o.interleaved[:n]
	o.buf.Data = o.buf.Data[:n]

	interleaveInto(o.interleaved, chans, frames)
	quantizeInto(o.buf.Data, o.interleaved, o.scale)

	if err := o.encoder.Write(o.buf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	o.frames += int64(frames)
	return nil
}

func (o *wavOutput) Close() error {
	encErr := o.encoder.Close()
	fileErr := o.file.Close()
	if encErr != nil {
		return fmt.Errorf("finalize WAV header: %w", encErr)
	}
	return fileErr
}

// fullScale returns the positive full-scale value for a PCM bit depth, or 0
// if the depth is unsupported.
func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 16:
		return maxInt16
	case 24:
		return maxInt24
	case 32:
		return maxInt32
	default:
		return 0
	}
}

// pcmToFloat converts integer PCM to float, multiplying by scale.
func pcmToFloat(dst []float64, src []int, scale float64) {
	for i, v := range src {
		dst[i] = float64(v)
	}
	simdops.Float64Ops().Scale(dst, dst, scale)
}

// deinterleaveInto splits interleaved samples into dst. Trailing samples
// that do not form a whole frame are dropped.
func deinterleaveInto(dst [][]float64, src []float64) int {
	if len(dst) == 2 {
		return resampler.DeinterleaveStereoInto(dst[0], dst[1], src)
	}
	channels := len(dst)
	frames := min(len(src)/channels, len(dst[0]))
	for i := range frames {
		base := i * channels
		for ch := range channels {
			dst[ch][i] = src[base+ch]
		}
	}
	return frames
}

// interleaveInto writes frames of chans into dst in frame order.
func interleaveInto(dst []float64, chans [][]float64, frames int) {
	if len(chans) == 2 {
		resampler.InterleaveStereoInto(dst, chans[0][:frames], chans[1][:frames])
		return
	}
	channels := len(chans)
	for i := range frames {
		for ch := range channels {
			dst[i*channels+ch] = chans[ch][i]
		}
	}
}

// quantizeInto scales src to integer PCM with rounding and clipping.
func quantizeInto(dst []int, src []float64, scale float64) {
	simdops.Float64Ops().Scale(src, src, scale)
	for i, v := range src {
		v = math.Round(v)
		switch {
		case v > scale:
			v = scale
		case v < -scale-1:
			v = -scale - 1
		}
		dst[i] = int(v)
	}
}

// progressTracker logs conversion progress at most every progressInterval.
type progressTracker struct {
	log         *zap.Logger
	totalFrames int64
	done        int64
	last        time.Time
}

func newProgressTracker(log *zap.Logger, totalFrames int64) *progressTracker {
	return &progressTracker{log: log, totalFrames: totalFrames, last: time.Now()}
}

func (p *progressTracker) add(frames int) {
	p.done += int64(frames)
	if time.Since(p.last) < progressInterval {
		return
	}
	p.last = time.Now()
	p.log.Info("progress", zap.Float64("percent", p.percent()))
}

func (p *progressTracker) percent() float64 {
	if p.totalFrames <= 0 {
		return 0
	}
	return min(100, 100*float64(p.done)/float64(p.totalFrames))
}
