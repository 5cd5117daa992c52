package resampler

import (
	"fmt"

	"github.com/tphakala/go-hq-resampler/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000
)

// NewCDtoDAT creates a resampler for CD (44.1kHz) to DAT (48kHz) conversion.
func NewCDtoDAT(quality QualityPreset) (Resampler, error) {
	return NewMultiChannel(RateCD, RateDAT, 1, quality)
}

// NewDATtoCD creates a resampler for DAT (48kHz) to CD (44.1kHz) conversion.
func NewDATtoCD(quality QualityPreset) (Resampler, error) {
	return NewMultiChannel(RateDAT, RateCD, 1, quality)
}

// NewSimple creates a mono resampler with the default quality.
func NewSimple(inputRate, outputRate float64) (Resampler, error) {
	return NewMultiChannel(inputRate, outputRate, 1, QualityVeryHigh)
}

// NewStereo creates a stereo resampler with the specified quality.
func NewStereo(inputRate, outputRate float64, quality QualityPreset) (Resampler, error) {
	return NewMultiChannel(inputRate, outputRate, stereoChannels, quality)
}

// NewMultiChannel creates a multi-channel resampler.
func NewMultiChannel(inputRate, outputRate float64, channels int, quality QualityPreset) (Resampler, error) {
	return New(&Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   channels,
		Quality:    QualitySpec{Preset: quality},
	})
}

// ResampleAll resamples a complete signal in one call. The result holds
// outLen samples; outLen <= 0 selects ceil(len(input)*ratio). Input is fed
// in MaxInputSize chunks, then silence until outLen samples are produced.
// config.Channels is ignored.
func ResampleAll(config *Config, input []float64, outLen int) ([]float64, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	cfg := *config
	cfg.Channels = 1
	r, err := New(&cfg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cr := r.(*constantRateResampler)
	if outLen <= 0 {
		outLen = int(cr.targetLen(int64(len(input))))
	}

	chunk := cr.chunkLen()
	output := make([]float64, 0, outLen)
	for len(input) > 0 && len(output) < outLen {
		n := min(chunk, len(input))
		out, err := r.Process(input[:n])
		if err != nil {
			return nil, err
		}
		output = append(output, out[:min(len(out), outLen-len(output))]...)
		input = input[n:]
	}

	if len(output) < outLen {
		zeros := make([]float64, chunk)
		for len(output) < outLen {
			out, err := r.Process(zeros)
			if err != nil {
				return nil, err
			}
			output = append(output, out[:min(len(out), outLen-len(output))]...)
		}
	}

	return output, nil
}

// InterleaveStereoInto writes [L0, R0, L1, R1, ...] into dst and returns
// the number of frames written, limited by the shorter channel and by
// len(dst)/2.
func InterleaveStereoInto(dst, left, right []float64) int {
	n := min(len(left), len(right), len(dst)/stereoChannels)
	simdops.Float64Ops().Interleave2(dst[:n*stereoChannels], left[:n], right[:n])
	return n
}

// DeinterleaveStereoInto splits interleaved stereo src into left and right
// and returns the number of frames written. A trailing half frame is
// ignored.
func DeinterleaveStereoInto(left, right, src []float64) int {
	n := min(len(left), len(right), len(src)/stereoChannels)
	simdops.Float64Ops().Deinterleave2(left[:n], right[:n], src[:n*stereoChannels])
	return n
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// The shorter channel sets the length.
func InterleaveToStereo(left, right []float64) []float64 {
	result := make([]float64, min(len(left), len(right))*stereoChannels)
	InterleaveStereoInto(result, left, right)
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	n := len(interleaved) / stereoChannels
	left = make([]float64, n)
	right = make([]float64, n)
	DeinterleaveStereoInto(left, right, interleaved)
	return left, right
}
