// Package resampler provides high-quality sample rate conversion in pure Go.
//
// The engine follows the r8brain-free-src design by Aleksey Vaneev:
// FFT overlap-save block convolution for the anti-aliasing and
// anti-imaging filters, half-band stages for power-of-2 factors and a
// fractional delay filter bank for arbitrary ratios. Filter delay is
// removed internally, so the output stream is aligned with the input.
//
// # Features
//
//   - Quality presets from impulse-response grade to 32-bit float grade
//   - Exact rational paths for 2x, 3x, 2/3, 3/2, 3/4 and power-of-2 ratios
//   - Arbitrary ratios through a spline-interpolated fractional delay bank
//   - Process-wide or isolated registries sharing FFT objects and filters
//   - Multi-channel processing with optional goroutine per channel
//   - SIMD kernels via github.com/tphakala/simd
//
// # Quick Start
//
// For one-shot resampling of a complete signal:
//
//	output, err := resampler.ResampleAll(&resampler.Config{
//	    InputRate:  44100,
//	    OutputRate: 48000,
//	}, input, 0)
//
// For streaming:
//
//	r, err := resampler.New(&resampler.Config{
//	    InputRate:  44100,
//	    OutputRate: 48000,
//	    Channels:   2,
//	    Quality:    resampler.QualitySpec{Preset: resampler.QualityHigh},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for chunk := range audioChunks {
//	    output, err := r.ProcessMulti(chunk)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(output)
//	}
//
//	final, _ := r.FlushMulti()
//
// Process results are valid until the next call on the same resampler.
//
// # Quality Presets
//
// All presets use a 2% transition band and linear-phase filters:
//
//   - [QualityLow]: 109.56 dB, for impulse responses and other non-dynamic signals.
//   - [QualityMedium]: 136.45 dB, for 16-bit audio.
//   - [QualityHigh]: 180.15 dB, for 24-bit audio.
//   - [QualityVeryHigh]: 206.91 dB, for 32-bit float audio. The default.
//
// [QualityCustom] takes TransitionBand (0.5-45%) and Attenuation
// (49-218 dB) from [QualitySpec]. Minimum-phase filters are rejected with
// [ErrNotSupported].
//
// # Architecture
//
// The stage sequence depends only on the rate pair:
//
//	equal rates       no stages, input returned as is
//	1/2 1/3 2/3 3/2 3/4  one block convolver with fused up/down factors
//	2^c or 3*2^c up   block convolver, then c half-band upsamplers
//	dst > src/2       2x block convolver, then fractional interpolator
//	otherwise         c half-band downsamplers, a block convolver at the
//	                  final cutoff, then an interpolator unless the
//	                  remaining ratio is exactly 2 or 3
//
// Each stage passes its residual fractional latency to the next one.
//
// # Thread Safety
//
// A [Resampler] serializes Clear, Flush and Close against processing.
// [Resampler.ProcessMulti] may run channels concurrently. Calls to
// [Resampler.Process] on the same instance must not overlap. A [Registry]
// may be shared freely.
package resampler
