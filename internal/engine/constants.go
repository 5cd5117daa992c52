package engine

import "errors"

// ErrInvalidStage reports stage construction parameters outside the
// supported range.
var ErrInvalidStage = errors.New("engine: invalid stage parameters")

// Half-band stage constants.
const (
	// halfBandBufLen is the upsampler ring length. It must be a power of 2
	// and at least three times the longest half-band filter (28 taps).
	halfBandBufLen = 1 << 9

	// halfBandChunk bounds the input the downsampler buffers per pass.
	halfBandChunk = 512

	// maxHalfBandSteepness is the last steepness group of the kernel tables.
	maxHalfBandSteepness = len(halfBandKernels) - 1
)

// Fractional interpolator constants.
const (
	// interpBufLen is the interpolator ring length, a power of 2 at least
	// three times the longest bank filter.
	interpBufLen = 1 << 8

	// interpReanchorCount is the output count after which the interpolator
	// folds its counters into the position offset to keep them small.
	interpReanchorCount = 1000
)
