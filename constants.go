package resampler

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Quality preset parameters
const (
	presetTransBand = 2.0 // Percent, shared by all presets

	lowAtten      = 109.56 // Impulse responses, 16-bit non-dynamic
	mediumAtten   = 136.45 // 16-bit
	highAtten     = 180.15 // 24-bit
	veryHighAtten = 206.91 // 32-bit float
)

// Resampling ratio limits
const (
	minRatioFactor = 1.0 / 256.0 // Minimum resampling ratio (1/256)
	maxRatioFactor = 256.0       // Maximum resampling ratio (256x)
)

// Buffer constants
const (
	defaultMaxInputSize = 8192 // Input length the pipelines are sized for
)
