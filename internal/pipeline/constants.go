package pipeline

// Pipeline stage capacities.
const (
	defaultStageCapacity = 4 // Initial capacity for stages slice
)

// Relaxed transition bands (percent) for fixed-ratio helper stages.
const (
	relaxedTransBand     = 45.0 // Maximum allowed by the low-pass designer
	lastHalvingTransBand = 34.0 // Keeps 0.5-0.75 aliasing out of the final band
)

// Fixed resampling factors.
const (
	factorTwo   = 2
	factorThree = 3
)

// interpTransBandScale maps a transition band (percent) to the fraction of
// the source rate it occupies in the intermediate-interpolation threshold.
const interpTransBandScale = 0.0175

// downsampleCheckFactor: halving stages are added while dst*4*2^c <= src.
const downsampleCheckFactor = 4.0

// commonRatios are single-step num/den ratios handled by one convolver.
var commonRatios = [...][2]int{
	{1, 2},
	{1, 3},
	{2, 3},
	{3, 2},
	{3, 4},
}
