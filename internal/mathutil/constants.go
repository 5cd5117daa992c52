package mathutil

// Spline coefficient denominators and weights for the 8-point
// 2nd/3rd order spline fits.
const (
	splineDenom = 76.0

	splineC1Near = 61.0
	splineC1Mid  = 16.0
	splineC1Far  = 3.0

	splineC2Near   = 106.0
	splineC2Far3   = 10.0
	splineC2FarM3  = 6.0
	splineC2Far4   = 3.0
	splineC2Mid    = 29.0
	splineC2Center = 167.0

	splineC3Near = 91.0
	splineC3Mid  = 45.0
	splineC3Far  = 13.0
	splineC3Edge = 3.0
)

// Whole-stepping search limits.
const (
	// gcdMaxIterations bounds the subtractive GCD search on float rates.
	gcdMaxIterations = 50

	// MaxWholeOutStep is the largest output step for which a whole-stepping
	// filter bank is built; larger banks perform poorly in cache.
	MaxWholeOutStep = 1500
)
