// Package mathutil provides the scalar numeric helpers shared by the filter
// designers and the resampling stages.
package mathutil

import "math"

// i0Knee splits the two polynomial fits of I0 (Abramowitz and Stegun
// 9.8.1 and 9.8.2).
const i0Knee = 3.75

// Coefficients of I0(x) in powers of (x/3.75)^2 below the knee.
var i0Near = [...]float64{1, 3.5156229, 3.0899424, 1.2067492, 0.2659732, 0.360768e-1, 0.45813e-2}

// Coefficients of sqrt(x)*exp(-x)*I0(x) in powers of 3.75/x above the knee.
var i0Far = [...]float64{
	0.39894228, 0.1328592e-1, 0.225319e-2, -0.157565e-2, 0.916281e-2,
	-0.2057706e-1, 0.2635537e-1, -0.1647633e-1, 0.392377e-2,
}

// BesselI0 returns the modified Bessel function of the first kind, order
// zero, with a relative error below 5e-7. The Kaiser parameter tables of
// the filter designers were fitted against this approximation.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < i0Knee {
		y := x / i0Knee
		return horner(i0Near[:], y*y)
	}
	return math.Exp(ax) / math.Sqrt(ax) * horner(i0Far[:], i0Knee/ax)
}

// horner evaluates c[0] + c[1]*y + c[2]*y^2 + ...
func horner(c []float64, y float64) float64 {
	r := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		r = r*y + c[i]
	}
	return r
}
