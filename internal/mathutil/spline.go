package mathutil

// SplineCoeffs holds polynomial coefficients c0 + c1·x + c2·x² + c3·x³
// describing a curve between samples x0 and x1.
type SplineCoeffs [4]float64

// Spline3p8 fits a 3rd order spline through 8 equidistant points
// (xm3..x4) and returns the coefficients of the segment between x0 and x1.
func Spline3p8(xm3, xm2, xm1, x0, x1, x2, x3, x4 float64) SplineCoeffs {
	c := Spline2p8(xm3, xm2, xm1, x0, x1, x2, x3, x4)

	c[3] = (splineC3Near*(x0-x1) + splineC3Mid*(x2-xm1) +
		splineC3Far*(xm2-x3) + splineC3Edge*(x4-xm3)) / splineDenom

	return c
}

// Spline2p8 is Spline3p8 without the 3rd order term.
func Spline2p8(xm3, xm2, xm1, x0, x1, x2, x3, x4 float64) SplineCoeffs {
	var c SplineCoeffs

	c[0] = x0
	c[1] = (splineC1Near*(x1-xm1) + splineC1Mid*(xm2-x2) +
		splineC1Far*(x3-xm3)) / splineDenom

	c[2] = (splineC2Near*(xm1+x1) + splineC2Far3*x3 + splineC2FarM3*xm3 -
		splineC2Far4*x4 - splineC2Mid*(xm2+x2) - splineC2Center*x0) / splineDenom

	return c
}

// Eval evaluates the polynomial at x.
func (c SplineCoeffs) Eval(x float64) float64 {
	return c[0] + x*(c[1]+x*(c[2]+x*c[3]))
}
