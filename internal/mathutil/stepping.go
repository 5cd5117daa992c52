package mathutil

// FindGCD finds the greatest common divisor of two positive rates with the
// subtractive Euclid algorithm. It gives up after a bounded number of
// iterations, which happens for rates that are not integer multiples of a
// common step.
func FindGCD(l, s float64) (float64, bool) {
	for range gcdMaxIterations {
		if s <= 0 {
			return l, true
		}

		r := l - s
		l = s
		if r < 0 {
			r = -r
		}
		s = r
	}

	return 0, false
}

// WholeStepping reports whether resampling from srcRate to dstRate can be
// done with integer input/output steps. inStep/outStep equal the rates
// divided by their GCD; outStep is limited to MaxWholeOutStep.
func WholeStepping(srcRate, dstRate float64) (inStep, outStep int, ok bool) {
	gcd, found := FindGCD(srcRate, dstRate)
	if !found || gcd < 1 {
		return 0, 0, false
	}

	in0 := srcRate / gcd
	out0 := dstRate / gcd
	inStep = int(in0)
	outStep = int(out0)

	if in0 != float64(inStep) || out0 != float64(outStep) {
		return 0, 0, false
	}

	if outStep > MaxWholeOutStep {
		return 0, 0, false
	}

	return inStep, outStep, true
}
