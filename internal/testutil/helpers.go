// Package testutil provides assertions and test signals shared by the
// package tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

// AssertSymmetric checks s[i] == s[n-1-i] within tolerance and reports the
// worst pair.
func AssertSymmetric(t *testing.T, s []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	worst, at := 0.0, -1
	for i := range len(s) / 2 {
		if d := math.Abs(s[i] - s[len(s)-1-i]); d > worst {
			worst, at = d, i
		}
	}
	if worst <= tolerance {
		return true
	}
	return assert.Fail(t, "not symmetric",
		append([]any{"largest mismatch %g at %d/%d", worst, at, len(s) - 1 - at}, msgAndArgs...)...)
}

// AssertNoNaNOrInf checks every element is finite.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "non-finite sample",
				append([]any{"s[%d] = %v", i, v}, msgAndArgs...)...)
		}
	}
	return true
}

// AssertAllInRange checks every element lies in [minVal, maxVal].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if len(s) == 0 {
		return true
	}
	lo, hi := floats.Min(s), floats.Max(s)
	if lo >= minVal && hi <= maxVal {
		return true
	}
	return assert.Fail(t, "value out of range",
		append([]any{"values span [%g, %g], want within [%g, %g]", lo, hi, minVal, maxVal}, msgAndArgs...)...)
}

// AssertDCGain checks the sum of coeffs.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	return assert.InDelta(t, expectedGain, floats.Sum(coeffs), tolerance, "DC gain")
}

// AssertRelativeError checks |actual-expected| <= tolerance*|expected|, or
// an absolute difference when expected is zero.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	return assert.InEpsilon(t, expected, actual, tolerance, msgAndArgs...)
}
