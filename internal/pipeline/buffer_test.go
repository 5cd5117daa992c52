package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(from, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(from + i)
	}
	return s
}

func TestMirrorRing_WindowAcrossWrap(t *testing.T) {
	r := NewMirrorRing(8, 3)

	pos := r.Write(0, seq(1, 6))
	assert.Equal(t, 6, pos)
	pos = r.Write(pos, seq(7, 5)) // wraps: 7,8 at 6,7; 9,10,11 at 0,1,2
	assert.Equal(t, 3, pos)

	assert.Equal(t, []float64{7, 8, 9, 10}, r.Window(6, 4))
	assert.Equal(t, []float64{8, 9, 10, 11}, r.Window(7, 4))
	assert.Equal(t, []float64{9, 10, 11, 4}, r.Window(0, 4))
}

func TestMirrorRing_LongWriteKeepsLatest(t *testing.T) {
	r := NewMirrorRing(4, 2)
	pos := r.Write(1, seq(1, 10))
	assert.Equal(t, 3, pos)
	// Positions 1,2,3,0 received 1,2,3,4 then 5..8 then 9,10 at 1,2.
	assert.Equal(t, []float64{8, 9, 10, 7, 8, 9}, r.Window(0, 6))
}

func TestMirrorRing_FillAndReset(t *testing.T) {
	r := NewMirrorRing(8, 2)
	r.Write(0, seq(1, 8))
	r.Fill(6, 4, 0)
	assert.Equal(t, []float64{0, 0, 0, 0}, r.Window(6, 4))
	assert.Equal(t, []float64{0, 0, 3}, r.Window(0, 3))

	r.Reset()
	assert.Equal(t, make([]float64, 3), r.Window(5, 3))
}

func TestMirrorRing_InvalidGeometry(t *testing.T) {
	require.Panics(t, func() { NewMirrorRing(6, 1) })
	require.Panics(t, func() { NewMirrorRing(8, 9) })
}
