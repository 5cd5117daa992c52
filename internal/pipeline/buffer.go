package pipeline

import "fmt"

// MirrorRing is a power-of-2 circular sample buffer whose first Mirror
// positions are duplicated past the end, so that any window of up to
// Mirror+1 samples starting inside the ring is a contiguous slice.
type MirrorRing struct {
	buf    []float64
	size   int
	mask   int
	mirror int
}

// NewMirrorRing creates a zeroed ring of size samples (a power of 2) with a
// mirrored tail of mirror samples.
func NewMirrorRing(size, mirror int) *MirrorRing {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("pipeline: ring size %d is not a power of 2", size))
	}
	if mirror < 0 || mirror > size {
		panic(fmt.Sprintf("pipeline: ring mirror %d out of range for size %d", mirror, size))
	}

	return &MirrorRing{
		buf:    make([]float64, size+mirror),
		size:   size,
		mask:   size - 1,
		mirror: mirror,
	}
}

// Size returns the ring length.
func (r *MirrorRing) Size() int { return r.size }

// Mask returns Size()-1 for wrapping positions.
func (r *MirrorRing) Mask() int { return r.mask }

// Write copies src into the ring starting at pos, wrapping as needed, and
// returns the position after the last written sample.
func (r *MirrorRing) Write(pos int, src []float64) int {
	for len(src) > 0 {
		n := copy(r.buf[pos:r.size], src)
		if pos < r.mirror {
			copy(r.buf[r.size+pos:], src[:min(n, r.mirror-pos)])
		}
		src = src[n:]
		pos = (pos + n) & r.mask
	}
	return pos
}

// Window returns the n samples starting at pos. n-1 must not exceed Mirror.
func (r *MirrorRing) Window(pos, n int) []float64 {
	return r.buf[pos : pos+n : pos+n]
}

// Fill sets n samples starting at pos to v, wrapping as needed.
func (r *MirrorRing) Fill(pos, n int, v float64) {
	for n > 0 {
		m := min(n, r.size-pos)
		seg := r.buf[pos : pos+m]
		for i := range seg {
			seg[i] = v
		}
		if pos < r.mirror {
			tail := r.buf[r.size+pos : r.size+min(pos+m, r.mirror)]
			for i := range tail {
				tail[i] = v
			}
		}
		n -= m
		pos = (pos + m) & r.mask
	}
}

// Reset zeroes the whole ring.
func (r *MirrorRing) Reset() {
	clear(r.buf)
}
