package fft

import (
	"sync"
)

// Keeper pools RealFFT objects per length. Acquire pops a pooled object of
// the requested length or allocates one; Release returns it to the pool.
// Pooled objects are never freed, so twiddle tables are computed once per
// length for the lifetime of the Keeper.
type Keeper struct {
	mu      sync.Mutex
	free    [MaxLenBits + 1]*RealFFT
	created int
}

// DefaultKeeper is the process-wide pool used when no Keeper is injected.
var DefaultKeeper = NewKeeper()

// NewKeeper creates an empty, isolated pool.
func NewKeeper() *Keeper {
	return &Keeper{}
}

// Acquire returns a transform of length 2^lenBits.
func (k *Keeper) Acquire(lenBits int) (*RealFFT, error) {
	if lenBits < MinLenBits || lenBits > MaxLenBits {
		// Let New produce the descriptive error.
		return New(lenBits)
	}

	k.mu.Lock()
	if f := k.free[lenBits]; f != nil {
		k.free[lenBits] = f.next
		f.next = nil
		k.mu.Unlock()
		return f, nil
	}
	k.created++
	k.mu.Unlock()

	return New(lenBits)
}

// MustAcquire is like Acquire but panics on an invalid length.
func (k *Keeper) MustAcquire(lenBits int) *RealFFT {
	f, err := k.Acquire(lenBits)
	if err != nil {
		panic(err)
	}
	return f
}

// Release returns f to the pool. f must not be used afterwards.
func (k *Keeper) Release(f *RealFFT) {
	if f == nil {
		return
	}

	k.mu.Lock()
	f.next = k.free[f.lenBits]
	k.free[f.lenBits] = f
	k.mu.Unlock()
}

// Created reports how many transforms this Keeper has allocated.
func (k *Keeper) Created() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.created
}

// Pooled reports how many transforms of length 2^lenBits are idle in the pool.
func (k *Keeper) Pooled(lenBits int) int {
	if lenBits < MinLenBits || lenBits > MaxLenBits {
		return 0
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	n := 0
	for f := k.free[lenBits]; f != nil; f = f.next {
		n++
	}
	return n
}
