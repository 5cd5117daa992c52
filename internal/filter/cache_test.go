package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tphakala/go-hq-resampler/internal/fft"
)

func testSpec(freq float64) LowPassSpec {
	return LowPassSpec{NormFreq: freq, TransBand: 40, Atten: 60}
}

// TestCache_HitReturnsSameFilter verifies identity and reference counting.
func TestCache_HitReturnsSameFilter(t *testing.T) {
	c := NewCache(CacheOptions{Keeper: fft.NewKeeper(), Logger: zaptest.NewLogger(t)})

	h1, err := c.LowPass(testSpec(0.5))
	require.NoError(t, err)
	h2, err := c.LowPass(LowPassSpec{NormFreq: 0.5, TransBand: 40, Atten: 60, Gain: 1})
	require.NoError(t, err)

	assert.Same(t, h1.FIRFilter, h2.FIRFilter, "zero gain defaults to unity")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.refs(testSpec(0.5)))
	assert.Equal(t, CacheStats{Hits: 1, Misses: 1}, c.Stats())

	h1.Release()
	h1.Release()
	assert.Equal(t, 1, c.refs(testSpec(0.5)), "release is idempotent per handle")

	h3, err := c.LowPass(testSpec(0.25))
	require.NoError(t, err)
	assert.NotSame(t, h1.FIRFilter, h3.FIRFilter)
}

// TestCache_EvictsUnreferencedTail checks the LRU order at capacity.
func TestCache_EvictsUnreferencedTail(t *testing.T) {
	c := NewCache(CacheOptions{Capacity: 2, Keeper: fft.NewKeeper()})

	a, err := c.LowPass(testSpec(0.5))
	require.NoError(t, err)
	b, err := c.LowPass(testSpec(0.4))
	require.NoError(t, err)
	a.Release()
	b.Release()

	// Touch a so that b becomes the tail.
	a2, err := c.LowPass(testSpec(0.5))
	require.NoError(t, err)
	a2.Release()

	_, err = c.LowPass(testSpec(0.3))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, -1, c.refs(testSpec(0.4)), "tail evicted")
	assert.Equal(t, 0, c.refs(testSpec(0.5)))
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

// TestCache_MigratesBusyTail checks that referenced filters survive a full cache.
func TestCache_MigratesBusyTail(t *testing.T) {
	c := NewCache(CacheOptions{Capacity: 2, Keeper: fft.NewKeeper()})

	a, err := c.LowPass(testSpec(0.5))
	require.NoError(t, err)
	_, err = c.LowPass(testSpec(0.4))
	require.NoError(t, err)

	_, err = c.LowPass(testSpec(0.3))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len(), "soft bound grows when the tail is busy")
	assert.Equal(t, 1, c.refs(testSpec(0.5)))
	assert.Equal(t, uint64(1), c.Stats().Migrations)
	assert.Zero(t, c.Stats().Evictions)

	again, err := c.LowPass(testSpec(0.5))
	require.NoError(t, err)
	assert.Same(t, a.FIRFilter, again.FIRFilter)
}

// TestCache_RejectsInvalidSpec verifies that nothing is cached on error.
func TestCache_RejectsInvalidSpec(t *testing.T) {
	c := NewCache(CacheOptions{Keeper: fft.NewKeeper()})

	_, err := c.LowPass(LowPassSpec{NormFreq: 0.5, TransBand: 2, Atten: 20})
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = c.LowPass(LowPassSpec{NormFreq: 0.5, TransBand: 2, Atten: 100, Phase: PhaseMinimum})
	require.ErrorIs(t, err, ErrNotSupported)
	assert.Zero(t, c.Len())
}

// TestCache_Concurrent exercises the cache from several goroutines.
func TestCache_Concurrent(t *testing.T) {
	c := NewCache(CacheOptions{Capacity: 4, Keeper: fft.NewKeeper()})
	freqs := []float64{0.5, 0.45, 0.4, 0.35, 0.3, 0.25}

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 20 {
				h, err := c.LowPass(testSpec(freqs[(g+i)%len(freqs)]))
				if !assert.NoError(t, err) {
					return
				}
				h.Release()
			}
		}(g)
	}
	wg.Wait()

	s := c.Stats()
	assert.Equal(t, uint64(160), s.Hits+s.Misses)
	assert.LessOrEqual(t, c.Len(), len(freqs))
}
