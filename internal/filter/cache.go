package filter

import (
	"sync"

	"go.uber.org/zap"

	"github.com/tphakala/go-hq-resampler/internal/fft"
)

// DefaultCacheCapacity is the soft bound on cached low-pass filters.
const DefaultCacheCapacity = 96

// CacheOptions configures a Cache. Zero values select defaults.
type CacheOptions struct {
	Capacity int
	Keeper   *fft.Keeper
	Logger   *zap.Logger
}

// CacheStats counts cache activity since creation.
type CacheStats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Migrations uint64 // busy tail entries moved to the head instead of evicted
}

// Cache shares low-pass filters between resamplers. Entries are kept in
// most-recently-used order. When the cache is full and a new filter is
// needed, an unreferenced tail entry is evicted; a referenced tail entry is
// moved to the head instead, so the bound is soft.
type Cache struct {
	mu     sync.Mutex
	list   refList[LowPassSpec, *FIRFilter]
	keeper *fft.Keeper
	logger *zap.Logger
	stats  CacheStats
}

// DefaultCache is the process-wide filter cache.
var DefaultCache = NewCache(CacheOptions{})

// NewCache creates an isolated filter cache.
func NewCache(opts CacheOptions) *Cache {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCacheCapacity
	}
	if opts.Keeper == nil {
		opts.Keeper = fft.DefaultKeeper
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Cache{
		list:   refList[LowPassSpec, *FIRFilter]{capacity: opts.Capacity},
		keeper: opts.Keeper,
		logger: opts.Logger,
	}
}

// Keeper returns the FFT pool the cache designs filters with.
func (c *Cache) Keeper() *fft.Keeper { return c.keeper }

// FilterHandle is a counted reference to a cached filter.
type FilterHandle struct {
	*FIRFilter

	mu       *sync.Mutex
	entry    *refEntry[LowPassSpec, *FIRFilter]
	released bool
}

// Release drops the reference. Further calls have no effect.
func (h *FilterHandle) Release() {
	if h == nil || h.mu == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true
	h.entry.refs--
}

// LowPass returns a handle to the filter matching spec, designing it on a miss.
func (c *Cache) LowPass(spec LowPassSpec) (*FilterHandle, error) {
	spec = spec.withDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	hit, evicted, migrated := c.list.acquire(spec)
	if hit != nil {
		c.stats.Hits++
		return c.handle(hit), nil
	}

	switch {
	case evicted != nil:
		c.stats.Evictions++
		c.logger.Debug("evicted low-pass filter",
			zap.Float64("norm_freq", evicted.key.NormFreq),
			zap.Int("taps", evicted.val.kernelLen))
	case migrated:
		c.stats.Migrations++
	}

	c.stats.Misses++
	f, err := DesignLowPass(spec, c.keeper)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("designed low-pass filter",
		zap.Float64("norm_freq", spec.NormFreq),
		zap.Float64("trans_band", spec.TransBand),
		zap.Float64("atten", spec.Atten),
		zap.Float64("gain", spec.Gain),
		zap.Int("taps", f.kernelLen),
		zap.Int("block_len_bits", f.blockLenBits))

	return c.handle(c.list.insert(spec, f)), nil
}

// Len returns the number of cached filters.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// refs reports the reference count of the filter cached for spec, or -1.
func (c *Cache) refs(spec LowPassSpec) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.list.find(spec.withDefaults()); e != nil {
		return e.refs
	}
	return -1
}

func (c *Cache) handle(e *refEntry[LowPassSpec, *FIRFilter]) *FilterHandle {
	return &FilterHandle{FIRFilter: e.val, mu: &c.mu, entry: e}
}
