package resampler

import (
	"go.uber.org/zap"

	"github.com/tphakala/go-hq-resampler/internal/fft"
	"github.com/tphakala/go-hq-resampler/internal/filter"
)

// Registry holds the shared FFT objects, low-pass filters and fractional
// delay filter banks. Resamplers built from the same registry reuse each
// other's filters. A Registry is safe for concurrent use.
type Registry struct {
	filters *filter.Cache
	banks   *filter.BankCache
}

// RegistryOptions configures a Registry. Zero values select defaults.
type RegistryOptions struct {
	// FilterCapacity is the soft bound on cached low-pass filters.
	FilterCapacity int

	// BankCapacity is the soft bound on cached filter banks.
	BankCapacity int

	// Logger receives cache misses and evictions at debug level.
	Logger *zap.Logger
}

// RegistryStats counts filter cache activity. Hits, Misses, Evictions and
// Migrations cover low-pass filters; the Bank counters cover fractional
// delay filter banks.
type RegistryStats struct {
	Filters    int // Low-pass filters currently cached
	Banks      int // Filter banks currently cached
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Migrations uint64

	BankHits       uint64
	BankMisses     uint64
	BankEvictions  uint64
	BankMigrations uint64
}

// DefaultRegistry is the process-wide registry used when Config.Registry is nil.
var DefaultRegistry = &Registry{
	filters: filter.DefaultCache,
	banks:   filter.DefaultBankCache,
}

// NewRegistry creates an isolated registry with its own FFT pool.
func NewRegistry(opts RegistryOptions) *Registry {
	return &Registry{
		filters: filter.NewCache(filter.CacheOptions{
			Capacity: opts.FilterCapacity,
			Keeper:   fft.NewKeeper(),
			Logger:   opts.Logger,
		}),
		banks: filter.NewBankCache(opts.BankCapacity, opts.Logger),
	}
}

// Stats returns a snapshot of the cache counters.
func (r *Registry) Stats() RegistryStats {
	s := r.filters.Stats()
	b := r.banks.Stats()
	return RegistryStats{
		Filters:        r.filters.Len(),
		Banks:          r.banks.Len(),
		Hits:           s.Hits,
		Misses:         s.Misses,
		Evictions:      s.Evictions,
		Migrations:     s.Migrations,
		BankHits:       b.Hits,
		BankMisses:     b.Misses,
		BankEvictions:  b.Evictions,
		BankMigrations: b.Migrations,
	}
}
