package filter

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/tphakala/go-hq-resampler/internal/mathutil"
)

// bankRow holds the Kaiser {beta, power} and the attenuation a fractional
// delay filter of the row's length achieves.
type bankRow struct {
	beta, power, atten float64
}

const (
	halfBandBankBase  = 8
	thirdBandBankBase = 6

	// FracsAuto selects the fraction count from the attenuation.
	FracsAuto = -1

	fracsBase    = 6.4
	fracsAttenDB = 50.0
)

// Interpolation point counts.
const (
	Points2 = 2
	Points8 = 8
)

var halfBandBankRows = [...]bankRow{
	{4.1308468534586913, 1.1752580009977263, 55.5446},
	{4.4241520324148826, 1.8004881791443044, 81.4191},
	{5.2615232289173663, 1.8133318236025469, 96.3392},
	{5.9433751227216174, 1.8730186391986436, 111.1315},
	{6.8308658290513815, 1.8549555110340281, 125.4653},
	{7.6648458290312904, 1.8565766090828464, 139.7379},
	{8.2038728664307605, 1.9269521820570166, 154.0532},
	{8.7865150946655142, 1.9775307667441668, 168.2101},
	{9.5945017884101773, 1.9718456992078597, 182.1076},
	{10.5163141145985240, 1.9504067820201083, 195.5668},
	{10.2382465206362470, 2.1608923446870087, 209.0610},
	{10.9976060250714000, 2.1536533525688935, 222.5010},
}

var thirdBandBankRows = [...]bankRow{
	{3.9888564562781847, 1.5869927184268915, 66.5701},
	{4.6986694038145007, 1.8086068597928262, 86.4715},
	{5.5995071329337822, 1.8930163360942349, 106.1195},
	{6.3627287800257228, 1.9945748322093975, 125.2307},
	{7.4299550711428308, 1.9893400572347544, 144.3469},
	{8.0667715944075642, 2.0928201458699909, 163.4099},
	{8.7469970226288822, 2.1640279784268355, 181.0694},
	{10.0823430069835230, 2.0896678025321922, 199.2880},
	{10.9222206090489510, 2.1221681162186004, 216.6865},
	{21.2017743894772010, 1.1856768080118900, 233.9188},
}

// bankParams selects the first row reaching atten, or the last row.
func bankParams(atten float64, third bool) (row bankRow, filterLen int) {
	rows, base := halfBandBankRows[:], halfBandBankBase
	if third {
		rows, base = thirdBandBankRows[:], thirdBandBankBase
	}

	i := 0
	for i != len(rows)-1 && rows[i].atten < atten {
		i++
	}
	return rows[i], base + 2*i
}

// RoundBankAtten returns the attenuation the bank built for atten achieves.
func RoundBankAtten(atten float64, third bool) float64 {
	row, _ := bankParams(atten, third)
	return row.atten
}

// BankSpec identifies a fractional delay filter bank.
type BankSpec struct {
	// Fracs is the number of fractional positions, or FracsAuto.
	Fracs int
	// Order is the interpolation polynomial order: 0 (exact positions),
	// 1 (linear), 2 or 3 (8-point spline).
	Order int
	// Points is the interpolation point count, Points2 or Points8.
	Points int
	// Atten is the required attenuation in dB; it is rounded to a table row.
	Atten float64
	// Third selects the third-band parameter table.
	Third bool
}

func (s BankSpec) validate() error {
	switch {
	case s.Points == Points2 && (s.Order == 0 || s.Order == 1):
	case s.Points == Points8 && (s.Order == 2 || s.Order == 3):
	default:
		return fmt.Errorf("%w: order %d with %d interpolation points", ErrInvalidParameter, s.Order, s.Points)
	}
	if s.Fracs != FracsAuto && s.Fracs < 1 {
		return fmt.Errorf("%w: %d filter fractions", ErrInvalidParameter, s.Fracs)
	}
	if math.IsNaN(s.Atten) {
		return fmt.Errorf("%w: attenuation is NaN", ErrInvalidParameter)
	}
	return nil
}

// FracDelayFilterBank holds FilterFracs+1 fractional delay filters. Entry j
// delays by (FilterFracs-j)/FilterFracs samples and is stored as four
// coefficient planes; tap i at fraction x between entries j and j+1 is
// c0[i] + x*(c1[i] + x*(c2[i] + x*c3[i])). Unused planes are zero.
type FracDelayFilterBank struct {
	spec      BankSpec
	filterLen int
	fracs     int
	atten     float64
	coeffs    []float64 // (fracs+1) entries of 4 planes of filterLen
}

// NewFracDelayFilterBank builds a bank without caching it.
func NewFracDelayFilterBank(spec BankSpec) (*FracDelayFilterBank, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	row, fl := bankParams(spec.Atten, spec.Third)
	spec.Atten = row.atten

	ff := spec.Fracs
	if ff == FracsAuto {
		ff = int(math.Ceil(math.Pow(fracsBase, row.atten/fracsAttenDB)))
	}

	b := &FracDelayFilterBank{
		spec:      spec,
		filterLen: fl,
		fracs:     ff,
		atten:     row.atten,
		coeffs:    make([]float64, (ff+1)*4*fl),
	}
	b.build(row)
	return b, nil
}

func (b *FracDelayFilterBank) build(row bankRow) {
	fl, ff := b.filterLen, b.fracs
	pc2 := b.spec.Points / 2

	// Raw kernels for delays (ff-i)/ff, i = -pc2+1 .. ff+pc2.
	count := ff + b.spec.Points
	raw := make([]float64, count*fl)
	params := []float64{row.beta, row.power}
	g := SincGen{Len2: float64(fl / 2)}
	for n := range count {
		i := n - pc2 + 1
		g.FracDelay = float64(ff-i) / float64(ff)
		g.InitFrac(WindowKaiser, params, true)
		k := raw[n*fl : (n+1)*fl]
		g.GenerateFrac(k, 1)
		mathutil.NormalizeFIR(k, fl, 1, 1)
	}

	rawAt := func(n, t int) float64 { return raw[n*fl+t] }

	for j := 0; j <= ff; j++ {
		c0, c1, c2, c3 := b.Planes(j)
		switch b.spec.Order {
		case 0:
			copy(c0, raw[j*fl:(j+1)*fl])
		case 1:
			for t := range fl {
				c0[t] = rawAt(j, t)
				c1[t] = rawAt(j+1, t) - c0[t]
			}
		default:
			spline := mathutil.Spline3p8
			if b.spec.Order == 2 {
				spline = mathutil.Spline2p8
			}
			for t := range fl {
				s := spline(rawAt(j, t), rawAt(j+1, t), rawAt(j+2, t), rawAt(j+3, t),
					rawAt(j+4, t), rawAt(j+5, t), rawAt(j+6, t), rawAt(j+7, t))
				c0[t], c1[t], c2[t], c3[t] = s[0], s[1], s[2], s[3]
			}
		}
	}
}

// Spec returns the bank's identity, with the attenuation rounded.
func (b *FracDelayFilterBank) Spec() BankSpec { return b.spec }

// FilterLen returns the taps per filter, always even.
func (b *FracDelayFilterBank) FilterLen() int { return b.filterLen }

// FilterFracs returns the number of fractional positions.
func (b *FracDelayFilterBank) FilterFracs() int { return b.fracs }

// Atten returns the rounded attenuation.
func (b *FracDelayFilterBank) Atten() float64 { return b.atten }

// Order returns the interpolation order.
func (b *FracDelayFilterBank) Order() int { return b.spec.Order }

// Planes returns the four coefficient planes of entry j in [0, FilterFracs].
func (b *FracDelayFilterBank) Planes(j int) (c0, c1, c2, c3 []float64) {
	fl := b.filterLen
	e := b.coeffs[j*4*fl : (j+1)*4*fl : (j+1)*4*fl]
	return e[:fl:fl], e[fl : 2*fl : 2*fl], e[2*fl : 3*fl : 3*fl], e[3*fl:]
}

// DefaultBankCacheCapacity is the soft bound on cached filter banks.
const DefaultBankCacheCapacity = 12

// BankCache shares filter banks between interpolators with the same
// eviction policy as Cache. Static banks are never evicted.
type BankCache struct {
	mu     sync.Mutex
	list   refList[BankSpec, *FracDelayFilterBank]
	static map[BankSpec]*FracDelayFilterBank
	logger *zap.Logger
	stats  CacheStats
}

// DefaultBankCache is the process-wide filter bank cache.
var DefaultBankCache = NewBankCache(0, nil)

// NewBankCache creates an isolated bank cache. Zero capacity and nil logger
// select defaults.
func NewBankCache(capacity int, logger *zap.Logger) *BankCache {
	if capacity <= 0 {
		capacity = DefaultBankCacheCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankCache{
		list:   refList[BankSpec, *FracDelayFilterBank]{capacity: capacity},
		static: make(map[BankSpec]*FracDelayFilterBank),
		logger: logger,
	}
}

// BankHandle is a counted reference to a cached bank.
type BankHandle struct {
	*FracDelayFilterBank

	mu       *sync.Mutex
	entry    *refEntry[BankSpec, *FracDelayFilterBank]
	released bool
}

// Release drops the reference. Further calls, and calls on static banks,
// have no effect.
func (h *BankHandle) Release() {
	if h == nil || h.entry == nil {
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

// Bank returns a handle to the bank for spec, building it on a miss.
func (c *BankCache) Bank(spec BankSpec) (*BankHandle, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	spec.Atten = RoundBankAtten(spec.Atten, spec.Third)

	c.mu.Lock()
	defer c.mu.Unlock()

	hit, evicted, migrated := c.list.acquire(spec)
	if hit != nil {
		c.stats.Hits++
		return &BankHandle{FracDelayFilterBank: hit.val, mu: &c.mu, entry: hit}, nil
	}
	switch {
	case evicted != nil:
		c.stats.Evictions++
		c.logger.Debug("evicted fractional delay bank", zap.Int("fracs", evicted.val.fracs))
	case migrated:
		c.stats.Migrations++
	}

	c.stats.Misses++

	b, err := c.build(spec)
	if err != nil {
		return nil, err
	}
	e := c.list.insert(spec, b)
	return &BankHandle{FracDelayFilterBank: b, mu: &c.mu, entry: e}, nil
}

// Static returns a bank that stays cached for the life of the cache.
func (c *BankCache) Static(spec BankSpec) (*FracDelayFilterBank, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	spec.Atten = RoundBankAtten(spec.Atten, spec.Third)

	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.static[spec]; ok {
		c.stats.Hits++
		return b, nil
	}
	c.stats.Misses++
	b, err := c.build(spec)
	if err != nil {
		return nil, err
	}
	c.static[spec] = b
	return b, nil
}

// Len returns the number of evictable banks.
func (c *BankCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list.entries)
}

// Stats returns a snapshot of the cache counters. Static lookups count as
// hits and misses too.
func (c *BankCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *BankCache) build(spec BankSpec) (*FracDelayFilterBank, error) {
	b, err := NewFracDelayFilterBank(spec)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("built fractional delay bank",
		zap.Int("fracs", b.fracs),
		zap.Int("order", spec.Order),
		zap.Int("taps", b.filterLen),
		zap.Float64("atten", b.atten),
		zap.Bool("third", spec.Third))
	return b, nil
}
