package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-hq-resampler/internal/mathutil"
)

// Window selects the window function applied by SincGen.
type Window int

const (
	WindowHann Window = iota
	WindowHamming
	WindowBlackman
	WindowNuttall
	WindowBlackmanNuttall
	WindowKaiser
	WindowGaussian
	// WindowVaneev is a 4-term cosine product window tuned for short
	// fractional delay filters.
	WindowVaneev
)

var windowNames = [...]string{
	"hann", "hamming", "blackman", "nuttall", "blackman-nuttall",
	"kaiser", "gaussian", "vaneev",
}

func (w Window) String() string {
	if w < 0 || int(w) >= len(windowNames) {
		return fmt.Sprintf("window(%d)", int(w))
	}
	return windowNames[w]
}

const (
	minSincLen2 = 2.0

	kaiserBetaMin = 1.0
	kaiserBetaMax = 350.0

	gaussSigmaMin = 0.1
	gaussSigmaMax = 100.0

	vaneevParamLimit = 4.0

	// Taps at |t+D| below this are treated as the sinc singularity.
	fracSingularity = 1e-13

	// Default parameter tables cover fl2 in [defaultTableMinFl2, defaultTableMinFl2+12].
	defaultTableMinFl2 = 3
)

// kaiserDefaults holds {beta, power} per fl2 for Kaiser windows built
// without explicit parameters.
var kaiserDefaults = [...][2]float64{
	{3.41547411, 1.41275111},
	{3.72300147, 1.75212634},
	{4.34839223, 1.85801372},
	{4.90860405, 1.97194591},
	{5.17430411, 2.20609617},
	{21.08445389, 0.59684098},
	{9.14552738, 1.57619894},
	{22.02344341, 0.71669064},
	{16.41763757, 1.05884118},
	{12.55262798, 1.51553897},
	{9.84861210, 2.09912671},
	{9.73150659, 2.29079494},
	{10.42657217, 2.29183875},
}

// vaneevDefaults holds four cosine multipliers and the power per fl2.
var vaneevDefaults = [...][5]float64{
	{0.35926104, 0.66154037, 0.79264845, 0.31897879, 0.18844972},
	{0.81690764, 0.39409966, 0.01546567, 0.02067949, 1.15143000},
	{0.26545140, 0.84346586, 0.12114879, 0.23640230, 0.72659219},
	{0.56254211, 0.32615646, 0.88375690, 0.46944169, 0.32862728},
	{0.51926261, 0.41265523, 0.89552919, 0.47699008, 0.37308306},
	{0.55650321, 0.92583533, 0.58934379, 0.16399064, 0.67129777},
	{0.27930548, 0.94898807, 0.70335882, 0.32080180, 0.59102482},
	{0.12620836, 0.94993219, 0.70209891, 0.34747431, 0.64429174},
	{0.83595860, 0.95040751, 0.64127591, 0.30856013, 0.69692727},
	{0.41252871, 0.96236749, 0.74895429, 0.41669175, 0.65996102},
	{0.98567539, 0.88907131, 0.65652775, 0.34585902, 0.77265757},
	{0.64526843, 0.67729329, 0.91813705, 0.43972488, 0.68332682},
	{0.65310281, 0.66723395, 0.91751074, 0.43956737, 0.73651421},
}

// sineGen produces sin(phase + n*step) by the two-term recurrence.
type sineGen struct {
	s1, s2, incr float64
}

func (g *sineGen) init(step, phase float64) {
	g.s1 = math.Sin(phase)
	g.s2 = math.Sin(phase - step)
	g.incr = 2 * math.Cos(step)
}

func (g *sineGen) gen() float64 {
	r := g.s1
	g.s1 = g.incr*r - g.s2
	g.s2 = r
	return r
}

// SincGen generates windowed sinc kernels: band-pass (low-pass when Freq1
// is 0), Hilbert, fractional delay and bare windows.
//
// Set Len2 (and Freq1/Freq2 or FracDelay) before calling the matching Init
// method, then call the Generate method with a buffer of KernelLen taps.
// The generator does not normalize its output.
type SincGen struct {
	// Len2 is half the kernel length in samples, at least 2.
	Len2 float64
	// Freq1 and Freq2 are the band edges, circular frequency in [0, pi].
	Freq1, Freq2 float64
	// FracDelay is the fractional delay in [0, 1] used by InitFrac.
	FracDelay float64

	fl2       int
	kernelLen int
	power     float64

	calc func() float64
	wn   int

	f1, f2         sineGen
	w1, w2, w3, w4 sineGen

	kaiserBeta, kaiserDiv, kaiserLen2Frac float64
	gaussSigma, gaussSigmaFrac            float64
}

// KernelLen returns the number of taps the last Init call prepared.
func (g *SincGen) KernelLen() int { return g.kernelLen }

// Fl2 returns the kernel half-length in whole taps.
func (g *SincGen) Fl2() int { return g.fl2 }

// InitWindow prepares GenerateWindow.
func (g *SincGen) InitWindow(w Window, params []float64, usePower bool) {
	g.initCentered()
	g.setWindow(w, params, usePower, true, 0)
}

// InitBand prepares GenerateBand for the band [Freq1, Freq2].
func (g *SincGen) InitBand(w Window, params []float64, usePower bool) {
	g.initCentered()
	g.f1.init(g.Freq1, 0)
	g.f2.init(g.Freq2, 0)
	g.setWindow(w, params, usePower, true, 0)
}

// InitHilbert prepares GenerateHilbert.
func (g *SincGen) InitHilbert(w Window, params []float64, usePower bool) {
	g.initCentered()
	g.setWindow(w, params, usePower, true, 0)
}

// InitFrac prepares GenerateFrac for the current FracDelay.
func (g *SincGen) InitFrac(w Window, params []float64, usePower bool) {
	g.checkLen2()
	g.fl2 = int(math.Ceil(g.Len2))
	g.kernelLen = 2 * g.fl2
	g.setWindow(w, params, usePower, false, g.FracDelay)
}

func (g *SincGen) initCentered() {
	g.checkLen2()
	g.fl2 = int(math.Floor(g.Len2))
	g.kernelLen = 2*g.fl2 + 1
}

func (g *SincGen) checkLen2() {
	if !(g.Len2 >= minSincLen2) {
		panic(fmt.Sprintf("filter: sinc half-length %g below %g", g.Len2, minSincLen2))
	}
}

// GenerateWindow writes the symmetric window into out[:KernelLen].
func (g *SincGen) GenerateWindow(out []float64) {
	c := g.fl2
	out[c] = g.window()
	for l := 1; l <= g.fl2; l++ {
		v := g.window()
		out[c+l] = v
		out[c-l] = v
	}
}

// GenerateBand writes the symmetric band kernel into out[:KernelLen].
func (g *SincGen) GenerateBand(out []float64) {
	c := g.fl2
	g.f1.gen()
	g.f2.gen()
	out[c] = (g.Freq2 - g.Freq1) * g.window() / math.Pi

	for t := 1; t <= g.fl2; t++ {
		v := (g.f2.gen() - g.f1.gen()) * g.window() / float64(t) / math.Pi
		out[c+t] = v
		out[c-t] = v
	}
}

// GenerateHilbert writes the antisymmetric Hilbert kernel into out[:KernelLen].
func (g *SincGen) GenerateHilbert(out []float64) {
	c := g.fl2
	g.window()
	out[c] = 0

	for t := 1; t <= g.fl2; t++ {
		var v float64
		if t&1 == 1 {
			v = 2 * g.window() / float64(t) / math.Pi
		} else {
			g.window()
		}
		out[c+t] = v
		out[c-t] = -v
	}
}

// GenerateFrac writes KernelLen fractional delay taps into out, stepping
// stride elements between taps. Tap k corresponds to the sinc at k-fl2+FracDelay.
func (g *SincGen) GenerateFrac(out []float64, stride int) {
	if stride <= 0 {
		panic(fmt.Sprintf("filter: invalid frac kernel stride %d", stride))
	}

	d := g.FracDelay
	f := [2]float64{math.Sin(d * math.Pi), 0}
	f[1] = -f[0]

	pos := 0
	emit := func(v float64) {
		out[pos] = v
		pos += stride
	}
	tap := func(t int) float64 {
		return f[t&1] * g.window() / (float64(t) + d) / math.Pi
	}

	t := -g.fl2
	if float64(t)+d < -g.Len2 {
		g.window()
		emit(0)
		t++
	}

	mt := 0
	if math.Abs(d-1) <= fracSingularity {
		mt = -1
	}
	for ; t < mt; t++ {
		emit(tap(t))
	}

	if ut := float64(t) + d; math.Abs(ut) <= fracSingularity {
		emit(g.window())
	} else {
		emit(f[t&1] * g.window() / ut / math.Pi)
	}

	for mt = g.fl2 - 2; t < mt; {
		t++
		emit(tap(t))
	}

	t++
	if ut := float64(t) + d; ut > g.Len2 {
		emit(0)
	} else {
		emit(f[t&1] * g.window() / ut / math.Pi)
	}
}

func (g *SincGen) window() float64 {
	v := g.calc()
	if g.power >= 0 {
		return mathutil.Pows(v, g.power)
	}
	return v
}

func (g *SincGen) setWindow(w Window, params []float64, usePower, centered bool, fracDelay float64) {
	g.FracDelay = fracDelay

	switch w {
	case WindowHann, WindowHamming, WindowBlackman, WindowNuttall, WindowBlackmanNuttall:
		g.initCosine(math.Pi/g.Len2, centered, &g.w1)
		g.initCosine(2*math.Pi/g.Len2, centered, &g.w2)
		g.initCosine(3*math.Pi/g.Len2, centered, &g.w3)
		g.power = -1
		if usePower && len(params) > 0 {
			g.power = params[0]
		}
		g.calc = g.cosineWindow(w)
	case WindowKaiser:
		g.setKaiser(params, usePower, centered)
	case WindowGaussian:
		g.setGaussian(params, usePower, centered)
	case WindowVaneev:
		g.setVaneev(params, centered)
	default:
		panic(fmt.Sprintf("filter: unknown window %v", w))
	}
}

func (g *SincGen) initCosine(step float64, centered bool, s *sineGen) {
	phase := math.Pi / 2
	if !centered {
		phase += step * (g.FracDelay - float64(g.fl2))
	}
	s.init(step, phase)
}

func (g *SincGen) cosineWindow(w Window) func() float64 {
	switch w {
	case WindowHann:
		return func() float64 { return 0.5 + 0.5*g.w1.gen() }
	case WindowHamming:
		return func() float64 { return 0.54 + 0.46*g.w1.gen() }
	case WindowBlackman:
		return func() float64 { return 0.42 + 0.5*g.w1.gen() + 0.08*g.w2.gen() }
	case WindowNuttall:
		return func() float64 {
			return 0.355768 + 0.487396*g.w1.gen() + 0.144232*g.w2.gen() + 0.012604*g.w3.gen()
		}
	default:
		return func() float64 {
			return 0.3635819 + 0.4891775*g.w1.gen() + 0.1365995*g.w2.gen() + 0.0106411*g.w3.gen()
		}
	}
}

func (g *SincGen) defaultRow(kind string) int {
	i := g.fl2 - defaultTableMinFl2
	if i < 0 || i >= len(kaiserDefaults) {
		panic(fmt.Sprintf("filter: no default %s parameters for half-length %d", kind, g.fl2))
	}
	return i
}

func (g *SincGen) setKaiser(params []float64, usePower, centered bool) {
	g.wn = 0
	if !centered {
		g.wn = -g.fl2
	}

	if params == nil {
		p := kaiserDefaults[g.defaultRow("kaiser")]
		g.kaiserBeta = p[0]
		g.power = -1
		if usePower {
			g.power = p[1]
		}
	} else {
		g.kaiserBeta = mathutil.Clamp(params[0], kaiserBetaMin, kaiserBetaMax)
		g.power = -1
		if usePower {
			g.power = math.Abs(params[1])
		}
	}

	g.kaiserDiv = mathutil.BesselI0(g.kaiserBeta)
	g.kaiserLen2Frac = g.FracDelay / g.Len2
	g.calc = g.kaiser
}

func (g *SincGen) kaiser() float64 {
	x := float64(g.wn)/g.Len2 + g.kaiserLen2Frac
	g.wn++

	n := 1 - x*x
	if n < 0 {
		return 0
	}
	return mathutil.BesselI0(g.kaiserBeta*math.Sqrt(n)) / g.kaiserDiv
}

func (g *SincGen) setGaussian(params []float64, usePower, centered bool) {
	g.wn = 0
	if !centered {
		g.wn = -g.fl2
	}

	g.gaussSigma = 1
	g.power = -1
	if params != nil {
		g.gaussSigma = mathutil.Clamp(math.Abs(params[0]), gaussSigmaMin, gaussSigmaMax)
		if usePower {
			g.power = math.Abs(params[1])
		}
	}

	g.gaussSigma *= g.Len2
	g.gaussSigmaFrac = g.FracDelay / g.gaussSigma
	g.calc = g.gaussian
}

func (g *SincGen) gaussian() float64 {
	x := float64(g.wn)/g.gaussSigma + g.gaussSigmaFrac
	g.wn++
	return math.Exp(-0.5 * x * x)
}

func (g *SincGen) setVaneev(params []float64, centered bool) {
	var p [4]float64
	if params == nil {
		row := vaneevDefaults[g.defaultRow("vaneev")]
		copy(p[:], row[:4])
		g.power = row[4]
	} else {
		for i := range p {
			p[i] = mathutil.Clamp(params[i], -vaneevParamLimit, vaneevParamLimit)
		}
		g.power = math.Abs(params[4])
	}

	for i, s := range []*sineGen{&g.w1, &g.w2, &g.w3, &g.w4} {
		g.initCosine(p[i]*math.Pi/g.Len2, centered, s)
	}
	g.calc = g.vaneev
}

func (g *SincGen) vaneev() float64 {
	v1 := 0.5 + 0.5*g.w1.gen()
	v2 := 0.5 + 0.5*g.w2.gen()
	v3 := 0.5 + 0.5*g.w3.gen()
	v4 := 0.5 + 0.5*g.w4.gen()

	v2 *= v2
	v3 *= v3
	v3 *= v3
	v4 *= v4
	v4 *= v4
	v4 *= v4
	return v1 * v2 * v3 * v4
}
