package resampler

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tphakala/go-hq-resampler/internal/filter"
)

// Resampler converts audio from one sample rate to another. Filter delay is
// removed internally, so output sample n corresponds to input time n/ratio.
type Resampler interface {
	// Process resamples the first channel. The result is valid until the
	// next call and may alias input when the rates are equal.
	Process(input []float64) ([]float64, error)

	// ProcessFloat32 is like Process but for float32 samples. The result
	// is freshly allocated.
	ProcessFloat32(input []float32) ([]float32, error)

	// ProcessMulti processes one slice per channel. Channels run
	// concurrently when Config.EnableParallel is set.
	ProcessMulti(input [][]float64) ([][]float64, error)

	// Flush feeds silence into the first channel until the output length
	// matches the input length times the ratio, and returns the samples
	// that completes. The resampler is cleared afterwards.
	Flush() ([]float64, error)

	// FlushMulti is Flush for every channel.
	FlushMulti() ([][]float64, error)

	// Clear resets all channels to the post-construction state.
	Clear()

	// GetInLenBeforeOutStart returns how many input samples are consumed
	// before the first output sample is produced.
	GetInLenBeforeOutStart() int

	// GetMaxOutLen returns the largest output a call with maxInLen input
	// samples can produce.
	GetMaxOutLen(maxInLen int) int

	// GetLatencyFrac returns the residual fractional delay of the output,
	// in output samples.
	GetLatencyFrac() float64

	// GetRatio returns the resampling ratio (output_rate / input_rate).
	GetRatio() float64

	// Close returns shared filters to the registry. Processing afterwards
	// fails with ErrClosed; the latency getters keep their values and
	// GetMaxOutLen reports 0.
	Close()
}

// Config holds resampling configuration.
type Config struct {
	// InputRate is the sample rate of input audio in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	OutputRate float64

	// Channels is the number of audio channels to process.
	Channels int

	// Quality selects the filter parameters.
	Quality QualitySpec

	// MaxInputSize is the largest input passed to one Process call. Zero
	// selects defaultMaxInputSize and lets larger calls grow the buffers;
	// a positive value makes larger calls fail with ErrInputTooLong.
	MaxInputSize int

	// EnableParallel processes channels concurrently in ProcessMulti.
	// Has no effect on mono audio.
	EnableParallel bool

	// Logger receives stage construction details at debug level.
	// Nil disables logging.
	Logger *zap.Logger

	// Registry shares FFT objects and filters between resamplers.
	// Nil selects DefaultRegistry.
	Registry *Registry
}

// QualitySpec defines the filter requirements.
type QualitySpec struct {
	// Preset selects a predefined level. QualityCustom uses the fields below.
	Preset QualityPreset

	// TransitionBand is the transition band in percent of the pass band,
	// 0.5-45. The pass band edge is at (100-TransitionBand)/100 of the
	// lower Nyquist frequency.
	TransitionBand float64

	// Attenuation is the stop-band attenuation in dB, 49-218.
	Attenuation float64

	// Phase selects the low-pass phase response.
	Phase PhaseResponse

	// UsePowerOf2 builds power-of-2 factors from half-band stages instead
	// of 2x block convolvers.
	UsePowerOf2 bool
}

// QualityPreset enumerates predefined quality levels.
type QualityPreset int

const (
	// QualityVeryHigh targets 32-bit floating point audio (206.91 dB).
	// It is the zero value and therefore the default.
	QualityVeryHigh QualityPreset = iota

	// QualityLow is suitable for impulse responses and other non-dynamic
	// signals (109.56 dB).
	QualityLow

	// QualityMedium targets 16-bit audio (136.45 dB).
	QualityMedium

	// QualityHigh targets 24-bit audio (180.15 dB).
	QualityHigh

	// QualityCustom indicates manual configuration of parameters.
	QualityCustom
)

func (p QualityPreset) String() string {
	switch p {
	case QualityVeryHigh:
		return "veryhigh"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	case QualityCustom:
		return "custom"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// ParseQualityPreset maps a preset name to its value.
func ParseQualityPreset(s string) (QualityPreset, error) {
	for p := QualityVeryHigh; p <= QualityCustom; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown quality preset %q", ErrInvalidConfig, s)
}

// PhaseResponse selects the low-pass filter phase response.
type PhaseResponse int

const (
	// PhaseLinear is a symmetric impulse response with no fractional delay.
	PhaseLinear PhaseResponse = iota

	// PhaseMinimum is recognized but not supported.
	PhaseMinimum
)

// Common errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrNotSupported indicates the requested operation is not supported.
	ErrNotSupported = errors.New("operation not supported")

	// ErrInputTooLong indicates an input longer than Config.MaxInputSize.
	ErrInputTooLong = errors.New("input exceeds maximum input size")

	// ErrClosed indicates use of a resampler after Close.
	ErrClosed = errors.New("resampler closed")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validRate(c.InputRate) || !validRate(c.OutputRate) {
		return fmt.Errorf("%w: sample rates must be positive and finite", ErrInvalidConfig)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	if c.MaxInputSize < 0 {
		return fmt.Errorf("%w: negative max input size", ErrInvalidConfig)
	}

	ratio := c.OutputRate / c.InputRate
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: resampling ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	return c.Quality.Validate()
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0)
}

// Validate checks if the quality specification is valid.
func (q *QualitySpec) Validate() error {
	if q.Preset < QualityVeryHigh || q.Preset > QualityCustom {
		return fmt.Errorf("%w: unknown quality preset %d", ErrInvalidConfig, int(q.Preset))
	}

	switch q.Phase {
	case PhaseLinear:
	case PhaseMinimum:
		return fmt.Errorf("%w: minimum-phase filters", ErrNotSupported)
	default:
		return fmt.Errorf("%w: unknown phase response %d", ErrInvalidConfig, int(q.Phase))
	}

	if q.Preset != QualityCustom {
		return nil
	}

	if !(q.TransitionBand >= filter.MinTransBand && q.TransitionBand <= filter.MaxTransBand) {
		return fmt.Errorf("%w: transition band must be %g-%g%%", ErrInvalidConfig, filter.MinTransBand, filter.MaxTransBand)
	}

	if !(q.Attenuation >= filter.MinAtten && q.Attenuation <= filter.MaxAtten) {
		return fmt.Errorf("%w: attenuation must be %g-%g dB", ErrInvalidConfig, filter.MinAtten, filter.MaxAtten)
	}

	return nil
}

// GetPresetSpec returns the quality specification for a preset.
func GetPresetSpec(preset QualityPreset) QualitySpec {
	atten := veryHighAtten
	switch preset {
	case QualityLow:
		atten = lowAtten
	case QualityMedium:
		atten = mediumAtten
	case QualityHigh:
		atten = highAtten
	case QualityCustom:
		return QualitySpec{Preset: QualityCustom}
	}

	return QualitySpec{
		Preset:         preset,
		TransitionBand: presetTransBand,
		Attenuation:    atten,
		Phase:          PhaseLinear,
		UsePowerOf2:    true,
	}
}

// New creates a resampler for the configuration. The stage sequence is
// chosen from the rate pair; every channel gets its own copy of it.
func New(config *Config) (Resampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := *config
	if cfg.Quality.Preset != QualityCustom {
		cfg.Quality = GetPresetSpec(cfg.Quality.Preset)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry
	}

	return newConstantRateResampler(&cfg)
}

// Info describes a constructed resampler.
type Info struct {
	// Algorithm summarizes the stage sequence.
	Algorithm string

	// Stages describes each stage of one channel, in order.
	Stages []string

	// FilterLength is the longest kernel of any stage.
	FilterLength int

	// InLenBeforeOutStart is the input consumed before output begins.
	InLenBeforeOutStart int

	// LatencyFrac is the residual fractional output delay.
	LatencyFrac float64

	// SIMDEnabled indicates if SIMD kernels are active.
	SIMDEnabled bool

	// SIMDType describes the CPU features in use.
	SIMDType string
}

// infoProvider is an optional interface for resamplers that can provide detailed info.
type infoProvider interface {
	GetInfo() Info
}

// GetInfo returns information about a resampler.
func GetInfo(r Resampler) Info {
	if provider, ok := r.(infoProvider); ok {
		return provider.GetInfo()
	}

	return Info{
		Algorithm:           "unknown",
		InLenBeforeOutStart: r.GetInLenBeforeOutStart(),
		LatencyFrac:         r.GetLatencyFrac(),
		SIMDType:            "none",
	}
}
