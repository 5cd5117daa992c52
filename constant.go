package resampler

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-hq-resampler/internal/pipeline"
	"github.com/tphakala/go-hq-resampler/internal/simdops"
)

// constantRateResampler implements fixed-ratio resampling. Every channel
// runs its own instance of the same stage plan.
type constantRateResampler struct {
	config Config
	ratio  float64
	plan   *pipeline.Plan

	channels []*channelResampler

	// Pipeline shape of channel 0, kept so the getters still answer after
	// Close.
	inLenBeforeOutStart int
	latencyFrac         float64
	stageInfo           []pipeline.StageInfo

	// Process and ProcessMulti hold the read lock; Clear and Close the
	// write lock.
	mu sync.RWMutex
}

// channelResampler holds per-channel state.
type channelResampler struct {
	pipe     *pipeline.Pipeline
	inCount  int64
	outCount int64
	zeros    []float64
}

func (ch *channelResampler) clear() {
	ch.pipe.Clear()
	ch.inCount = 0
	ch.outCount = 0
}

// newConstantRateResampler creates a new constant-rate resampler.
func newConstantRateResampler(config *Config) (*constantRateResampler, error) {
	plan, err := planFor(config)
	if err != nil {
		return nil, err
	}

	r := &constantRateResampler{
		config:   *config,
		ratio:    config.OutputRate / config.InputRate,
		plan:     plan,
		channels: make([]*channelResampler, config.Channels),
	}

	for i := range r.channels {
		p, err := buildPipeline(plan, config)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.channels[i] = &channelResampler{pipe: p}
	}

	pipe0 := r.channels[0].pipe
	r.inLenBeforeOutStart = pipe0.InLenBeforeOutStart()
	r.latencyFrac = pipe0.LatencyFrac()
	r.stageInfo = pipe0.Info()

	config.Logger.Debug("created resampler",
		zap.Float64("input_rate", config.InputRate),
		zap.Float64("output_rate", config.OutputRate),
		zap.Int("channels", config.Channels),
		zap.Stringer("plan", plan))
	return r, nil
}

// Process resamples a mono audio channel.
func (r *constantRateResampler) Process(input []float64) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.processChannel(0, input)
}

// ProcessFloat32 resamples float32 audio data. The engine works in float64;
// input and output are converted.
func (r *constantRateResampler) ProcessFloat32(input []float32) ([]float32, error) {
	input64 := make([]float64, len(input))
	for i, v := range input {
		input64[i] = float64(v)
	}

	output64, err := r.Process(input64)
	if err != nil {
		return nil, err
	}

	output32 := make([]float32, len(output64))
	for i, v := range output64 {
		output32[i] = float32(v)
	}

	return output32, nil
}

// ProcessMulti processes multiple audio channels.
// When EnableParallel is true in config, channels are processed concurrently.
// Otherwise, channels are processed sequentially.
func (r *constantRateResampler) ProcessMulti(input [][]float64) ([][]float64, error) {
	if len(input) != r.config.Channels {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", ErrInvalidConfig, r.config.Channels, len(input))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.channels == nil {
		return nil, ErrClosed
	}
	return r.forEachChannel(func(ch int) ([]float64, error) {
		return r.processChannel(ch, input[ch])
	})
}

// forEachChannel runs fn for every channel, concurrently when enabled.
func (r *constantRateResampler) forEachChannel(fn func(ch int) ([]float64, error)) ([][]float64, error) {
	output := make([][]float64, len(r.channels))

	if !r.config.EnableParallel || len(r.channels) <= 1 {
		for ch := range r.channels {
			result, err := fn(ch)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
		}
		return output, nil
	}

	var g errgroup.Group
	for ch := range r.channels {
		g.Go(func() error {
			result, err := fn(ch)
			if err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return output, nil
}

// processChannel runs input through one channel's pipeline.
func (r *constantRateResampler) processChannel(channel int, input []float64) ([]float64, error) {
	if r.channels == nil {
		return nil, ErrClosed
	}
	if channel >= len(r.channels) {
		return nil, fmt.Errorf("channel %d out of range", channel)
	}
	if r.config.MaxInputSize > 0 && len(input) > r.config.MaxInputSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrInputTooLong, len(input), r.config.MaxInputSize)
	}

	ch := r.channels[channel]
	out := ch.pipe.Process(input)
	ch.inCount += int64(len(input))
	ch.outCount += int64(len(out))
	return out, nil
}

// flushChannel feeds silence until the channel has produced
// ceil(inCount*ratio) samples, then clears it.
func (r *constantRateResampler) flushChannel(channel int) []float64 {
	ch := r.channels[channel]
	defer ch.clear()

	remaining := r.targetLen(ch.inCount) - ch.outCount
	if remaining <= 0 {
		return []float64{}
	}

	if ch.zeros == nil {
		ch.zeros = make([]float64, r.chunkLen())
	}

	result := make([]float64, 0, remaining)
	for remaining > 0 {
		out := ch.pipe.Process(ch.zeros)
		n := min(int64(len(out)), remaining)
		result = append(result, out[:n]...)
		remaining -= n
	}
	return result
}

// targetLen is the output length matching inLen input samples.
func (r *constantRateResampler) targetLen(inLen int64) int64 {
	return int64(math.Ceil(float64(inLen) * r.config.OutputRate / r.config.InputRate))
}

func (r *constantRateResampler) chunkLen() int {
	if r.config.MaxInputSize > 0 {
		return r.config.MaxInputSize
	}
	return defaultMaxInputSize
}

// Flush completes the first channel's output.
func (r *constantRateResampler) Flush() ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channels == nil {
		return nil, ErrClosed
	}
	return r.flushChannel(0), nil
}

// FlushMulti completes every channel's output.
func (r *constantRateResampler) FlushMulti() ([][]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channels == nil {
		return nil, ErrClosed
	}
	return r.forEachChannel(func(ch int) ([]float64, error) {
		return r.flushChannel(ch), nil
	})
}

// Clear resets all internal state.
func (r *constantRateResampler) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.channels {
		ch.clear()
	}
}

// Close releases the filters held by every channel.
func (r *constantRateResampler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.channels {
		if ch != nil {
			ch.pipe.Close()
		}
	}
	r.channels = nil
}

// GetInLenBeforeOutStart returns the input consumed before output begins.
func (r *constantRateResampler) GetInLenBeforeOutStart() int {
	return r.inLenBeforeOutStart
}

// GetMaxOutLen returns the largest output of a call with maxInLen samples.
// A closed resampler produces nothing.
func (r *constantRateResampler) GetMaxOutLen(maxInLen int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.channels == nil {
		return 0
	}
	return r.channels[0].pipe.MaxOutLen(maxInLen)
}

// GetLatencyFrac returns the residual fractional output delay.
func (r *constantRateResampler) GetLatencyFrac() float64 {
	return r.latencyFrac
}

// GetRatio returns the resampling ratio.
func (r *constantRateResampler) GetRatio() float64 {
	return r.ratio
}

// GetInfo returns information about the resampler.
func (r *constantRateResampler) GetInfo() Info {
	info := Info{
		Algorithm:           r.plan.String(),
		InLenBeforeOutStart: r.inLenBeforeOutStart,
		LatencyFrac:         r.latencyFrac,
		SIMDType:            simdops.Describe(),
	}
	info.SIMDEnabled = strings.TrimSpace(info.SIMDType) != ""

	for _, si := range r.stageInfo {
		info.Stages = append(info.Stages, si.String())
		info.FilterLength = max(info.FilterLength, si.Taps)
	}

	return info
}
