// Package pipeline chains resampling stages, plans the stage sequence for a
// rate pair and provides the mirrored ring buffer the stages share.
package pipeline

import (
	"go.uber.org/zap"
)

// Pipeline runs a fixed sequence of stages. Stage i writes into
// intermediate buffer i&1, so two buffers serve any number of stages.
type Pipeline struct {
	stages      []Stage
	bufs        [2][]float64
	maxInLen    int
	latencyFrac float64
}

// Builder assembles a Pipeline, passing each stage's fractional latency to
// the constructor of the next one.
type Builder struct {
	stages      []Stage
	latencyFrac float64
	logger      *zap.Logger
}

// NewBuilder starts an empty pipeline. The logger may be nil.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		stages: make([]Stage, 0, defaultStageCapacity),
		logger: logger,
	}
}

// LatencyFrac returns the fractional latency accumulated so far.
func (b *Builder) LatencyFrac() float64 { return b.latencyFrac }

// Len returns the number of stages added.
func (b *Builder) Len() int { return len(b.stages) }

// Add constructs a stage with the current fractional latency and appends it.
func (b *Builder) Add(ctor func(prevLatencyFrac float64) (Stage, error)) error {
	s, err := ctor(b.latencyFrac)
	if err != nil {
		return err
	}

	b.stages = append(b.stages, s)
	b.latencyFrac = s.LatencyFrac()

	info := s.Info()
	b.logger.Debug("added resampling stage",
		zap.Int("index", len(b.stages)-1),
		zap.String("stage", info.Kind),
		zap.Int("taps", info.Taps),
		zap.Int("up", info.Up),
		zap.Int("down", info.Down),
		zap.Int("latency", info.Latency),
		zap.Float64("latency_frac", info.LatencyFrac))
	return nil
}

// Discard closes the stages added so far. Used when a later stage fails.
func (b *Builder) Discard() {
	closeStages(b.stages)
	b.stages = nil
}

// Build finalizes the pipeline with intermediate buffers sized for calls of
// up to maxInLen samples. Larger calls grow the buffers.
func (b *Builder) Build(maxInLen int) *Pipeline {
	p := &Pipeline{
		stages:      b.stages,
		latencyFrac: b.latencyFrac,
	}
	p.ensure(max(maxInLen, 1))
	b.stages = nil
	return p
}

func (p *Pipeline) ensure(inLen int) {
	if inLen <= p.maxInLen {
		return
	}

	var caps [2]int
	l := inLen
	for i, s := range p.stages {
		l = s.MaxOutLen(l)
		caps[i&1] = max(caps[i&1], l)
	}
	for i := range p.bufs {
		if caps[i] > len(p.bufs[i]) {
			p.bufs[i] = make([]float64, caps[i])
		}
	}
	p.maxInLen = inLen
}

// Process runs in through all stages. With no stages the input slice
// itself is returned. The result is valid until the next call.
func (p *Pipeline) Process(in []float64) []float64 {
	if len(p.stages) == 0 {
		return in
	}

	p.ensure(len(in))
	cur := in
	for i, s := range p.stages {
		cur = s.Process(cur, p.bufs[i&1])
	}
	return cur
}

// Clear resets every stage.
func (p *Pipeline) Clear() {
	for _, s := range p.stages {
		s.Clear()
	}
}

// Close releases the shared resources held by the stages.
func (p *Pipeline) Close() {
	closeStages(p.stages)
}

type closer interface {
	Close()
}

func closeStages(stages []Stage) {
	for _, s := range stages {
		if c, ok := s.(closer); ok {
			c.Close()
		}
	}
}

// Stages returns the stage list.
func (p *Pipeline) Stages() []Stage { return p.stages }

// LatencyFrac returns the residual fractional latency of the last stage.
func (p *Pipeline) LatencyFrac() float64 { return p.latencyFrac }

// MaxOutLen returns the largest output a call with maxInLen samples produces.
func (p *Pipeline) MaxOutLen(maxInLen int) int {
	l := maxInLen
	for _, s := range p.stages {
		l = s.MaxOutLen(l)
	}
	return l
}

// InLenBeforeOutStart returns how many input samples are consumed before
// the first output sample is produced.
func (p *Pipeline) InLenBeforeOutStart() int {
	l := 0
	for i := len(p.stages) - 1; i >= 0; i-- {
		l = p.stages[i].InLenBeforeOutStart(l)
	}
	return l
}

// Info describes every stage in order.
func (p *Pipeline) Info() []StageInfo {
	infos := make([]StageInfo, len(p.stages))
	for i, s := range p.stages {
		infos[i] = s.Info()
	}
	return infos
}
