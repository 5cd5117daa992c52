package resampler

import (
	"fmt"

	"github.com/tphakala/go-hq-resampler/internal/engine"
	"github.com/tphakala/go-hq-resampler/internal/filter"
	"github.com/tphakala/go-hq-resampler/internal/pipeline"
)

// planFor returns the stage plan for the configured rate pair.
func planFor(config *Config) (*pipeline.Plan, error) {
	plan, err := pipeline.BuildPlan(config.InputRate, config.OutputRate, pipeline.QualityParams{
		TransBand:   config.Quality.TransitionBand,
		Atten:       config.Quality.Attenuation,
		UsePowerOf2: config.Quality.UsePowerOf2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return plan, nil
}

// buildPipeline instantiates one channel's stages from the plan.
func buildPipeline(plan *pipeline.Plan, config *Config) (*pipeline.Pipeline, error) {
	b := pipeline.NewBuilder(config.Logger)
	for i, spec := range plan.Stages {
		err := b.Add(func(prev float64) (pipeline.Stage, error) {
			return createStage(spec, config, prev)
		})
		if err != nil {
			b.Discard()
			return nil, fmt.Errorf("failed to create stage %d (%v): %w", i, spec, err)
		}
	}

	maxIn := config.MaxInputSize
	if maxIn == 0 {
		maxIn = defaultMaxInputSize
	}
	return b.Build(maxIn), nil
}

// createStage creates the engine stage for one plan entry.
func createStage(spec pipeline.StageSpec, config *Config, prev float64) (pipeline.Stage, error) {
	reg := config.Registry

	switch spec.Type {
	case pipeline.StageConvolver:
		return engine.NewBlockConvolver(reg.filters, filter.LowPassSpec{
			NormFreq:  spec.NormFreq,
			TransBand: spec.TransBand,
			Atten:     spec.Atten,
			Phase:     filterPhase(config.Quality.Phase),
			Gain:      spec.Gain,
		}, spec.Up, spec.Down, prev)

	case pipeline.StageHalfBandUp:
		return engine.NewHalfBandUpsampler(halfBandSpec(spec), prev)

	case pipeline.StageHalfBandDown:
		return engine.NewHalfBandDownsampler(halfBandSpec(spec), prev)

	case pipeline.StageInterpolator:
		return engine.NewFracInterpolator(reg.banks, engine.InterpolatorSpec{
			SrcRate: spec.SrcRate,
			DstRate: spec.DstRate,
			Atten:   spec.Atten,
			Third:   spec.Third,
		}, prev)

	default:
		return nil, fmt.Errorf("%w: stage type %v", ErrNotSupported, spec.Type)
	}
}

func halfBandSpec(spec pipeline.StageSpec) engine.HalfBandSpec {
	return engine.HalfBandSpec{
		Atten:     spec.Atten,
		Steepness: spec.Steepness,
		Third:     spec.Third,
	}
}

func filterPhase(p PhaseResponse) filter.Phase {
	if p == PhaseMinimum {
		return filter.PhaseMinimum
	}
	return filter.PhaseLinear
}
