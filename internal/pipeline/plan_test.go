package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testQuality = QualityParams{TransBand: 2, Atten: 206.91, UsePowerOf2: true}

func stageTypes(p *Plan) []StageType {
	types := make([]StageType, len(p.Stages))
	for i, s := range p.Stages {
		types[i] = s.Type
	}
	return types
}

func TestBuildPlan_Decomposition(t *testing.T) {
	tests := []struct {
		name     string
		src, dst float64
		want     []StageType
	}{
		{"identity", 48000, 48000, []StageType{}},
		{"common_1_2", 48000, 96000, []StageType{StageConvolver}},
		{"common_2_1", 96000, 48000, []StageType{StageConvolver}},
		{"common_3_2", 48000, 32000, []StageType{StageConvolver}},
		{"whole_8x", 44100, 352800, []StageType{StageConvolver, StageHalfBandUp, StageHalfBandUp}},
		{"whole_3x2", 16000, 96000, []StageType{StageConvolver, StageHalfBandUp}},
		{"cd_to_dat", 44100, 48000, []StageType{StageConvolver, StageInterpolator}},
		{"dat_to_cd", 48000, 44100, []StageType{StageConvolver, StageInterpolator}},
		{"up_whole_step", 44100, 96000, []StageType{StageConvolver, StageInterpolator}},
		{"up_intermediate", 44100, 192000, []StageType{StageConvolver, StageInterpolator, StageConvolver, StageHalfBandUp}},
		{"up_intermediate_8x", 44100, 384000, []StageType{
			StageConvolver, StageInterpolator, StageConvolver, StageHalfBandUp, StageHalfBandUp,
		}},
		{"down_4x", 192000, 48000, []StageType{StageHalfBandDown, StageConvolver}},
		{"down_6x", 96000, 16000, []StageType{StageHalfBandDown, StageConvolver}},
		{"down_arbitrary", 192000, 44100, []StageType{StageHalfBandDown, StageConvolver, StageInterpolator}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := BuildPlan(tt.src, tt.dst, testQuality)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stageTypes(p), "plan: %v", p)
		})
	}
}

func TestBuildPlan_StageParameters(t *testing.T) {
	p, err := BuildPlan(44100, 352800, testQuality)
	require.NoError(t, err)
	first := p.Stages[0]
	assert.Equal(t, 2, first.Up)
	assert.InDelta(t, 0.5, first.NormFreq, 0)
	assert.InDelta(t, 2.0, first.Gain, 0)
	assert.Equal(t, 0, p.Stages[1].Steepness)
	assert.Equal(t, 1, p.Stages[2].Steepness)

	p, err = BuildPlan(48000, 44100, testQuality)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*44100.0/48000.0, p.Stages[0].NormFreq, 1e-15)
	assert.InDelta(t, 96000.0, p.Stages[1].SrcRate, 0)
	assert.InDelta(t, 44100.0, p.Stages[1].DstRate, 0)

	p, err = BuildPlan(192000, 44100, testQuality)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stages[0].Steepness)
	assert.InDelta(t, 44100.0*2/192000, p.Stages[1].NormFreq, 1e-15)
	assert.InDelta(t, 96000.0, p.Stages[2].SrcRate, 0)

	p, err = BuildPlan(96000, 16000, testQuality)
	require.NoError(t, err)
	assert.True(t, p.Stages[0].Third)
	assert.Equal(t, 3, p.Stages[1].Down)
}

func TestBuildPlan_IntermediateInterpolation(t *testing.T) {
	p, err := BuildPlan(44100, 192000, testQuality)
	require.NoError(t, err)
	require.Len(t, p.Stages, 4)

	// Interpolator runs at 88200 -> 48000, expressed with rates scaled by 4.
	interp := p.Stages[1]
	assert.InDelta(t, 352800.0, interp.SrcRate, 0)
	assert.InDelta(t, 192000.0, interp.DstRate, 0)
	assert.InDelta(t, 88200.0/48000.0, interp.SrcRate/interp.DstRate, 1e-15)

	conv := p.Stages[2]
	assert.Equal(t, 2, conv.Up)
	assert.Equal(t, 1, conv.Down)
	assert.InDelta(t, 0.5, conv.NormFreq, 0)
	assert.InDelta(t, (1-44100.0*4/192000)/interpTransBandScale, conv.TransBand, 1e-12)
	assert.GreaterOrEqual(t, conv.TransBand, testQuality.TransBand)
	assert.Equal(t, 0, p.Stages[3].Steepness)
	assert.False(t, p.Stages[3].Third)

	// A wide requested band pushes the helper band past the designer limit.
	wide := testQuality
	wide.TransBand = 40
	p, err = BuildPlan(7000, 370000, wide)
	require.NoError(t, err)
	require.Equal(t, StageInterpolator, p.Stages[1].Type)
	assert.InDelta(t, relaxedTransBand, p.Stages[2].TransBand, 0)

	q := testQuality
	q.UsePowerOf2 = false
	p, err = BuildPlan(44100, 384000, q)
	require.NoError(t, err)
	assert.Equal(t, []StageType{
		StageConvolver, StageInterpolator, StageConvolver, StageConvolver, StageConvolver,
	}, stageTypes(p))
	assert.InDelta(t, relaxedTransBand, p.Stages[3].TransBand, 0)
	assert.InDelta(t, relaxedTransBand, p.Stages[4].TransBand, 0)
}

func TestBuildPlan_WithoutPowerOf2(t *testing.T) {
	q := testQuality
	q.UsePowerOf2 = false

	p, err := BuildPlan(44100, 352800, q)
	require.NoError(t, err)
	assert.Equal(t, []StageType{StageConvolver, StageConvolver, StageConvolver}, stageTypes(p))
	assert.InDelta(t, relaxedTransBand, p.Stages[2].TransBand, 0)

	p, err = BuildPlan(768000, 44100, q)
	require.NoError(t, err)
	require.Len(t, p.Stages, 5)
	assert.InDelta(t, relaxedTransBand, p.Stages[0].TransBand, 0)
	assert.InDelta(t, lastHalvingTransBand, p.Stages[2].TransBand, 0)
	assert.Equal(t, StageInterpolator, p.Stages[4].Type)
}

func TestBuildPlan_InvalidRates(t *testing.T) {
	for _, r := range [][2]float64{{0, 48000}, {44100, -1}} {
		_, err := BuildPlan(r[0], r[1], testQuality)
		assert.ErrorIs(t, err, ErrInvalidRates)
	}
}
