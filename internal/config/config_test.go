package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resampler "github.com/tphakala/go-hq-resampler"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Log.File.Enabled)
	assert.InDelta(t, 48000.0, cfg.Resample.OutputRate, 0)
	assert.Equal(t, "veryhigh", cfg.Resample.Quality)
	assert.True(t, cfg.Resample.Parallel)
	assert.Equal(t, 65536, cfg.Resample.ChunkSize)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
resample:
  output_rate: 96000
  quality: high
  chunk_size: 1024
`), 0o600))

	t.Setenv("RESAMPLE_RESAMPLE_QUALITY", "medium")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("rate", 48000, "")
	flags.Bool("parallel", true, "")
	flags.String("log-file", "", "")
	require.NoError(t, flags.Parse([]string{"--parallel=false", "--log-file", filepath.Join(dir, "out", "run.log")}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 96000.0, cfg.Resample.OutputRate, 0, "unset flag keeps the file value")
	assert.Equal(t, "medium", cfg.Resample.Quality, "environment overrides the file")
	assert.Equal(t, 1024, cfg.Resample.ChunkSize)
	assert.False(t, cfg.Resample.Parallel)
	assert.True(t, cfg.Log.File.Enabled)
	assert.Equal(t, "run.log", cfg.Log.File.Name)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resample.yaml"), []byte("resample:\n  output_rate: 32000\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.InDelta(t, 32000.0, cfg.Resample.OutputRate, 0)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml", nil)
	assert.Error(t, err)
}

func TestResampleConfig_QualitySpec(t *testing.T) {
	q, err := ResampleConfig{Quality: "high"}.QualitySpec()
	require.NoError(t, err)
	assert.Equal(t, resampler.QualityHigh, q.Preset)
	assert.InDelta(t, 180.15, q.Attenuation, 0)

	q, err = ResampleConfig{Quality: "low", Atten: 150}.QualitySpec()
	require.NoError(t, err)
	assert.Equal(t, resampler.QualityCustom, q.Preset)
	assert.InDelta(t, 150.0, q.Attenuation, 0)
	assert.InDelta(t, 2.0, q.TransitionBand, 0)

	q, err = ResampleConfig{Quality: "custom", TransBand: 5}.QualitySpec()
	require.NoError(t, err)
	assert.InDelta(t, 206.91, q.Attenuation, 0)

	_, err = ResampleConfig{Quality: "medium", TransBand: 90}.QualitySpec()
	assert.ErrorIs(t, err, resampler.ErrInvalidConfig)

	_, err = ResampleConfig{Quality: "best"}.QualitySpec()
	assert.ErrorIs(t, err, resampler.ErrInvalidConfig)
}
