// Package config loads the command-line tool configuration from defaults,
// an optional YAML file, RESAMPLE_ environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	resampler "github.com/tphakala/go-hq-resampler"
	"github.com/tphakala/go-hq-resampler/internal/logger"
)

// EnvPrefix is the environment variable prefix, e.g. RESAMPLE_LOG_LEVEL.
const EnvPrefix = "resample"

// ResampleConfig holds the conversion settings.
type ResampleConfig struct {
	OutputRate float64 `mapstructure:"output_rate"`
	Quality    string  `mapstructure:"quality"`
	TransBand  float64 `mapstructure:"trans_band"` // Percent; 0 keeps the preset value
	Atten      float64 `mapstructure:"atten"`      // dB; 0 keeps the preset value
	Parallel   bool    `mapstructure:"parallel"`
	ChunkSize  int     `mapstructure:"chunk_size"`
	BitDepth   int     `mapstructure:"bit_depth"` // 0 keeps the input bit depth
}

// Config is the complete tool configuration.
type Config struct {
	Log      logger.Config  `mapstructure:"log"`
	Resample ResampleConfig `mapstructure:"resample"`
}

// FlagKeys maps configuration keys to the flag names that override them.
var FlagKeys = map[string]string{
	"log.level":            "log-level",
	"log.format":           "log-format",
	"resample.output_rate": "rate",
	"resample.quality":     "quality",
	"resample.trans_band":  "trans-band",
	"resample.atten":       "atten",
	"resample.parallel":    "parallel",
	"resample.chunk_size":  "chunk-size",
	"resample.bit_depth":   "bit-depth",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.name", "resample.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("resample.output_rate", 48000.0)
	v.SetDefault("resample.quality", "veryhigh")
	v.SetDefault("resample.trans_band", 0.0)
	v.SetDefault("resample.atten", 0.0)
	v.SetDefault("resample.parallel", true)
	v.SetDefault("resample.chunk_size", 65536)
	v.SetDefault("resample.bit_depth", 0)
}

// Load reads the configuration. An empty configPath searches for
// resample.yaml in the working directory and $HOME/.config/resample; a
// missing file is not an error then. Flags that were set on the command
// line take precedence over everything else; flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(configPath); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("resample")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "resample"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		for key, name := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if flags != nil {
		if f := flags.Lookup("log-file"); f != nil && f.Changed {
			cfg.Log.File.Enabled = true
			cfg.Log.File.Path = filepath.Dir(f.Value.String())
			cfg.Log.File.Name = filepath.Base(f.Value.String())
		}
	}

	return cfg, nil
}

// QualitySpec converts the quality settings. A non-zero TransBand or Atten
// turns the preset into a custom spec based on the preset values.
func (r ResampleConfig) QualitySpec() (resampler.QualitySpec, error) {
	preset, err := resampler.ParseQualityPreset(strings.ToLower(strings.TrimSpace(r.Quality)))
	if err != nil {
		return resampler.QualitySpec{}, err
	}

	q := resampler.GetPresetSpec(preset)
	if preset == resampler.QualityCustom {
		q = resampler.GetPresetSpec(resampler.QualityVeryHigh)
		q.Preset = resampler.QualityCustom
	}
	if r.TransBand != 0 || r.Atten != 0 {
		q.Preset = resampler.QualityCustom
	}
	if r.TransBand != 0 {
		q.TransitionBand = r.TransBand
	}
	if r.Atten != 0 {
		q.Attenuation = r.Atten
	}

	return q, q.Validate()
}
