// Package logger builds the zap logger used by the command-line tools.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, encoding and sinks.
type Config struct {
	Level  string     `mapstructure:"level" yaml:"level"`
	Format string     `mapstructure:"format" yaml:"format"` // json or console
	Stdout bool       `mapstructure:"stdout" yaml:"stdout"`
	File   FileConfig `mapstructure:"file" yaml:"file"`
}

// FileConfig configures the rotating log file.
type FileConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	Name       string `mapstructure:"name" yaml:"name"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

const (
	defaultDir       = "./logs"
	defaultFileName  = "resample.log"
	defaultMaxSizeMB = 100
)

// New builds a logger from cfg. With no sink enabled it logs to stdout.
func New(cfg Config) (*zap.Logger, error) {
	sinks, err := buildSinks(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sinks, ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller()), nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}

	if strings.EqualFold(strings.TrimSpace(format), "console") {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

func buildSinks(cfg Config) (zapcore.WriteSyncer, error) {
	var sinks []zapcore.WriteSyncer

	if cfg.Stdout {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}

	if cfg.File.Enabled {
		fileWriter, err := newFileWriter(cfg.File)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(fileWriter))
	}

	if len(sinks) == 0 {
		sinks = append(sinks, zapcore.AddSync(os.Stdout))
	}

	return zapcore.NewMultiWriteSyncer(sinks...), nil
}

func newFileWriter(fileCfg FileConfig) (*lumberjack.Logger, error) {
	dir := strings.TrimSpace(fileCfg.Path)
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	filename := strings.TrimSpace(fileCfg.Name)
	if filename == "" {
		filename = defaultFileName
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, filename),
		MaxSize:    positiveOr(fileCfg.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: max(fileCfg.MaxBackups, 0),
		MaxAge:     max(fileCfg.MaxAgeDays, 0),
		Compress:   fileCfg.Compress,
		LocalTime:  true,
	}, nil
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// ParseLevel maps a level name to a zap level. Unknown names select info.
func ParseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
