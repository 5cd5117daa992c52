package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseLevel(raw), "level %q", raw)
	}
}

func TestNew_FileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	log, err := New(Config{
		Level:  "debug",
		Format: "console",
		File:   FileConfig{Enabled: true, Path: dir, Name: "test.log"},
	})
	require.NoError(t, err)

	log.Debug("stage built")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "stage built")
	assert.Contains(t, string(data), "DEBUG")
}

func TestNew_LevelFilters(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{
		Level: "error",
		File:  FileConfig{Enabled: true, Path: dir},
	})
	require.NoError(t, err)

	log.Info("dropped")
	log.Error("kept")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, defaultFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"kept"`)
}

func TestNewFileWriter_Defaults(t *testing.T) {
	w, err := newFileWriter(FileConfig{Path: t.TempDir(), MaxBackups: -3, MaxAgeDays: -1})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxSizeMB, w.MaxSize)
	assert.Zero(t, w.MaxBackups)
	assert.Zero(t, w.MaxAge)
	assert.Equal(t, defaultFileName, filepath.Base(w.Filename))
}
