package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrscan/qrcode"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"workers", func(c *Config) { c.Decode.Workers = -1 }, "workers"},
		{"timeout", func(c *Config) { c.Decode.Timeout = -time.Second }, "timeout"},
		{"max finders", func(c *Config) { c.Decode.MaxFinders = 2 }, "max_finders"},
		{"max dimension", func(c *Config) { c.Decode.MaxDimension = -5 }, "max_dimension"},
		{"binarizer", func(c *Config) { c.Decode.Binarizers = []string{"otsu"} }, "otsu"},
		{"output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	cfg.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	cfg.Verbose = true
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestReaderOptions(t *testing.T) {
	d := DecodeConfig{
		Workers:      2,
		Timeout:      time.Second,
		MaxFinders:   5,
		Binarizers:   []string{qrcode.BinarizerHybrid},
		AlsoInverted: true,
	}
	got := qrcode.NewReader(d.ReaderOptions()...).Options()
	assert.Equal(t, 2, got.Workers)
	assert.Equal(t, time.Second, got.Timeout)
	assert.Equal(t, 5, got.MaxFinders)
	assert.Equal(t, []string{qrcode.BinarizerHybrid}, got.Binarizers)
	assert.True(t, got.AlsoInverted)
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader(afero.NewMemMapFs()).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadExplicitFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/work/scan.yaml", `
log_level: debug
decode:
  workers: 4
  timeout: 3s
  binarizers: [hybrid]
  also_inverted: true
output:
  format: json
  raw: true
`)
	l := NewLoader(fs)
	cfg, err := l.Load("/work/scan.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/work/scan.yaml", l.ConfigFileUsed())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Decode.Workers)
	assert.Equal(t, 3*time.Second, cfg.Decode.Timeout)
	assert.Equal(t, []string{"hybrid"}, cfg.Decode.Binarizers)
	assert.True(t, cfg.Decode.AlsoInverted)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Output.Raw)
	// Unset keys keep their defaults.
	assert.Equal(t, 32, cfg.Decode.MaxFinders)
	assert.Equal(t, 2048, cfg.Decode.MaxDimension)
}

func TestLoadFromSearchPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/etc/qrscan/qrscan.yaml", "decode:\n  max_finders: 9\n")
	cfg, err := NewLoader(fs).Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Decode.MaxFinders)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load("/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadInvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.yaml", "decode: [unclosed\n")
	_, err := NewLoader(fs).Load("/bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadValidationFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad.yaml", "output:\n  format: csv\n")
	_, err := NewLoader(fs).Load("/bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/scan.yaml", "decode:\n  workers: 4\n")
	t.Setenv("QRSCAN_DECODE_WORKERS", "7")
	t.Setenv("QRSCAN_DECODE_TIMEOUT", "250ms")
	t.Setenv("QRSCAN_OUTPUT_FORMAT", "yaml")

	cfg, err := NewLoader(fs).Load("/scan.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Decode.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Decode.Timeout)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}
