// Package config loads qrscan settings from files, the environment and
// command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ericlevine/qrscan/qrcode"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the complete qrscan configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// DecodeConfig holds the reader settings.
type DecodeConfig struct {
	Workers      int           `mapstructure:"workers" yaml:"workers" json:"workers"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	MaxFinders   int           `mapstructure:"max_finders" yaml:"max_finders" json:"max_finders"`
	Binarizers   []string      `mapstructure:"binarizers" yaml:"binarizers" json:"binarizers"`
	AlsoInverted bool          `mapstructure:"also_inverted" yaml:"also_inverted" json:"also_inverted"`
	// MaxDimension downscales larger images before decoding. Zero keeps
	// the original size.
	MaxDimension int `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	// Raw prints payloads as they are instead of making them displayable.
	Raw bool `mapstructure:"raw" yaml:"raw" json:"raw"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Decode: DecodeConfig{
			Timeout:      10 * time.Second,
			MaxFinders:   32,
			Binarizers:   []string{qrcode.BinarizerHistogram, qrcode.BinarizerHybrid},
			MaxDimension: 2048,
		},
		Output: OutputConfig{Format: FormatText},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	if err := c.Decode.Validate(); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output.format %q: must be text, json or yaml", c.Output.Format)
	}
	return nil
}

// Validate checks the decode settings.
func (d *DecodeConfig) Validate() error {
	if d.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", d.Workers)
	}
	if d.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", d.Timeout)
	}
	// A symbol needs three finders.
	if d.MaxFinders != 0 && d.MaxFinders < 3 {
		return fmt.Errorf("max_finders must be 0 or at least 3, got %d", d.MaxFinders)
	}
	if d.MaxDimension < 0 {
		return fmt.Errorf("max_dimension must be non-negative, got %d", d.MaxDimension)
	}
	known := []string{qrcode.BinarizerHistogram, qrcode.BinarizerHybrid}
	for _, b := range d.Binarizers {
		if !slices.Contains(known, b) {
			return fmt.Errorf("unknown binarizer %q: must be one of %s", b, strings.Join(known, ", "))
		}
	}
	return nil
}

// SlogLevel returns the level to log at. Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ReaderOptions converts the decode settings into qrcode reader options.
func (d *DecodeConfig) ReaderOptions() []qrcode.Option {
	return []qrcode.Option{
		qrcode.WithWorkers(d.Workers),
		qrcode.WithTimeout(d.Timeout),
		qrcode.WithMaxFinders(d.MaxFinders),
		qrcode.WithAlsoInverted(d.AlsoInverted),
		qrcode.WithBinarizers(d.Binarizers...),
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", s)
}
