package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "qrscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "QRSCAN"
)

// Loader loads configuration from files, environment variables and flags
// bound to its viper instance.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader creates a loader that reads configuration files from fs.
func NewLoader(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)
	return &Loader{v: v, fs: fs}
}

// Viper returns the underlying viper instance, for binding flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads configFile, or searches the standard paths when it is empty.
// A missing file in the standard paths is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if ok, _ := afero.Exists(l.fs, configFile); !ok {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		for _, p := range SearchPaths() {
			l.v.AddConfigPath(p)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the file read by Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// SearchPaths returns the directories searched for qrscan.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(configDir, ConfigFileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigFileName))
	}
	return append(paths, filepath.Join("/etc", ConfigFileName))
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	// decode.max_finders is read from QRSCAN_DECODE_MAX_FINDERS.
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("log_format", d.LogFormat)
	l.v.SetDefault("verbose", d.Verbose)

	l.v.SetDefault("decode.workers", d.Decode.Workers)
	l.v.SetDefault("decode.timeout", d.Decode.Timeout)
	l.v.SetDefault("decode.max_finders", d.Decode.MaxFinders)
	l.v.SetDefault("decode.binarizers", d.Decode.Binarizers)
	l.v.SetDefault("decode.also_inverted", d.Decode.AlsoInverted)
	l.v.SetDefault("decode.max_dimension", d.Decode.MaxDimension)

	l.v.SetDefault("output.format", d.Output.Format)
	l.v.SetDefault("output.raw", d.Output.Raw)
}
