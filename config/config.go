// Package config holds the settings of the cdat command line tool. Values
// are read from a YAML file and CDAT_* environment variables; command line
// flags override both.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration of the command line tool.
type Config struct {
	Build BuildConfig `mapstructure:"build"`
	Query QueryConfig `mapstructure:"query"`
	Log   LogConfig   `mapstructure:"log"`
}

// BuildConfig stores defaults for building an index.
type BuildConfig struct {
	WordSize      int    `mapstructure:"wordSize"`
	Shift         int    `mapstructure:"shift"`
	Type          string `mapstructure:"type"`
	MaxWordValues uint64 `mapstructure:"maxWordValues"`
}

// QueryConfig stores defaults for batch queries.
type QueryConfig struct {
	Action  string `mapstructure:"action"`
	Workers int    `mapstructure:"workers"`
}

// LogConfig selects log and trace levels.
type LogConfig struct {
	Level      string `mapstructure:"level"`      // zerolog level of the tool
	TraceLevel string `mapstructure:"traceLevel"` // level of library tracing
}

// EnvPrefix prefixes environment overrides, e.g. CDAT_BUILD_WORDSIZE.
const EnvPrefix = "CDAT"

// Load reads configuration from configPath, or from cdat.yaml in the
// working directory if configPath is empty. A missing default file is not an
// error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("cdat")
		v.SetConfigType("yaml")
	}

	v.SetDefault("build.wordSize", 12)
	v.SetDefault("build.shift", 1)
	v.SetDefault("build.type", "bit")
	v.SetDefault("build.maxWordValues", uint64(1<<32))
	v.SetDefault("query.action", "count")
	v.SetDefault("query.workers", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.traceLevel", "error")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	return cfg, nil
}
