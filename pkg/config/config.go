/*
Package config loads the settings of a crossprobe run from defaults, an
optional configuration file, CROSSPROBE_* environment variables and
command line flags, in increasing order of precedence.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tmaxmax/crossprobe/pkg/toolchain"
	"github.com/tmaxmax/crossprobe/pkg/toolchain/gcc"
)

const (
	// FileName is the name of the configuration file looked up in the
	// working directory, without extension. Any format viper reads is accepted.
	FileName = "crossprobe"
	// EnvPrefix prefixes the environment variables that override settings.
	EnvPrefix = "CROSSPROBE"
)

// Config holds the settings of a run.
type Config struct {
	// Target is the toolchain to configure.
	Target string `mapstructure:"target"`
	// Probes overrides the probes run for the target, in order.
	Probes []string `mapstructure:"probes"`
	// Timeout bounds every program run by the probes.
	Timeout time.Duration `mapstructure:"timeout"`
	// HonorEnv lets CC, CXX, AR... from the environment replace the lookups.
	HonorEnv bool `mapstructure:"honor_env"`
	// Format of the printed environment.
	Format string `mapstructure:"format"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Targets are additional toolchains, registered next to the built-in ones.
	Targets []gcc.Target `mapstructure:"targets"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Target:   gcc.DefaultTarget,
		Timeout:  toolchain.DefaultTimeout,
		HonorEnv: true,
		Format:   string(toolchain.FormatText),
		LogLevel: "info",
	}
}

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// File forces loading from a specific file when set.
	File string
	// Dir is searched for the configuration file when File is empty.
	// Defaults to the working directory.
	Dir string
	// Flags, if set, override every other source. Flags are matched to
	// settings by name, with dashes instead of underscores.
	Flags *pflag.FlagSet
}

// Load reads the configuration. A missing configuration file is not an
// error unless it was requested explicitly through LoadOptions.File.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("target", defaults.Target)
	v.SetDefault("probes", defaults.Probes)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("honor_env", defaults.HonorEnv)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("config: failed to read configuration: %w", err)
		}
	}

	if opts.Flags != nil {
		for _, key := range []string{"target", "probes", "timeout", "honor_env", "format", "log_level"} {
			if f := opts.Flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("config: failed to bind flag %q: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("config: failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// Validate checks the settings that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("config: no target selected")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if _, err := toolchain.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}

	seen := map[string]bool{}
	for i, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("config: targets[%d]: %w", i, err)
		}
		if seen[t.Name] {
			return fmt.Errorf("config: target %q is defined more than once", t.Name)
		}
		seen[t.Name] = true
	}

	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() toolchain.Format {
	f, err := toolchain.ParseFormat(c.Format)
	if err != nil {
		return toolchain.FormatText
	}
	return f
}

// NewResolver creates a resolver that applies the settings.
func (c *Config) NewResolver(logger *log.Logger) *toolchain.Resolver {
	r := toolchain.NewResolver(logger)
	r.HonorEnv = c.HonorEnv
	r.Timeout = c.Timeout
	return r
}
