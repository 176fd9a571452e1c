// Package config loads the insight configuration.
//
// Values are layered, highest priority first: command-line flags that were
// explicitly set, INSIGHT_ environment variables, the YAML config file and
// the built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/vegasq/insight/query"
)

// Default values.
const (
	DefaultConfigFile      = "insight.yaml"
	DefaultDataDir         = "./data"
	DefaultListenAddr      = ":4321"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMaxBodyBytes    = 64 << 20
	DefaultShutdownTimeout = 10 * time.Second

	envPrefix = "INSIGHT_"
)

// Config holds the settings shared by every command.
type Config struct {
	DataDir         string        `koanf:"data_dir"`
	ListenAddr      string        `koanf:"listen_addr"`
	ResultLimit     int           `koanf:"result_limit"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	Watch           bool          `koanf:"watch"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		DataDir:         DefaultDataDir,
		ListenAddr:      DefaultListenAddr,
		ResultLimit:     query.DefaultResultLimit,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func defaults() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"data_dir":         d.DataDir,
		"listen_addr":      d.ListenAddr,
		"result_limit":     d.ResultLimit,
		"log_level":        d.LogLevel,
		"log_format":       d.LogFormat,
		"watch":            d.Watch,
		"max_body_bytes":   d.MaxBodyBytes,
		"shutdown_timeout": d.ShutdownTimeout.String(),
	}
}

// findConfigFile returns the explicit path, or insight.yaml when it exists
// in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// Load builds the configuration. cfgFile may be empty; flags may be nil.
// Flag names are mapped to keys by replacing '-' with '_'.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: INSIGHT_RESULT_LIMIT -> result_limit
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those set on the command line
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("result_limit must be positive, got %d", c.ResultLimit)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q (want debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}
	return nil
}
