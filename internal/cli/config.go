package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/orizon-lang/bfc/internal/errors"
)

// Config holds compiler settings. It is only read from a file when one is
// named explicitly; flags override file values.
type Config struct {
	StrictBrackets bool   `toml:"strict_brackets"`
	FoldConstants  bool   `toml:"fold_constants"`
	EliminateLoads bool   `toml:"eliminate_loads"`
	TapeSize       int    `toml:"tape_size"`
	MaxDepth       int    `toml:"max_depth"`
	OutDir         string `toml:"out_dir"`
	LogVerbosity   int    `toml:"log_verbosity"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		StrictBrackets: true,
		FoldConstants:  true,
		EliminateLoads: true,
		TapeSize:       30000,
		MaxDepth:       4096,
	}
}

// LoadConfig loads configuration from file. An empty path yields defaults;
// a named file that does not exist is an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), configPath)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.TapeSize <= 0 {
		return errors.InvalidSetting("tape_size", c.TapeSize)
	}
	if c.MaxDepth <= 0 {
		return errors.InvalidSetting("max_depth", c.MaxDepth)
	}
	if c.LogVerbosity < VerbosityQuiet || c.LogVerbosity > VerbosityDebug {
		return errors.InvalidSetting("log_verbosity", c.LogVerbosity)
	}
	return nil
}
