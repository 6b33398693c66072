package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration structure.
type Config struct {
	Targets TargetsConfig `yaml:"targets"`
	Enum    EnumConfig    `yaml:"enum"`
	Output  OutputConfig  `yaml:"output"`
}

// TargetsConfig defines included and excluded CIDR sources.
type TargetsConfig struct {
	Include []string `yaml:"include"` // CIDR or single IP
	Exclude []string `yaml:"exclude"` // CIDR or single IP
}

// EnumConfig holds settings for the enumeration itself.
type EnumConfig struct {
	Order string `yaml:"order"` // "interleave" (default), "shuffle", "linear"
	Seed  int64  `yaml:"seed"`  // deterministic ordering; 0 = unseeded
}

// OutputConfig controls where and how addresses are written.
type OutputConfig struct {
	File   string `yaml:"file"`   // output file; "-" or empty = stdout
	Format string `yaml:"format"` // "text" (default) or "jsonl"
	Quiet  bool   `yaml:"quiet"`  // no progress output
	NoTUI  bool   `yaml:"no_tui"` // plain-text progress instead of the TUI
}

// Valid enumeration orders.
const (
	OrderInterleave = "interleave"
	OrderShuffle    = "shuffle"
	OrderLinear     = "linear"
)

// Validate checks enum values that YAML cannot express as types.
func (c *Config) Validate() error {
	switch c.Enum.Order {
	case "", OrderInterleave, OrderShuffle, OrderLinear:
	default:
		return fmt.Errorf("invalid order %q (want interleave, shuffle, or linear)", c.Enum.Order)
	}
	switch c.Output.Format {
	case "", "text", "jsonl":
	default:
		return fmt.Errorf("invalid output format %q (want text or jsonl)", c.Output.Format)
	}
	return nil
}

// LoadConfig reads a YAML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
