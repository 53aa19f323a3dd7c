package minecode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config drives a Compiler run. It is usually read from minecode.yaml.
type Config struct {
	Path        string
	Debug       bool
	Trace       bool
	Color       bool
	Breakpoints []int
	Limits      Limits
}

func DefaultConfig() *Config {
	return &Config{
		Color:  true,
		Limits: DefaultLimits(),
	}
}

type configDisk struct {
	Debug       bool       `yaml:"debug"`
	Trace       bool       `yaml:"trace"`
	Color       *bool      `yaml:"color"`
	Breakpoints []int      `yaml:"breakpoints"`
	Limits      limitsDisk `yaml:"limits"`
}

type limitsDisk struct {
	MaxLoopIterations int `yaml:"max_loop_iterations"`
	MaxCallDepth      int `yaml:"max_call_depth"`
}

// LoadConfig reads a YAML config file. Missing fields keep their defaults;
// unknown fields are an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw configDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	// An empty document keeps every default
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}

	cfg := raw.toConfig()
	cfg.Path = abs
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}

	return cfg, nil
}

// Validate rejects limits and breakpoints that can never be meaningful.
func (c *Config) Validate() error {
	if c.Limits.MaxLoopIterations < 0 {
		return fmt.Errorf("max_loop_iterations must not be negative, got %d", c.Limits.MaxLoopIterations)
	}
	if c.Limits.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", c.Limits.MaxCallDepth)
	}
	for _, line := range c.Breakpoints {
		if line < 1 {
			return fmt.Errorf("breakpoint lines start at 1, got %d", line)
		}
	}

	return nil
}

func (d configDisk) toConfig() *Config {
	cfg := DefaultConfig()
	cfg.Debug = d.Debug
	cfg.Trace = d.Trace
	if d.Color != nil {
		cfg.Color = *d.Color
	}
	if d.Limits.MaxLoopIterations != 0 {
		cfg.Limits.MaxLoopIterations = d.Limits.MaxLoopIterations
	}
	if d.Limits.MaxCallDepth != 0 {
		cfg.Limits.MaxCallDepth = d.Limits.MaxCallDepth
	}

	cfg.Breakpoints = append([]int(nil), d.Breakpoints...)
	sort.Ints(cfg.Breakpoints)

	return cfg
}
