// Package config holds the simulator configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// pageSize is the granularity of the memory size.
const pageSize = 4096

// Config holds the parameters of a simulated RV32I system.
type Config struct {
	// MemorySize is the capacity of main memory in bytes, starting at
	// address 0. Must be a multiple of 4 KiB. Default: 64 KiB.
	MemorySize uint64 `yaml:"memory_size" json:"memory_size"`

	// MMIOBase is the first address of the device window.
	// Default: 0x10000000.
	MMIOBase uint32 `yaml:"mmio_base" json:"mmio_base"`

	// MMIOSize is the size of the device window in bytes. Zero disables it.
	// Default: 256.
	MMIOSize uint32 `yaml:"mmio_size" json:"mmio_size"`

	// ResetPC is the PC loaded on reset when the program has no entry point.
	// Default: 0.
	ResetPC uint32 `yaml:"reset_pc" json:"reset_pc"`

	// MaxInstructions stops the run after this many instructions.
	// Default: 0 (no limit).
	MaxInstructions uint64 `yaml:"max_instructions" json:"max_instructions"`

	// TrapOnInvalid stops the run on an invalid instruction instead of
	// retiring it as a no-op. Default: false.
	TrapOnInvalid bool `yaml:"trap_on_invalid" json:"trap_on_invalid"`

	// FrequencyMHz is the core clock when driven by the event engine.
	// Default: 1000.
	FrequencyMHz uint64 `yaml:"frequency_mhz" json:"frequency_mhz"`

	// LogLevel is one of trace, debug, info, warn or error. Default: info.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		MemorySize:      64 * 1024,
		MMIOBase:        0x10000000,
		MMIOSize:        0x100,
		ResetPC:         0,
		MaxInstructions: 0,
		TrapOnInvalid:   false,
		FrequencyMHz:    1000,
		LogLevel:        "info",
	}
}

// LoadConfig loads a Config from a YAML or JSON file. Fields missing from
// the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a file. A .json extension selects JSON;
// anything else is written as YAML.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a usable system.
func (c *Config) Validate() error {
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MemorySize%pageSize != 0 {
		return fmt.Errorf("memory_size must be a multiple of %d", pageSize)
	}
	if c.MemorySize > 1<<32 {
		return fmt.Errorf("memory_size must not exceed the 32-bit address space")
	}
	if c.MMIOSize%4 != 0 {
		return fmt.Errorf("mmio_size must be a multiple of 4")
	}
	if c.MMIOSize > 0 {
		if uint64(c.MMIOBase) < c.MemorySize {
			return fmt.Errorf("mmio window at 0x%08X overlaps memory", c.MMIOBase)
		}
		if uint64(c.MMIOBase)+uint64(c.MMIOSize) > 1<<32 {
			return fmt.Errorf("mmio window runs past the 32-bit address space")
		}
	}
	if c.ResetPC%4 != 0 {
		return fmt.Errorf("reset_pc must be word aligned")
	}
	if uint64(c.ResetPC) >= c.MemorySize {
		return fmt.Errorf("reset_pc must be inside memory")
	}
	if c.FrequencyMHz == 0 {
		return fmt.Errorf("frequency_mhz must be > 0")
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
