// Package sampler implements the adaptive sampling loop: calibration,
// per-axis seeding with adaptive step sizes, and joint random
// combinations across axes.
package sampler

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the tunable parameters of the adaptive sampler and the
// model fitter.
type Config struct {
	// SeedingSteps is the maximum number of seeding measurements taken
	// per parameter axis. Default: 6.
	SeedingSteps int `json:"seeding_steps"`

	// JointCombinations is the number of random cross-axis combinations
	// measured after seeding. Default: 30.
	JointCombinations int `json:"joint_combinations"`

	// MinChange is the minimum instruction-count change between
	// successive seeding samples; smaller projected growth ends the
	// axis. Default: 50.
	MinChange uint64 `json:"min_change"`

	// BeamSize is the beam width of the model fitter. Default: 4.
	BeamSize int `json:"beam_size"`

	// MaxInteractions caps the number of axes a fitted product term may
	// combine. Default: 3.
	MaxInteractions int `json:"max_interactions"`
}

// DefaultConfig returns the sampler configuration used by the runner.
func DefaultConfig() *Config {
	return &Config{
		SeedingSteps:      6,
		JointCombinations: 30,
		MinChange:         50,
		BeamSize:          4,
		MaxInteractions:   3,
	}
}

// LoadConfig loads a Config from a JSON file. Missing fields keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sampler config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sampler config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sampler config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sampler config file: %w", err)
	}

	return nil
}

// Validate checks that all tunables are usable.
func (c *Config) Validate() error {
	if c.SeedingSteps < 1 {
		return fmt.Errorf("seeding_steps must be > 0")
	}
	if c.JointCombinations < 0 {
		return fmt.Errorf("joint_combinations must be >= 0")
	}
	if c.MinChange == 0 {
		return fmt.Errorf("min_change must be > 0")
	}
	if c.BeamSize < 1 {
		return fmt.Errorf("beam_size must be > 0")
	}
	if c.MaxInteractions < 1 {
		return fmt.Errorf("max_interactions must be > 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
