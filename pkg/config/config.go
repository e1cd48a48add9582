// Package config provides configuration loading and management for lesionprep.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"lesionprep/pkg/preprocess"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Preprocessing parameters, fixed per run
	Preprocess struct {
		// TargetHeight and TargetWidth are the resolution every sample is
		// resampled to before tensorization
		TargetHeight int `yaml:"targetHeight"`
		TargetWidth  int `yaml:"targetWidth"`

		// ClipMin and ClipMax bound the z-scored intensities
		ClipMin float64 `yaml:"clipMin"`
		ClipMax float64 `yaml:"clipMax"`

		// OutputMin and OutputMax are the final intensity range
		OutputMin float64 `yaml:"outputMin"`
		OutputMax float64 `yaml:"outputMax"`
	} `yaml:"preprocess"`

	// Dataset parameters
	Dataset struct {
		// RootDir is the directory holding lesion images and their
		// _superpixels.png masks
		RootDir string `yaml:"rootDir"`
	} `yaml:"dataset"`

	// Processing parameters
	Processing struct {
		// NumWorkers specifies how many goroutines preprocess samples in parallel
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// PreviewDir, when non-empty, receives PNG renderings of the
		// preprocessed samples
		PreviewDir string `yaml:"previewDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	defaults := preprocess.DefaultParams()
	cfg.Preprocess.TargetHeight = defaults.TargetHeight
	cfg.Preprocess.TargetWidth = defaults.TargetWidth
	cfg.Preprocess.ClipMin = defaults.ClipMin
	cfg.Preprocess.ClipMax = defaults.ClipMax
	cfg.Preprocess.OutputMin = defaults.OutputMin
	cfg.Preprocess.OutputMax = defaults.OutputMax

	cfg.Processing.NumWorkers = runtime.NumCPU()

	cfg.Output.PreviewDir = ""
	cfg.Output.Verbose = true

	return cfg
}

// Params converts the preprocessing section into pipeline parameters.
func (c *Config) Params() preprocess.Params {
	return preprocess.Params{
		TargetHeight: c.Preprocess.TargetHeight,
		TargetWidth:  c.Preprocess.TargetWidth,
		ClipMin:      c.Preprocess.ClipMin,
		ClipMax:      c.Preprocess.ClipMax,
		OutputMin:    c.Preprocess.OutputMin,
		OutputMax:    c.Preprocess.OutputMax,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
