package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statekit.yaml"

	// DefaultDevtoolAddr is the default inspector listen address.
	DefaultDevtoolAddr = "localhost:6360"
)

// Config is the statekit CLI configuration, loaded from statekit.yaml.
type Config struct {
	// Bench configures the dispatch benchmark.
	Bench BenchConfig `yaml:"bench"`

	// Devtool configures the inspector server.
	Devtool DevtoolConfig `yaml:"devtool"`
}

// BenchConfig configures the dispatch benchmark.
type BenchConfig struct {
	// Slices is the number of state slices to register.
	Slices int `yaml:"slices"`

	// Listeners is the number of subscribed listeners.
	Listeners int `yaml:"listeners"`

	// Dispatches is the total number of dispatches to run.
	Dispatches int `yaml:"dispatches"`
}

// DevtoolConfig configures the inspector server.
type DevtoolConfig struct {
	// Addr is the inspector listen address.
	Addr string `yaml:"addr"`

	// History is how many dispatch events to replay to new clients.
	History int `yaml:"history"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bench: BenchConfig{
			Slices:     4,
			Listeners:  16,
			Dispatches: 100000,
		},
		Devtool: DevtoolConfig{
			Addr:    DefaultDevtoolAddr,
			History: 100,
		},
	}
}

// Load reads configuration from the given path, layered over defaults.
// An empty path means ConfigFileName in the working directory; a missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
