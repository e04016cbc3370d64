// Package config loads world and simulation settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/caravan-world/internal/engine"
	"github.com/talgya/caravan-world/internal/world"
)

// Load reads a config file. Keys missing from the file keep their defaults.
// An empty path returns the defaults.
func Load(path string) (engine.Config, error) {
	if path == "" {
		return engine.DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the default config and validates the result.
func Parse(data []byte) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return engine.Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}

	switch cfg.World.Algorithm {
	case world.AlgorithmDiamondSquare, world.AlgorithmSimplex:
	default:
		return engine.Config{}, fmt.Errorf("%w: unknown algorithm %q", engine.ErrConfig, cfg.World.Algorithm)
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg engine.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
