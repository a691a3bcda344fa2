package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/user/bspgo/pkg/bsp"
)

// Config is the optional YAML file passed with --config. Flags given on the
// command line override its values.
type Config struct {
	// ChunkSize is the byte width of one hex line in chunk diffs.
	ChunkSize int `yaml:"chunk_size"`

	// Detail turns on detailed diffs for differing lumps.
	Detail bool `yaml:"detail"`

	// Format is text, json or cbor.
	Format string `yaml:"format"`

	// Pairing maps left lump indices to right lump indices. When empty,
	// lumps pair by index for same-branch files and by name otherwise.
	Pairing map[int]int `yaml:"pairing"`

	// Partitions maps a partition name ("env") to its left and right file
	// paths. An empty path means the file is absent on that side.
	Partitions map[string][]string `yaml:"partitions"`
}

var validFormats = map[string]bool{"text": true, "json": true, "cbor": true}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks field ranges. Zero values mean "use the default".
func (c *Config) Validate() error {
	var errs []error
	if c.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.Format != "" && !validFormats[c.Format] {
		errs = append(errs, fmt.Errorf("format must be text, json or cbor, got %q", c.Format))
	}
	for l, r := range c.Pairing {
		if l < 0 || l >= bsp.LumpCount || r < 0 || r >= bsp.LumpCount {
			errs = append(errs, fmt.Errorf("pairing %d: %d is outside 0..%d", l, r, bsp.LumpCount-1))
		}
	}
	for name, paths := range c.Partitions {
		if len(paths) != 2 {
			errs = append(errs, fmt.Errorf("partition %s needs [left, right] paths, got %d", name, len(paths)))
		}
	}
	return errors.Join(errs...)
}

// partitionOptions reads the partition files for one side (0 left, 1 right).
func (c *Config) partitionOptions(side int) ([]bsp.Option, error) {
	names := make([]string, 0, len(c.Partitions))
	for name := range c.Partitions {
		names = append(names, name)
	}
	sort.Strings(names)

	var opts []bsp.Option
	for _, name := range names {
		path := c.Partitions[name][side]
		if path == "" {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s partition: %w", name, err)
		}
		opts = append(opts, bsp.WithPartition(name, raw))
	}
	return opts, nil
}
