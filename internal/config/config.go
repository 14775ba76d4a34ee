// Package config loads tinylox's runtime tuning knobs from an optional
// TOML file, the way stackedboxes/romualdo's VM config layer does: a
// struct of defaults, overridden field-by-field by whatever a file on
// disk supplies, never required to exist at all.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config holds knobs that affect how a run is compiled and executed.
// None of these change language semantics — they only affect the initial
// capacity of growable buffers and whether tracing is on by default.
type Config struct {
	// Trace enables the instruction-level execution tracer even when
	// --trace wasn't passed on the command line.
	Trace bool `toml:"trace"`

	// InitialStackCapacity seeds the VM's value stack, avoiding the first
	// few grow-doubling steps for programs known to need deep stacks.
	InitialStackCapacity int `toml:"initial_stack_capacity"`

	// InitialTableCapacity seeds the globals and string-intern tables.
	InitialTableCapacity int `toml:"initial_table_capacity"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		Trace:                false,
		InitialStackCapacity: 8,
		InitialTableCapacity: 8,
	}
}

// Load reads and parses the TOML file at path, overlaying it onto
// Default(). A path of "" returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}
