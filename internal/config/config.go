// Package config handles brainx.toml settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "brainx.toml"

// DefaultRenderWidth is the layout width used when none is configured.
const DefaultRenderWidth = 16

// Config represents a brainx.toml file.
type Config struct {
	Machine Machine `toml:"machine"`
	Walker  Walker  `toml:"walker"`
	Render  Render  `toml:"render"`
	Log     Log     `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Machine configures the tape machine.
type Machine struct {
	// Memory seeds the tape; empty means a single zero cell.
	Memory   string `toml:"memory"`
	Pointer  int    `toml:"pointer"`
	MaxSteps int    `toml:"max_steps"`
}

// Walker configures the raster walker.
type Walker struct {
	MaxSteps int `toml:"max_steps"`
}

// Render configures program-to-image rendering.
type Render struct {
	Width int `toml:"width"`
}

// Log configures logging.
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	c.Path = path
	c.applyDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir looking for brainx.toml and loads the
// first one found. It returns the defaults if there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Render.Width == 0 {
		c.Render.Width = DefaultRenderWidth
	}
}

func (c *Config) validate() error {
	switch {
	case c.Machine.Pointer < 0:
		return fmt.Errorf("machine.pointer must not be negative, got %d", c.Machine.Pointer)
	case c.Machine.MaxSteps < 0:
		return fmt.Errorf("machine.max_steps must not be negative, got %d", c.Machine.MaxSteps)
	case c.Walker.MaxSteps < 0:
		return fmt.Errorf("walker.max_steps must not be negative, got %d", c.Walker.MaxSteps)
	case c.Render.Width < 0:
		return fmt.Errorf("render.width must not be negative, got %d", c.Render.Width)
	}
	return nil
}
