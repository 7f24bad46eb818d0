package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
	"gopkg.in/yaml.v3"
)

const (
	DefaultG           = world.DefaultG
	DefaultDt          = world.DefaultDT
	DefaultSteps       = 600
	DefaultSampleEvery = 1
	DefaultCollision   = "strict"
	DefaultPath        = "sparse"
)

// ErrDuplicateBody is returned when two bodies share a name. Saved runs
// and exports key their columns by body name.
var ErrDuplicateBody = errors.New("config: duplicate body name")

// Config describes a scenario: world constants, run length and the
// initial bodies.
type Config struct {
	Name        string       `yaml:"name"`
	G           float64      `yaml:"g"`
	Dt          float64      `yaml:"dt"`
	Steps       int          `yaml:"steps"`
	SampleEvery int          `yaml:"sample_every"`
	Collision   string       `yaml:"collision"`
	Path        string       `yaml:"path"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Name   string     `yaml:"name"`
	Mass   float64    `yaml:"mass"`
	Radius float64    `yaml:"radius"`
	Color  string     `yaml:"color"`
	Pos    [2]float64 `yaml:"pos,flow"`
	Vel    [2]float64 `yaml:"vel,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "custom",
		G:           DefaultG,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Collision:   DefaultCollision,
		Path:        DefaultPath,
	}
}

// Load reads a YAML scenario. Keys missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked without changing the
// shared table.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = make([]BodyConfig, len(c.Bodies))
	copy(cp.Bodies, c.Bodies)
	return &cp
}

func (c *Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.SampleEvery < 1 {
		return fmt.Errorf("sample_every must be at least 1, got %d", c.SampleEvery)
	}
	if _, err := c.WorldConfig(); err != nil {
		return err
	}
	_, err := c.NewBodies()
	return err
}

// WorldConfig converts the scenario constants and policy names.
func (c *Config) WorldConfig() (world.Config, error) {
	collision, err := world.ParseCollisionPolicy(c.Collision)
	if err != nil {
		return world.Config{}, err
	}
	path, err := physics.ParsePathPolicy(c.Path)
	if err != nil {
		return world.Config{}, fmt.Errorf("%w: %v", world.ErrInvalidConfig, err)
	}
	wc := world.Config{G: c.G, DT: c.Dt, Collision: collision, Path: path}
	if err := wc.Validate(); err != nil {
		return world.Config{}, err
	}
	return wc, nil
}

// NewBodies builds fresh, initialised bodies in file order. Every call
// returns new values, which is what a reset needs.
func (c *Config) NewBodies() ([]*physics.Body, error) {
	bodies := make([]*physics.Body, 0, len(c.Bodies))
	seen := make(map[string]bool, len(c.Bodies))
	for i, bc := range c.Bodies {
		name := bc.Name
		if name == "" {
			name = fmt.Sprintf("body%d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBody, name)
		}
		seen[name] = true
		b, err := physics.NewBody(name, bc.Mass, bc.Radius, bc.Color)
		if err != nil {
			return nil, err
		}
		b.Init(vector.New(bc.Pos[0], bc.Pos[1]), vector.New(bc.Vel[0], bc.Vel[1]))
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// NewWorld builds a World for the scenario.
func (c *Config) NewWorld() (*world.World, error) {
	wc, err := c.WorldConfig()
	if err != nil {
		return nil, err
	}
	bodies, err := c.NewBodies()
	if err != nil {
		return nil, err
	}
	return world.New(wc, bodies...)
}
