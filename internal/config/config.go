package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/calclab/internal/calculus"
)

const (
	DefaultExpression = "x^2"
	DefaultOrder      = 2
	DefaultHigherStep = 1e-2
	DefaultBudget     = 2 * time.Second
	DefaultPort       = 8080
	DefaultTheme      = "default"
	DefaultLogLevel   = "info"
	MaxSamples        = 10000
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Expression string            `yaml:"expression"`
	Viewport   calculus.Viewport `yaml:"viewport"`
	Samples    int               `yaml:"samples"`
	Step       float64           `yaml:"step"`
	HigherStep float64           `yaml:"higher_step"`
	Order      int               `yaml:"order"`
	Point      float64           `yaml:"point"`
	Bounds     BoundsConfig      `yaml:"bounds"`
	RiemannN   int               `yaml:"riemann_n"`
	Budget     time.Duration     `yaml:"budget"`
	Theme      string            `yaml:"theme"`
	Server     ServerConfig      `yaml:"server"`
	Log        LogConfig         `yaml:"log"`
}

type BoundsConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
	Debug        bool     `yaml:"debug"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	JSON       bool   `yaml:"json"`
	IncludeSrc bool   `yaml:"include_src"`
	ToFile     bool   `yaml:"to_file"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Expression: DefaultExpression,
		Viewport:   calculus.DefaultViewport(),
		Samples:    calculus.DefaultSamples,
		Step:       calculus.DefaultStep,
		HigherStep: DefaultHigherStep,
		Order:      DefaultOrder,
		Point:      1,
		Bounds:     BoundsConfig{A: 0, B: 2},
		RiemannN:   calculus.DefaultRiemannN,
		Budget:     DefaultBudget,
		Theme:      DefaultTheme,
		Server: ServerConfig{
			Port:         DefaultPort,
			AllowOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			Filename:   "logs/calclab.log",
			MaxSize:    10,
			MaxAge:     30,
			MaxBackups: 5,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the YAML file at path over cfg. Keys missing from the
// file keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the calculus engine would turn into empty or
// NaN results for every expression.
func (c *Config) Validate() error {
	vp := c.Viewport
	switch {
	case !finite(vp.XMin) || !finite(vp.XMax) || vp.XMin >= vp.XMax:
		return fmt.Errorf("%w: viewport x range [%g, %g]", ErrInvalidConfig, vp.XMin, vp.XMax)
	case !finite(vp.YMin) || !finite(vp.YMax) || vp.YMin >= vp.YMax:
		return fmt.Errorf("%w: viewport y range [%g, %g]", ErrInvalidConfig, vp.YMin, vp.YMax)
	case c.Samples < 2 || c.Samples > MaxSamples:
		return fmt.Errorf("%w: samples %d not in [2, %d]", ErrInvalidConfig, c.Samples, MaxSamples)
	case c.Step == 0 || !finite(c.Step):
		return fmt.Errorf("%w: step %g", ErrInvalidConfig, c.Step)
	case c.HigherStep == 0 || !finite(c.HigherStep):
		return fmt.Errorf("%w: higher_step %g", ErrInvalidConfig, c.HigherStep)
	case c.Order < 1 || c.Order > calculus.MaxOrder:
		return fmt.Errorf("%w: order %d not in [1, %d]", ErrInvalidConfig, c.Order, calculus.MaxOrder)
	case !finite(c.Point):
		return fmt.Errorf("%w: point %g", ErrInvalidConfig, c.Point)
	case !finite(c.Bounds.A) || !finite(c.Bounds.B):
		return fmt.Errorf("%w: bounds [%g, %g]", ErrInvalidConfig, c.Bounds.A, c.Bounds.B)
	case c.RiemannN < 1 || c.RiemannN > calculus.MaxRiemannN:
		return fmt.Errorf("%w: riemann_n %d", ErrInvalidConfig, c.RiemannN)
	case c.Budget <= 0:
		return fmt.Errorf("%w: budget %s", ErrInvalidConfig, c.Budget)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// Domain is the sampled x range of the viewport.
func (c *Config) Domain() calculus.Domain {
	return c.Viewport.Domain(c.Samples)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
