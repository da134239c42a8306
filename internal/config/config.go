// Package config loads the application settings from a TOML file and the
// command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"sandgarden/internal/logging"
	"sandgarden/internal/scene"
	"sandgarden/internal/sims/sand"
)

// Config is the full application configuration.
type Config struct {
	App     AppConfig       `toml:"app"`
	Logging logging.Options `toml:"logging"`
	Brush   BrushConfig     `toml:"brush"`
	World   sand.Config     `toml:"world"`
}

// AppConfig controls the window and pacing.
type AppConfig struct {
	Scale int `toml:"scale"`
	TPS   int `toml:"tps"`
}

// BrushConfig controls the painting brush of the frontends.
type BrushConfig struct {
	Radius       int           `toml:"radius"`
	Min          int           `toml:"min"`
	Max          int           `toml:"max"`
	SeedCooldown time.Duration `toml:"seed_cooldown"`
}

// Clamp limits r to the configured brush range.
func (b BrushConfig) Clamp(r int) int {
	return max(b.Min, min(r, b.Max))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Scale: 5,
			TPS:   60,
		},
		Logging: logging.Defaults(),
		Brush: BrushConfig{
			Radius:       3,
			Min:          1,
			Max:          10,
			SeedCooldown: 500 * time.Millisecond,
		},
		World: sand.DefaultConfig(),
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var sceneUsage = "scene: builtin " + strings.Join(scene.BuiltinNames(), ", ") + " or a YAML file"

// Bind attaches the command-line overrides to fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.App.Scale, "scale", c.App.Scale, "pixel scale multiplier")
	fs.IntVar(&c.App.TPS, "tps", c.App.TPS, "ticks per second")
	fs.IntVar(&c.World.Width, "w", c.World.Width, "grid width in cells")
	fs.IntVar(&c.World.Height, "h", c.World.Height, "grid height in cells")
	fs.Int64Var(&c.World.Seed, "seed", c.World.Seed, "seed for simulation reset")
	fs.StringVar(&c.World.Scene, "scene", c.World.Scene, sceneUsage)
	fs.IntVar(&c.Brush.Radius, "brush", c.Brush.Radius, "initial brush radius")
	fs.StringVar(&c.Logging.Level, "log-level", c.Logging.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Logging.Format, "log-format", c.Logging.Format, "log format (console or json)")
	fs.StringVar(&c.Logging.Output, "log-file", c.Logging.Output, "write logs to this file instead of stderr")
}

// Parse builds the configuration for a command: defaults, then the TOML
// file named by -config, then the remaining flags.
func Parse(name string, args []string) (*Config, error) {
	cfg := Default()
	fs := newFlagSet(name, cfg)
	path := fs.Lookup("config")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if file := path.Value.String(); file != "" {
		loaded, err := Load(file)
		if err != nil {
			return nil, err
		}
		if err := newFlagSet(name, loaded).Parse(args); err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(name string, cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", "", "TOML configuration file")
	cfg.Bind(fs)
	return fs
}

// Validate checks the values a frontend depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Scale < 1 {
		errs = append(errs, fmt.Errorf("app.scale must be at least 1, got %d", c.App.Scale))
	}
	if c.App.TPS < 1 {
		errs = append(errs, fmt.Errorf("app.tps must be at least 1, got %d", c.App.TPS))
	}
	if c.World.Width < 1 || c.World.Height < 1 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height))
	}
	b := c.Brush
	if b.Min < 0 || b.Max < b.Min {
		errs = append(errs, fmt.Errorf("brush range [%d,%d] is invalid", b.Min, b.Max))
	} else if b.Radius < b.Min || b.Radius > b.Max {
		errs = append(errs, fmt.Errorf("brush radius %d outside [%d,%d]", b.Radius, b.Min, b.Max))
	}
	if b.SeedCooldown < 0 {
		errs = append(errs, errors.New("brush.seed_cooldown must not be negative"))
	}
	if p := c.World.Bush; p.RootSizeMin < 1 || p.RootSizeMax < p.RootSizeMin {
		errs = append(errs, fmt.Errorf("world.bush root size range [%d,%d] is invalid", p.RootSizeMin, p.RootSizeMax))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
