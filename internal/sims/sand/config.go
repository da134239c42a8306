package sand

import "strconv"

// Config controls the sand world dimensions, initial scene and the growth
// parameters handed to new bushes.
type Config struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Seed   int64  `toml:"seed"`
	Scene  string `toml:"scene"`

	Bush BushParams `toml:"bush"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  160,
		Height: 120,
		Seed:   1337,
		Scene:  "default",
		Bush:   DefaultBushParams(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["scene"]; ok && v != "" {
		c.Scene = v
	}
	if v, ok := cfg["root_size_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Bush.RootSizeMin = parsed
		}
	}
	if v, ok := cfg["root_size_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Bush.RootSizeMax = parsed
		}
	}
	if c.Bush.RootSizeMax < c.Bush.RootSizeMin {
		c.Bush.RootSizeMax = c.Bush.RootSizeMin
	}
	if v, ok := cfg["stop_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Bush.StopChance = parsed
		}
	}
	if v, ok := cfg["growth_delay"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Bush.GrowthDelay = parsed
		}
	}
	if v, ok := cfg["max_buds"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Bush.MaxBuds = parsed
		}
	}
	return c
}
