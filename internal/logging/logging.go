// Package logging builds the zap loggers shared by the commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log level and encoding.
type Options struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Output string `toml:"output"` // file path; empty means stderr
}

// Defaults returns info-level console logging.
func Defaults() Options {
	return Options{Level: "info", Format: "console"}
}

// Validate rejects unknown formats and levels.
func (o Options) Validate() error {
	if o.Format != "" && o.Format != "console" && o.Format != "json" {
		return fmt.Errorf("log format %q: want console or json", o.Format)
	}
	if o.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(o.Level)); err != nil {
			return fmt.Errorf("log level %q: %w", o.Level, err)
		}
	}
	return nil
}

// New builds a logger. Unparseable levels fall back to info.
func New(o Options) (*zap.Logger, error) {
	return config(o).Build()
}

func config(o Options) zap.Config {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(o.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if o.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncoderConfig.ConsoleSeparator = "  "
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if o.Output != "" {
		cfg.OutputPaths = []string{o.Output}
		cfg.ErrorOutputPaths = []string{o.Output}
	}
	return cfg
}
