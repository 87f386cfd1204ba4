package config

import (
	"io"
	"log/slog"
)

type LoggingConfig struct {
	// off disables use-case logging entirely.
	Level  string `mapstructure:"level" validate:"required,oneof=off debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

func (c LoggingConfig) Enabled() bool {
	return c.Level != "off"
}

// NewLogger builds the slog logger for the configured level and format, or
// nil when logging is off.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	if !c.Enabled() || w == nil {
		return nil
	}
	opts := &slog.HandlerOptions{Level: c.level()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c LoggingConfig) level() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
