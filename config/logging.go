package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// File path (required if output is "file")
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig holds log file rotation configuration.
type RotationConfig struct {
	// Maximum size in megabytes before rotation
	MaxSize int `mapstructure:"max_size" validate:"min=1"`

	// Maximum number of old log files to keep
	MaxBackups int `mapstructure:"max_backups" validate:"min=0"`

	// Maximum age in days before deletion
	MaxAge int `mapstructure:"max_age" validate:"min=0"`

	Compress bool `mapstructure:"compress"`
}

// NewLogger builds the slog logger described by c. The returned closer releases the log file
// and is a no-op for console output.
func NewLogger(c LoggingConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, nil, fmt.Errorf("logging level %q: %w", c.Level, err)
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)

	switch c.Output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	case "file":
		if c.FilePath == "" {
			return nil, nil, fmt.Errorf("logging: file output needs file_path")
		}

		lj := &lumberjack.Logger{
			Filename:   c.FilePath,
			MaxSize:    c.Rotation.MaxSize,
			MaxBackups: c.Rotation.MaxBackups,
			MaxAge:     c.Rotation.MaxAge,
			Compress:   c.Rotation.Compress,
		}
		w, closer = lj, lj
	default:
		return nil, nil, fmt.Errorf("logging: unknown output %q", c.Output)
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if c.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
