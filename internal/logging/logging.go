// SPDX-License-Identifier: MPL-2.0

// Package logging installs the process-wide slog handler.
//
// Library packages log through log/slog only; the CLI calls Setup once so
// those records are rendered by charmbracelet/log.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/ontoreg/ontoreg/internal/config"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "ontoreg"

// Options configures Setup.
type Options struct {
	// Level is the configured minimum level.
	Level config.LogLevel
	// Verbose forces debug level regardless of Level.
	Verbose bool
	// JSON switches to one JSON object per line.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a charm logger for opts without installing it.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix: Prefix,
		Level:  Level(opts.Level, opts.Verbose),
	})
	if opts.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Setup installs a charm logger as the slog default handler and returns the
// slog.Logger wrapping it.
func Setup(opts Options) *slog.Logger {
	l := slog.New(New(opts))
	slog.SetDefault(l)
	return l
}

// Level maps a config level to a charm level. Unknown levels map to info.
func Level(level config.LogLevel, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	switch level {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelWarn:
		return log.WarnLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
