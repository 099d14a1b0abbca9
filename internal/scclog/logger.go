// Package scclog provides the compiler driver's structured logging, used
// for -v/--verbose phase tracing. It is modeled directly on the teacher
// example's cmd/hiveexplorer/logger package: a package-level *slog.Logger
// that defaults to discarding everything, swapped for a real handler by
// Init.
package scclog

import (
	"io"
	"log/slog"
	"os"
)

// L is the global logger instance. It discards all output until Init is
// called with Enabled: true.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures logger initialization.
type Options struct {
	Enabled bool       // if false, all logging is discarded
	Level   slog.Level // minimum level; LevelInfo when enabled and unset
	Writer  io.Writer  // destination; os.Stderr when enabled and unset
}

// Init configures logging. Call once from main() before the compiler
// driver runs.
func Init(opts Options) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}
	L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
