// Package klog adapts log/slog to the Logger interface kflash and
// installer expect (Debug/Info/Error with variadic key-value pairs),
// the way hivekit's cmd/hiveexplorer/logger wraps slog behind a package
// of its own.
package klog

import (
	"io"
	"log/slog"
	"os"
)

// L is the package-level logger, initialized to discard output. Call
// Init before any kflash/installer call that takes a logger if output is
// wanted.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures Init.
type Options struct {
	// Enabled turns on logging to os.Stderr. If false, all output is
	// discarded.
	Enabled bool
	// Verbose lowers the minimum level to Debug. Default is Info.
	Verbose bool
	// JSON selects slog.NewJSONHandler instead of the default text
	// handler, for machine-readable output (--json callers that also
	// want structured logs on stderr).
	JSON bool
}

// Init configures the package-level logger. Call from cmd/kfctl's root
// command before any subcommand runs.
func Init(opts Options) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
		return
	}
	L = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}

// Adapter implements kflash.Logger and installer.Logger by forwarding to
// a *slog.Logger. Both interfaces take ...interface{}; slog.Logger's
// methods take ...any, which is the same type, so the forwarding calls
// need no conversion.
type Adapter struct {
	Logger *slog.Logger
}

// New returns an Adapter wrapping the package-level logger L. Safe to
// call again after Init changes L's configuration.
func New() Adapter { return Adapter{Logger: L} }

func (a Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.Logger.Debug(msg, keysAndValues...)
}

func (a Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.Logger.Info(msg, keysAndValues...)
}

func (a Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.Logger.Error(msg, keysAndValues...)
}
