// SPDX-License-Identifier: GPL-3.0

// Package telemetry provides the logging and metrics plumbing shared by
// both simulators: a structured, tick-tagged logger, and a prometheus
// registry for per-tick gauges and the calendar occupancy histogram.
package telemetry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rdmasim/dcqcnsim/internal/units"
)

// Logger wraps a zap.SugaredLogger with a (tick, component) tagging
// convention, so call sites read like a simple logf(now, id, format, a...)
// helper while still emitting structured fields.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger returns a Logger at the given zap level name ("debug", "info",
// "warn", "error"). An unrecognized level falls back to "info".
func NewLogger(level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level.SetLevel(zap.InfoLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Tickf logs a message tagged with the current simulation tick and a
// named component.
func (l *Logger) Tickf(now units.Clock, component, format string, a ...any) {
	l.sugar.Infow(fmt.Sprintf(format, a...), "tick", uint64(now), "component", component)
}

// Warnf logs a warning for a non-fatal anomaly.
func (l *Logger) Warnf(now units.Clock, component, format string, a ...any) {
	l.sugar.Warnw(fmt.Sprintf(format, a...), "tick", uint64(now), "component", component)
}

// Fatalf logs at error level and returns a formatted error; callers turn
// this into the process's single-line diagnostic and non-zero exit (§7).
func (l *Logger) Fatalf(format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	l.sugar.Error(err.Error())
	return err
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
