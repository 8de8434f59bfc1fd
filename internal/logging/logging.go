// SPDX-License-Identifier: Apache-2.0

// Package logging builds the structured logger every long-running command
// (search, the distributed coordinator) writes progress and warnings
// through, the same zap.NewProductionConfig-plus-verbosity-flag idiom the
// examples' CLI tooling sets up at startup.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-configured zap.Logger, switched to debug level
// when verbose is set. Callers are expected to defer logger.Sync() once.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Noop returns a logger that discards everything, for tests and library
// callers that never want search progress on stderr.
func Noop() *zap.Logger {
	return zap.NewNop()
}

// WarnFunc adapts a zap.Logger into the plain func(string) callback shape
// internal/search and internal/editops already use for non-fatal, continue-
// anyway conditions (empty brute-force candidate sets, dropped wire
// tokens), so those packages never need to import zap directly.
func WarnFunc(logger *zap.Logger) func(string) {
	return func(msg string) { logger.Warn(msg) }
}
