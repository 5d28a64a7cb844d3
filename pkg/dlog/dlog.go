// Copyright © 2026 Arka Labs

// Package dlog builds the leveled zap loggers used across hcm.
package dlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LevelInfo is the default production level.
	LevelInfo = "info"

	// LevelDebug enables per-operation storage logging.
	LevelDebug = "debug"

	// LevelNone disables logging entirely.
	LevelNone = "none"
)

// New returns a production zap logger at the given level. LevelNone yields
// a nop logger.
func New(level string) (*zap.Logger, error) {
	if level == "" || level == LevelNone {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// MustNew returns a logger at the given level or panics.
func MustNew(level string) *zap.Logger {
	l, err := New(level)
	if err != nil {
		panic(err)
	}
	return l
}
