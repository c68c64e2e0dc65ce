// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// Log is the process logger. It is a no-op until Initialize is called.
var Log *zap.Logger = zap.NewNop()

// Initialize replaces Log with a logger at the given level. Development
// mode uses the console encoder, otherwise JSON for CloudWatch.
func Initialize(level string, development bool) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl
	return nil
}
