// Package logging builds the process logger. Everything goes to
// stderr: stdout is reserved for command output and wire protocols
// such as the git credential helper.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup creates and configures a zap logger for the CLI. Without
// verbose only warnings and errors are emitted; verbose switches to
// debug-level development output.
func Setup(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to create logger (verbose: %t): %w", verbose, err)
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything, for components whose
// logger has not been wired up.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
