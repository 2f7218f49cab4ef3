// Package logging builds the zap logger used by the CLI.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogLevel overrides the log level (debug, info, warn, error)
const EnvLogLevel = "ACC_LOG_LEVEL"

// Name is the logger name prefixed to every entry
const Name = "lint-fix"

// Level returns the level to log at. verbose forces debug; otherwise envLevel
// is parsed, defaulting to info when empty.
func Level(verbose bool, envLevel string) (zapcore.Level, error) {
	if verbose {
		return zapcore.DebugLevel, nil
	}
	if strings.TrimSpace(envLevel) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.TrimSpace(envLevel))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}
	return level, nil
}

// Config returns a console logger configuration writing to stderr
func Config(level zapcore.Level) zap.Config {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Development = false
	config.DisableStacktrace = true
	config.DisableCaller = level > zapcore.DebugLevel
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	return config
}

// New builds the named CLI logger
func New(verbose bool) (*zap.Logger, error) {
	level, err := Level(verbose, os.Getenv(EnvLogLevel))
	if err != nil {
		return nil, err
	}
	logger, err := Config(level).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named(Name), nil
}
