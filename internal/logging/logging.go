// Package logging builds the zap logger used by the CLI. Logs go to stderr
// so stdout carries only the command output.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	// Verbose switches to a development logger at debug level.
	Verbose bool
	// Level overrides the minimum level (debug, info, warn, error).
	Level string
	// OutputPaths defaults to stderr.
	OutputPaths []string
}

// New creates a logger for cfg.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Verbose {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.Sampling = nil
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	if lvl := strings.TrimSpace(cfg.Level); lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	zc.DisableStacktrace = !cfg.Verbose

	return zc.Build()
}
