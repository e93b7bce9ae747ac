// Package logging builds the zap logger used by the CLI and the sync engine.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// JSON selects the json encoder; otherwise console with colored levels.
	JSON bool
	// File, when set, receives the log instead of stderr.
	File string
}

// New creates a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config

	if opts.Verbose {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Sampling = nil
	}

	if opts.JSON {
		config.Encoding = "json"
		config.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	} else {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if opts.File != "" {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	config.DisableStacktrace = true
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.File != "" {
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	} else {
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
