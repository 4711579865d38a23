// Package logging builds the zap logger. Output goes to a file so structured
// log lines never mix with the interactive console.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(path, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
		DisableStacktrace: true,
	}
	return cfg.Build()
}
