// Package logger builds the zap loggers used across stockroom.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new structured logger. "production" yields JSON at info
// level; anything else yields a colored development logger. Logs go to
// stderr so command output on stdout stays clean.
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// Quiet returns a logger that only reports warnings and above, for
// commands whose output is read by people.
func Quiet(env string) (*zap.Logger, error) {
	l, err := New(env)
	if err != nil {
		return nil, err
	}
	return l.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel)), nil
}
