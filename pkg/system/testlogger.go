package system

import "go.uber.org/zap"

// NewTestLogger returns a sugared development logger for tests.
// Stacktraces are disabled so failure output stays readable.
func NewTestLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return zap.Must(cfg.Build()).Sugar()
}
