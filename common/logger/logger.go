package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a unified logging surface for the advisor engine.
// The package-level functions delegate to a shared zap sugared logger so
// callers never carry a logger handle around.

var (
	mu    sync.RWMutex
	sugar = newDefault(zapcore.InfoLevel)
)

func newDefault(level zapcore.Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// Init replaces the shared logger with one at the given level.
// level is one of debug, info, warn, error.
func Init(level string) {
	var lv zapcore.Level
	if err := lv.Set(level); err != nil {
		lv = zapcore.InfoLevel
	}
	mu.Lock()
	sugar = newDefault(lv)
	mu.Unlock()
}

// UseDevelopment switches to a human-readable development logger.
// Intended for tests and local runs.
func UseDevelopment() {
	l, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }

// Infof logs an info message.
func Infof(format string, args ...interface{}) { current().Infof(format, args...) }

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) { current().Warnf(format, args...) }

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }

// Sync flushes buffered log entries.
func Sync() { _ = current().Sync() }
