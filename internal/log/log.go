package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package log is a thin facade over zap so callers can write
// log.Info("msg", "key", value) without carrying a logger around.

var (
	mu     sync.Mutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger = newLogger()
)

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Build cannot realistically fail with the config above; fall
		// back to a no-op logger rather than panic during init.
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLevel changes the minimum enabled level. Accepted values:
// "debug", "info", "warn", "error" (case-insensitive). Unknown values
// leave the level unchanged.
func SetLevel(s string) {
	mu.Lock()
	defer mu.Unlock()
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return
	}
	level.SetLevel(l)
}

func Debug(msg string, kv ...any) {
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	logger.Infow(msg, kv...)
}

func Warn(msg string, kv ...any) {
	logger.Warnw(msg, kv...)
}

// Error logs msg with the error prepended to the key-value list.
func Error(msg string, err error, kv ...any) {
	logger.Errorw(msg, append([]any{"err", err}, kv...)...)
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = logger.Sync()
}
