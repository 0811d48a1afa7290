package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field struct {
	Key   string
	Value interface{}
}

var (
	mu   sync.RWMutex
	base = newProduction(zapcore.InfoLevel)
)

func newProduction(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Init configures the process logger. level is one of debug, info, warn, error.
func Init(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	Set(newProduction(lvl))
	return nil
}

// Set replaces the underlying logger, mainly for tests.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Sync() { _ = get().Sync() }

func toZap(fields []Field, err error) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	if err != nil {
		out = append(out, zap.Error(err))
	}
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func Info(msg string, fields ...Field) {
	get().Info(msg, toZap(fields, nil)...)
}

func Error(msg string, err error, fields ...Field) {
	get().Error(msg, toZap(fields, err)...)
}

func Debug(msg string, fields ...Field) {
	get().Debug(msg, toZap(fields, nil)...)
}

func FieldKV(key string, value interface{}) Field { return Field{Key: key, Value: value} }
