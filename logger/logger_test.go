package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	Info("session mounted", FieldKV("showcase", "testimonials"), FieldKV("total", 5))
	Error("store read failed", errors.New("boom"), FieldKV("showcase", "videos"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "session mounted", entries[0].Message)
	assert.Equal(t, "testimonials", entries[0].ContextMap()["showcase"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestDebugFilteredByLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	defer Set(zap.NewNop())

	Debug("tick", FieldKV("index", 1))
	assert.Zero(t, logs.Len())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud"))
	require.NoError(t, Init("debug"))
	Set(zap.NewNop())
}
