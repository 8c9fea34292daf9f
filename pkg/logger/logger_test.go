package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRunLevels(t *testing.T) {
	prev := global
	t.Cleanup(func() { global = prev })

	l := Run("debug")
	assert.True(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, l, Log(context.Background()))

	l = Run("loud")
	assert.NotNil(t, l)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestLogFromContext(t *testing.T) {
	own := zap.NewNop().Sugar()
	ctx := WithLogger(context.Background(), own)
	assert.Same(t, own, Log(ctx))
	assert.Same(t, global, Log(context.Background()))
}
