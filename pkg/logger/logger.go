package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

var global = zap.NewNop().Sugar()

// Run builds the process logger for the given level and makes it the fallback
// returned by Log for contexts that carry no logger.
// If the production logger can't be built, zap's example logger is used.
func Run(level string) *zap.SugaredLogger {
	var lvl zapcore.Level
	badLevel := lvl.UnmarshalText([]byte(level))
	if badLevel != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewExample()
		zl.Sugar().Errorf("logger: can't build production logger, %v", err)
	}

	global = zl.Sugar()
	if badLevel != nil {
		global.Warnf("logger: unknown level `%s`, using info", level)
	}
	return global
}

func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Log returns the logger stored in ctx or the global one.
func Log(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return global
	}
	if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	return global
}
