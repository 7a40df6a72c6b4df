package record

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger installs the logger used for resolution and synthesis tracing.
// Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Logger returns the current package logger
func Logger() *zap.Logger {
	return logger.Load()
}

func debugEnabled() bool {
	return Logger().Core().Enabled(zapcore.DebugLevel)
}
