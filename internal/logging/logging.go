package logging

import (
	"context"

	"mediafetch/internal/telemetry"

	"go.uber.org/zap"
)

// New builds the JSON production logger used by every binary.
func New(debug bool) (*zap.Logger, error) {
	zapCFG := zap.NewProductionConfig()
	zapCFG.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		zapCFG.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapCFG.DisableCaller = true
	zapCFG.Encoding = "json"
	return zapCFG.Build()
}

type Logger struct {
	zap.SugaredLogger
}

func NewLogger(z *zap.Logger) *Logger {
	return &Logger{SugaredLogger: *z.Sugar()}
}

// Ctx returns a logger tagged with the trace id carried by ctx.
func (l *Logger) Ctx(ctx context.Context) *Logger {
	return &Logger{SugaredLogger: *l.SugaredLogger.With("trace_id", telemetry.TraceID(ctx))}
}
