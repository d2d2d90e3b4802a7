package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  zapcore.Level
	}{
		{"production", false, zapcore.InfoLevel},
		{"debug", true, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := New(tt.debug)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !z.Core().Enabled(tt.want) {
				t.Errorf("level %v not enabled", tt.want)
			}
			if z.Core().Enabled(tt.want - 1) {
				t.Errorf("level %v unexpectedly enabled", tt.want-1)
			}
		})
	}
}

func TestLogger_CtxAddsTraceID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.Ctx(context.Background()).Infow("fetched", "formats", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "none" {
		t.Errorf("trace_id = %v, want none", fields["trace_id"])
	}
	if fields["formats"] != int64(3) {
		t.Errorf("formats = %v (%T), want 3", fields["formats"], fields["formats"])
	}
}
