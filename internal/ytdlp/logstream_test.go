package ytdlp

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLine(t *testing.T) {
	tests := []struct {
		line      string
		level     string
		eventType string
		message   string
	}{
		{"[youtube] dQw4w9WgXcQ: Downloading webpage", "info", "youtube", "dQw4w9WgXcQ: Downloading webpage"},
		{"[download]  42.0% of 3.00MiB at 1.00MiB/s ETA 00:01", "debug", "download", "42.0% of 3.00MiB at 1.00MiB/s ETA 00:01"},
		{"[debug] Command-line config: []", "debug", "", "Command-line config: []"},
		{"ERROR: [youtube] x: Video unavailable", "error", "", "[youtube] x: Video unavailable"},
		{"WARNING: falling back to generic", "warn", "", "falling back to generic"},
		{"Deleting original file a.webm", "info", "", "Deleting original file a.webm"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := parseLogLine(tt.line)
			if got.Level != tt.level {
				t.Errorf("Level = %q, want %q", got.Level, tt.level)
			}
			if got.EventType != tt.eventType {
				t.Errorf("EventType = %q, want %q", got.EventType, tt.eventType)
			}
			if got.Message != tt.message {
				t.Errorf("Message = %q, want %q", got.Message, tt.message)
			}
			if got.Raw != tt.line {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.line)
			}
		})
	}
}

func TestStreamLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	input := strings.Join([]string{
		"[youtube] abc: Downloading webpage",
		"",
		"ERROR: unable to download",
		strings.Repeat("x", 70*1024),
		"[info] never parsed",
	}, "\n")

	streamLogs(strings.NewReader(input), "trace-1", zap.New(core))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("second entry level = %v, want error", entries[1].Level)
	}
	if entries[0].ContextMap()["trace_id"] != "trace-1" {
		t.Errorf("trace_id = %v", entries[0].ContextMap()["trace_id"])
	}
}
