package ytdlp

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var regexAnyType = regexp.MustCompile(`^\[[^\]]+\]`)

type LogEntry struct {
	Level     string // info, debug, warn, error
	EventType string
	Message   string
	Raw       string
}

func streamLogs(r io.Reader, traceID string, logger *zap.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry := parseLogLine(line)
		fields := []zap.Field{
			zap.String("event_type", entry.EventType),
			zap.String("message", entry.Message),
			zap.String("trace_id", traceID),
		}
		switch entry.Level {
		case "debug":
			logger.Debug("yt-dlp", fields...)
		case "error":
			logger.Error("yt-dlp", fields...)
		case "warn":
			logger.Warn("yt-dlp", fields...)
		default:
			logger.Info("yt-dlp", fields...)
		}
	}
	// keep draining after an oversized line so the process never blocks
	_, _ = io.Copy(io.Discard, r)
}

// parseLogLine classifies one line of extractor output.
func parseLogLine(line string) LogEntry {
	entry := LogEntry{
		Level:   "info",
		Message: line,
		Raw:     line,
	}

	switch {
	case strings.HasPrefix(line, "[debug]"):
		entry.Level = "debug"
		entry.Message = strings.TrimPrefix(line, "[debug] ")
	case strings.HasPrefix(line, "ERROR:"):
		entry.Level = "error"
		entry.Message = strings.TrimPrefix(line, "ERROR: ")
	case strings.HasPrefix(line, "WARNING:"):
		entry.Level = "warn"
		entry.Message = strings.TrimPrefix(line, "WARNING: ")
	default:
		entry.EventType = strings.Trim(regexAnyType.FindString(line), "[]")
		entry.Message = regexAnyType.ReplaceAllString(line, "")
		// progress lines arrive several times a second
		if entry.EventType == "download" {
			entry.Level = "debug"
		}
	}

	entry.Message = strings.TrimSpace(entry.Message)

	return entry
}
