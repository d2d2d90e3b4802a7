package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	cr "mediafetch/internal/counting_reader"
	"mediafetch/internal/telemetry"

	"go.uber.org/zap"
)

// MaxInfoBytes caps metadata output. Playlists with many entries can get
// large but never this large.
const MaxInfoBytes = 50 << 20

// WaitDelay bounds how long a killed extractor's output pipes may stay open.
var WaitDelay = 2 * time.Second

// Runner executes the external extractor.
type Runner interface {
	// Info returns the raw JSON metadata for url.
	Info(ctx context.Context, url string) ([]byte, error)
	// Download runs the extractor with args and waits for it to exit.
	Download(ctx context.Context, args []string) error
}

// ExitError is a failed extractor run with whatever it wrote to stderr.
type ExitError struct {
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exec runs the extractor as a subprocess.
type Exec struct {
	Executable     string
	FFmpegLocation string
	ExtraArgs      []string

	logger *zap.Logger
}

func NewExec(executable string, logger *zap.Logger) *Exec {
	if executable == "" {
		executable = "yt-dlp"
	}
	return &Exec{Executable: executable, logger: logger}
}

func (e *Exec) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, e.Executable, args...)
	if e.FFmpegLocation != "" {
		// post-processors look ffmpeg up on PATH as well
		cmd.Env = append(os.Environ(), "PATH="+e.FFmpegLocation+string(filepath.ListSeparator)+os.Getenv("PATH"))
	}
	killProcessGroup(cmd)
	// a surviving grandchild holding stdout must not outlive the deadline
	cmd.WaitDelay = WaitDelay
	return cmd
}

func (e *Exec) Info(ctx context.Context, url string) ([]byte, error) {
	args := []string{"-J", "--no-warnings", "--no-playlist"}
	args = append(args, e.ExtraArgs...)
	args = append(args, "--", url)

	cmd := e.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	out := cr.NewCountingWriter(&stdout, &cr.CountingOpts{ByteLimit: MaxInfoBytes})
	cmd.Stdout = out
	cmd.Stderr = &stderr

	e.logger.Debug("yt-dlp info", zap.Strings("args", cmd.Args), zap.String("trace_id", telemetry.TraceID(ctx)))
	err := cmd.Run()
	if out.Exceeded() {
		return nil, cr.ErrSizeLimitReached
	}
	if err != nil {
		return nil, &ExitError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	e.logger.Debug("yt-dlp info done", zap.Int64("bytes", out.Count()), zap.String("trace_id", telemetry.TraceID(ctx)))
	return stdout.Bytes(), nil
}

func (e *Exec) Download(ctx context.Context, args []string) error {
	cmd := e.command(ctx, args...)

	// stdout and stderr share one pipe; exec copies into it and Run returns
	// once the copy ends or WaitDelay expires
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	traceID := telemetry.TraceID(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		streamLogs(pr, traceID, e.logger)
	}()

	e.logger.Info("yt-dlp download", zap.Strings("args", cmd.Args), zap.String("trace_id", traceID))
	err := cmd.Run()
	pw.Close()
	<-done

	if err != nil {
		return &ExitError{Err: err}
	}
	return nil
}
