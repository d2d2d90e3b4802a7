package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	cr "mediafetch/internal/counting_reader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExtractor writes a shell script standing in for the extractor binary.
func fakeExtractor(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExec_Info(t *testing.T) {
	bin := fakeExtractor(t, `echo '{"title":"t","formats":[]}'`)

	b, err := NewExec(bin, zap.NewNop()).Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t","formats":[]}`, string(b))
}

func TestExec_InfoPassesURLLast(t *testing.T) {
	bin := fakeExtractor(t, `for a; do last="$a"; done; printf '{"title":"%s"}' "$last"`)

	b, err := NewExec(bin, zap.NewNop()).Info(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"https://example.com/v"}`, string(b))
}

func TestExec_InfoFailure(t *testing.T) {
	bin := fakeExtractor(t, `echo "ERROR: Video unavailable" >&2; exit 1`)

	_, err := NewExec(bin, zap.NewNop()).Info(context.Background(), "https://example.com/v")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "ERROR: Video unavailable", exitErr.Stderr)
}

func TestExec_Download(t *testing.T) {
	dir := t.TempDir()
	bin := fakeExtractor(t, `echo "[download] Destination: x"; echo "WARNING: slow" >&2; touch "`+filepath.Join(dir, "done.mp4")+`"`)

	err := NewExec(bin, zap.NewNop()).Download(context.Background(), []string{"--", "https://example.com/v"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "done.mp4"))
}

func TestExec_DownloadFailure(t *testing.T) {
	bin := fakeExtractor(t, `exit 2`)

	err := NewExec(bin, zap.NewNop()).Download(context.Background(), nil)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
}

func TestExec_MissingBinary(t *testing.T) {
	_, err := NewExec(filepath.Join(t.TempDir(), "missing"), zap.NewNop()).Info(context.Background(), "u")
	assert.Error(t, err)
}

func TestExec_DeadlineKillsChildren(t *testing.T) {
	// sleep runs as a child of the script and inherits its stdout
	bin := fakeExtractor(t, "sleep 5; echo '{}'\n")

	tests := []struct {
		name string
		run  func(ctx context.Context, e *Exec) error
	}{
		{"info", func(ctx context.Context, e *Exec) error {
			_, err := e.Info(ctx, "https://example.com/v")
			return err
		}},
		{"download", func(ctx context.Context, e *Exec) error {
			return e.Download(ctx, []string{"--", "https://example.com/v"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			start := time.Now()
			err := tt.run(ctx, NewExec(bin, zap.NewNop()))
			elapsed := time.Since(start)

			require.Error(t, err)
			assert.Less(t, elapsed, 4*time.Second, "returned after %v", elapsed)
		})
	}
}

func TestExec_InfoOutputTooLarge(t *testing.T) {
	bin := fakeExtractor(t, `head -c 60000000 /dev/zero`)

	_, err := NewExec(bin, zap.NewNop()).Info(context.Background(), "https://example.com/v")
	assert.True(t, errors.Is(err, cr.ErrSizeLimitReached), "got %v", err)
}
