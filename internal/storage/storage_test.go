package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "downloads"), time.Hour, zap.NewNop())
	require.NoError(t, err)
	return s
}

func write(t *testing.T, s *Store, name, body string) string {
	t.Helper()
	path := filepath.Join(s.Dir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestStore_TemplateAndFind(t *testing.T) {
	s := newStore(t)
	token := NewToken()
	assert.Len(t, token, 32)
	assert.Equal(t, filepath.Join(s.Dir(), "%(id)s_"+token+".%(ext)s"), s.Template(token))

	_, err := s.Find(token)
	assert.True(t, errors.Is(err, ErrNotFound))

	write(t, s, "abc_"+token+".mp4.part", "partial")
	write(t, s, "abc_other.mp4", "unrelated")
	_, err = s.Find(token)
	assert.True(t, errors.Is(err, ErrNotFound))

	write(t, s, "abc_"+token+".mp4", "video")
	name, err := s.Find(token)
	require.NoError(t, err)
	assert.Equal(t, "abc_"+token+".mp4", name)

	_, err = s.Find("")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Open(t *testing.T) {
	s := newStore(t)
	write(t, s, "clip.mp3", "id3")
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(s.Dir()), "secret.txt"), []byte("x"), 0o644))

	f, fi, err := s.Open("clip.mp3")
	require.NoError(t, err)
	defer f.Close()
	b, _ := io.ReadAll(f)
	assert.Equal(t, "id3", string(b))
	assert.Equal(t, int64(3), fi.Size())

	for _, name := range []string{"", ".", "..", "../secret.txt", "sub", "sub/clip.mp3", "/etc/passwd", "missing.mp4"} {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Open(name)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
		})
	}
}

func TestStore_Sweep(t *testing.T) {
	s := newStore(t)
	old := write(t, s, "old.mp4", "old")
	fresh := write(t, s, "fresh.mp4", "fresh")

	now := time.Now()
	require.NoError(t, os.Chtimes(old, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))

	n, err := s.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestStore_RunJanitorStops(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunJanitor(ctx, time.Millisecond) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
