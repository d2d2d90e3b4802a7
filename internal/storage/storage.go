package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no file matches.
var ErrNotFound = errors.New("file not found")

// Store is the directory downloads land in. Files are kept until the janitor
// sweeps them; nothing is removed when a file is served.
type Store struct {
	dir    string
	maxAge time.Duration
	logger *zap.Logger
}

func New(dir string, maxAge time.Duration, logger *zap.Logger) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: abs, maxAge: maxAge, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// NewToken returns a unique marker embedded in output file names.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Template is the extractor output template for token.
func (s *Store) Template(token string) string {
	return filepath.Join(s.dir, "%(id)s_"+token+".%(ext)s")
}

// Find returns the name of the first finished file carrying token.
func (s *Store) Find(token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.Contains(name, token) || isPartial(name) {
			continue
		}
		return name, nil
	}
	return "", ErrNotFound
}

// Open opens a stored file by name. Only the base name is honoured, so
// callers cannot escape the store directory.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == ".." || base != name {
		return nil, nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, base))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, fi, nil
}

// Sweep removes files last modified before now minus maxAge.
func (s *Store) Sweep(now time.Time) (removed int, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(fi.ModTime()) <= s.maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("remove expired file", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := s.Sweep(now)
			if err != nil {
				s.logger.Error("sweep downloads", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("swept downloads", zap.Int("removed", n))
			}
		}
	}
}

func isPartial(name string) bool {
	return strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") || strings.Contains(name, ".part-Frag")
}
