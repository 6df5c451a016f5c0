// Package snapshot keeps brotli-compressed copies of pages that could not be parsed
package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Store writes snapshots under Dir
type Store struct {
	Dir string
	Now func() time.Time
}

func New(dir string) *Store {
	return &Store{Dir: dir, Now: time.Now}
}

// Save writes html to <dir>/<name>-<timestamp>.html.br and returns the path
func (s *Store) Save(name, html string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	safe := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if safe == "" {
		safe = "page"
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.html.br", safe, now().Format("20060102-150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	w := brotli.NewWriterLevel(f, brotli.DefaultCompression)
	if _, err := io.WriteString(w, html); err != nil {
		w.Close()
		f.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads back a snapshot written by Save
func Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(brotli.NewReader(f))
	if err != nil {
		return "", fmt.Errorf("decompress %s: %w", path, err)
	}
	return string(data), nil
}
