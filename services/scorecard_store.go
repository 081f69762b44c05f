// services/scorecard_store.go - Scorecard photo storage
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ScorecardStore saves scorecard photos under one directory and hands out
// opaque filenames. The rest of the system only ever stores and passes the
// filename through; nothing interprets the image.
type ScorecardStore struct {
	dir string
}

func NewScorecardStore(dir string) (*ScorecardStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create scorecard directory %s: %w", dir, err)
	}
	return &ScorecardStore{dir: dir}, nil
}

// Save writes the photo bytes under a random filename and returns it.
func (s *ScorecardStore) Save(r io.Reader) (string, error) {
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ".jpg"

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return name, nil
}

// Path resolves a stored filename to its path on disk.
func (s *ScorecardStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Dir returns the storage directory, used to serve photos statically.
func (s *ScorecardStore) Dir() string {
	return s.dir
}

// Clear deletes every stored photo. Called after a season archive.
func (s *ScorecardStore) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
