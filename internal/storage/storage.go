// Package storage archives a copy of every slip image the bot processes, so
// disputed or misread transactions can be re-checked against the original.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Archive struct {
	baseDir string
}

func NewArchive(baseDir string) (*Archive, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archive{baseDir: baseDir}, nil
}

// Save writes image bytes under a fresh uuid filename and returns the name.
func (a *Archive) Save(data []byte, ext string) (string, error) {
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.New().String() + ext
	fullPath := filepath.Join(a.baseDir, filename)

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("write slip image: %w", err)
	}
	return filename, nil
}

func (a *Archive) Path(filename string) string {
	return filepath.Join(a.baseDir, filename)
}

func (a *Archive) Delete(filename string) error {
	return os.Remove(filepath.Join(a.baseDir, filename))
}
