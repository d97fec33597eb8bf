// Package storage writes uploaded files to a local directory tree and maps
// them to the relative URLs stored in the database.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore saves files under a single directory and serves them under a URL
// prefix. Filenames are randomized to avoid collisions; there is no retention
// policy.
type FileStore struct {
	dir       string
	urlPrefix string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir, urlPrefix string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// URLPrefix returns the public URL prefix files are served under.
func (s *FileStore) URLPrefix() string {
	return s.urlPrefix
}

// Save writes the file under a random name keeping the original extension and
// returns the relative URL to store.
func (s *FileStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}

// Remove deletes the file behind a previously returned URL. URLs outside this
// store's prefix are ignored, as are already-missing files.
func (s *FileStore) Remove(url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}

	name := filepath.Base(strings.TrimPrefix(url, s.urlPrefix+"/"))
	if name == "" || name == "." {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
