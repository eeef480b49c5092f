// Package fs provides file-based storage for export artifacts.
package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/postvault"
)

// Ensure FileStore implements postvault.ExportStore at compile time.
var _ postvault.ExportStore = (*FileStore)(nil)

// FileStore implements postvault.ExportStore with atomic update semantics.
// Files are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

// NewFileStoreAt creates a FileStore whose final directory is dir.
func NewFileStoreAt(dir string) *FileStore {
	dir = filepath.Clean(dir)
	return NewFileStore(filepath.Dir(dir), filepath.Base(dir))
}

// Dir returns the final output directory.
func (s *FileStore) Dir() string {
	return s.finalDir()
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes data to the slash-separated relative path name inside the
// temporary directory.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := cleanName(name)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

func cleanName(name string) (string, error) {
	if name == "" {
		return "", postvault.Errorf(postvault.EINVALID, "file name required")
	}
	if path.IsAbs(name) || filepath.IsAbs(name) {
		return "", postvault.Errorf(postvault.EINVALID, "path traversal: %q is absolute", name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", postvault.Errorf(postvault.EINVALID, "path traversal: %q escapes the export directory", name)
	}
	return clean, nil
}
