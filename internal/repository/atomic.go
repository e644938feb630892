package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriter writes a single file using a temp-file-then-rename pattern.
// Readers see either the previous content or the new content, never a partial write.
type AtomicWriter struct {
	path      string
	file      *os.File
	committed bool
}

// NewAtomicWriter creates the temp file next to path. The parent directory is
// created if needed.
func NewAtomicWriter(path string) (*AtomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create parent directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	return &AtomicWriter{path: path, file: file}, nil
}

// Write appends to the temp file.
func (w *AtomicWriter) Write(p []byte) (int, error) {
	if w.committed {
		return 0, fmt.Errorf("write already committed")
	}
	return w.file.Write(p)
}

// Commit flushes the temp file and renames it over the target path.
func (w *AtomicWriter) Commit() error {
	if w.committed {
		return fmt.Errorf("write already committed")
	}

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := w.file.Chmod(0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(w.file.Name(), w.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	w.committed = true
	return nil
}

// Rollback removes the temp file, leaving the target untouched.
// It is a no-op after a successful commit.
func (w *AtomicWriter) Rollback() error {
	if w.committed {
		return nil
	}

	_ = w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// TempPath returns the path of the temp file.
func (w *AtomicWriter) TempPath() string {
	return w.file.Name()
}

// WriteFileAtomic writes data to path via an AtomicWriter.
func WriteFileAtomic(path string, data []byte) error {
	w, err := NewAtomicWriter(path)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		if rbErr := w.Rollback(); rbErr != nil {
			return fmt.Errorf("write file: %w (rollback failed: %v)", err, rbErr)
		}
		return fmt.Errorf("write file: %w", err)
	}

	if err := w.Commit(); err != nil {
		if rbErr := w.Rollback(); rbErr != nil {
			return fmt.Errorf("commit file: %w (rollback failed: %v)", err, rbErr)
		}
		return fmt.Errorf("commit file: %w", err)
	}

	return nil
}
