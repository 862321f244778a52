package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Mode selects how a payload is persisted
type Mode int

const (
	// ModeText persists the payload as UTF-8 text
	ModeText Mode = iota
	// ModeBinary persists the exact bytes
	ModeBinary
)

// FileWriter handles writing the mirror to disk
type FileWriter struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// New creates a new FileWriter instance
func New() *FileWriter {
	return &FileWriter{
		dirPerm:  0o755,
		filePerm: 0o644,
	}
}

// MkdirAll creates dir and any missing parents. An existing directory is
// not an error.
func (w *FileWriter) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, w.dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFile writes data to path. Text payloads are forced to valid UTF-8;
// binary payloads are written byte for byte. The file is replaced
// atomically so a rerun never leaves a half-written file behind.
func (w *FileWriter) WriteFile(path string, data []byte, mode Mode) error {
	if mode == ModeText && !utf8.Valid(data) {
		data = []byte(strings.ToValidUTF8(string(data), "�"))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, w.filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
