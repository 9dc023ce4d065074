package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemSink writes files below a root directory.
type FilesystemSink struct {
	// Root is the output directory. It is created on first write.
	Root string

	// Mode is the file permission mode (default 0644).
	Mode os.FileMode

	// Overwrite replaces existing files. When false, writing over an
	// existing file fails.
	Overwrite bool
}

// NewFilesystemSink returns a sink that overwrites files under root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0644, Overwrite: true}
}

// WriteFile writes content atomically through a temp file and rename.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.Root, filepath.FromSlash(path))
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(dir, ".thriftpyi-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	switch {
	case writeErr != nil:
		cleanup()
		return fmt.Errorf("write temp file: %w", writeErr)
	case closeErr != nil:
		cleanup()
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return fmt.Errorf("set file mode: %w", err)
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, full); err != nil {
			cleanup()
			return fmt.Errorf("rename temp file: %w", err)
		}
		return nil
	}

	// Link fails with EEXIST instead of replacing the target.
	err = os.Link(tmpPath, full)
	cleanup()
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file already exists: %q", path)
		}
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}
