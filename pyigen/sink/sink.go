// Package sink provides destinations for generated stub files.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// OutputSink receives generated file content.
// Implementations must be safe for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to a relative, slash-separated path.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// ValidatePath checks that p is a clean relative path that stays inside the
// sink root.
func ValidatePath(p string) error {
	if p == "" {
		return errors.New("path is empty")
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return errors.New("absolute or non-slash paths not allowed")
	}
	if len(p) >= 2 && p[1] == ':' {
		return errors.New("absolute or non-slash paths not allowed")
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	if cleaned := path.Clean(p); cleaned != p {
		return fmt.Errorf("path is not clean (expected %q, got %q)", cleaned, p)
	}
	return nil
}
