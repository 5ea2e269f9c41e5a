package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the build directory a backend writes artifacts into and runs
// its tool in. It is shared by consecutive combinations of one sweep and is
// owned exclusively by one combination for the duration of its
// prepare/invoke/parse cycle; a concurrent sweep needs one per combination.
type Workspace struct {
	Dir string
}

// OpenWorkspace creates dir if needed and returns a handle to it.
func OpenWorkspace(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", abs, err)
	}
	return &Workspace{Dir: abs}, nil
}

// Path returns the absolute path of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// WriteFile replaces name with content.
func (w *Workspace) WriteFile(name, content string) error {
	if err := os.WriteFile(w.Path(name), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Remove deletes name if it exists.
func (w *Workspace) Remove(name string) error {
	err := os.Remove(w.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
