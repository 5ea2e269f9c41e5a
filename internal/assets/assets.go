// Package assets embeds the TCL flow scripts the synthesis backends copy into
// their build directories.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed tcl/*.tcl
var Scripts embed.FS

// Script returns the content of an embedded script by file name.
func Script(name string) ([]byte, error) {
	return fs.ReadFile(Scripts, "tcl/"+name)
}

// Names lists the embedded scripts.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(Scripts, "tcl")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Install writes the named script into dir, overwriting any previous copy.
func Install(dir, name string) (string, error) {
	data, err := Script(name)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded script %s: %w", name, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}
