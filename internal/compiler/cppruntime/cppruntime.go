// Package cppruntime carries the C++ support sources that every generated
// translation unit includes: the DynamicType value class and the builtin
// function library. The sources are embedded at build time so the compiler
// binary can drop them next to its output without any install footprint.
package cppruntime

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed assets/*.hpp assets/*.cpp
var assets embed.FS

// Files lists the support source names in stable order.
func Files() []string {
	entries, err := fs.ReadDir(assets, "assets")
	if err != nil {
		// The embedded tree is fixed at build time; this cannot fail.
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Source returns the contents of one embedded support file.
func Source(name string) ([]byte, error) {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		return nil, fmt.Errorf("no embedded runtime source %q", name)
	}
	return data, nil
}

// WriteSupport writes every runtime source into dir, creating the
// directory if needed. Existing files are overwritten so repeated
// builds always ship the runtime matching the compiler.
func WriteSupport(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating runtime output dir: %w", err)
	}
	for _, name := range Files() {
		data, err := Source(name)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("writing runtime source: %w", err)
		}
	}
	return nil
}
