// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean removes generator output and generated source artifacts.
// See docs/ARCHITECTURE § Cleaning.
package clean

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/docpages/pkg/types"
)

// Result holds the outcome of a clean run.
type Result struct {
	// BuildEntries is the number of entries removed from the build directory.
	BuildEntries int

	// GeneratedDirs is the number of generated-artifact directories removed.
	GeneratedDirs int
}

// Clean empties the build directory (keeping the directory itself, so a
// following build needs no setup) and removes each configured generated
// directory under the source tree. Targets that do not exist are skipped
// silently; the generator recreates everything on the next run.
func Clean(buildCfg types.BuildConfig, cleanCfg types.CleanConfig, w io.Writer) (Result, error) {
	var result Result

	entries, err := os.ReadDir(buildCfg.BuildDir)
	if err != nil && !os.IsNotExist(err) {
		return result, fmt.Errorf("reading build directory %s: %w", buildCfg.BuildDir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(buildCfg.BuildDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return result, fmt.Errorf("removing %s: %w", path, err)
		}
		result.BuildEntries++
		fmt.Fprintf(w, "removed: %s\n", path)
	}

	for _, name := range cleanCfg.GeneratedDirs {
		path := filepath.Join(buildCfg.SourceDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return result, fmt.Errorf("removing %s: %w", path, err)
		}
		result.GeneratedDirs++
		fmt.Fprintf(w, "removed: %s\n", path)
	}

	fmt.Fprintf(w, "\nClean summary: %d build entries, %d generated directories removed\n",
		result.BuildEntries, result.GeneratedDirs)
	return result, nil
}
