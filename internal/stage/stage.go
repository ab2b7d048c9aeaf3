// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage mirrors the notebooks directory into the docs source tree.
// See docs/ARCHITECTURE § Staging.
package stage

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdiddy/docpages/pkg/types"
)

// Result holds the outcome of a staging run.
type Result struct {
	Copied   int
	Excluded int
}

// Mirror replaces stagingDir with a fresh copy of the notebooks directory,
// skipping any directory whose name appears in cfg.Exclude (checkpoint
// artifacts). Per-file status lines are printed to w. The previous staging
// contents are always removed first; a partially staged tree is never
// merged with an old one.
func Mirror(cfg types.StagingConfig, w io.Writer) (Result, error) {
	var result Result

	src, err := os.Stat(cfg.NotebooksDir)
	if err != nil {
		return result, fmt.Errorf("notebooks directory %s: %w", cfg.NotebooksDir, err)
	}
	if !src.IsDir() {
		return result, fmt.Errorf("notebooks path %s is not a directory", cfg.NotebooksDir)
	}

	if err := os.RemoveAll(cfg.StagingDir); err != nil {
		return result, fmt.Errorf("removing staging directory %s: %w", cfg.StagingDir, err)
	}
	if err := os.MkdirAll(cfg.StagingDir, 0o755); err != nil {
		return result, fmt.Errorf("creating staging directory %s: %w", cfg.StagingDir, err)
	}

	excluded := make(map[string]bool, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		excluded[name] = true
	}

	err = filepath.WalkDir(cfg.NotebooksDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(cfg.NotebooksDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if excluded[d.Name()] {
				result.Excluded++
				fmt.Fprintf(w, "excluded: %s%c\n", rel, filepath.Separator)
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(cfg.StagingDir, rel), 0o755)
		}

		if err := copyFile(path, filepath.Join(cfg.StagingDir, rel)); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
		result.Copied++
		fmt.Fprintf(w, "staged: %s\n", rel)
		return nil
	})
	if err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nStaging summary: %d files staged, %d directories excluded\n",
		result.Copied, result.Excluded)
	return result, nil
}

// copyFile copies src to dst through a temp file and rename, preserving the
// source mode. A crash mid-copy never leaves a truncated file in the tree.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".docpages-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, dst)
}
