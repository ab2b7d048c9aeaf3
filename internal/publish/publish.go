// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish mirrors the built HTML tree into the public directory.
// One-way replication with delete: after a sync the public directory holds
// exactly the build output plus the preserved marker file.
// See docs/ARCHITECTURE § Publishing.
package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/docpages/pkg/types"
)

// FileOp is a single planned file operation.
type FileOp struct {
	// Rel is the path relative to both the build output and the public dir.
	Rel string

	// SourcePath is the absolute source file (empty for deletes).
	SourcePath string

	// DestPath is the absolute destination file.
	DestPath string
}

// Plan is the computed difference between the build output and the public
// directory.
type Plan struct {
	Add    []FileOp
	Update []FileOp
	Delete []FileOp
}

// Empty reports whether applying the plan would change nothing.
func (p *Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// BuildPlan walks the built HTML directory and the public directory and
// computes the operations that make the public directory an exact mirror.
// The marker file is never scheduled for deletion. Files present in both
// trees are compared by content hash; byte-identical files produce no
// operation.
func BuildPlan(htmlDir string, cfg types.PublishConfig) (*Plan, error) {
	if _, err := os.Stat(htmlDir); err != nil {
		return nil, fmt.Errorf("build output %s: %w (run a build first)", htmlDir, err)
	}

	desired, err := relFiles(htmlDir)
	if err != nil {
		return nil, fmt.Errorf("scanning build output: %w", err)
	}

	existing, err := relFiles(cfg.PublicDir)
	if err != nil {
		if os.IsNotExist(err) {
			existing = map[string]bool{}
		} else {
			return nil, fmt.Errorf("scanning public directory: %w", err)
		}
	}

	plan := &Plan{}

	for rel := range desired {
		op := FileOp{
			Rel:        rel,
			SourcePath: filepath.Join(htmlDir, rel),
			DestPath:   filepath.Join(cfg.PublicDir, rel),
		}

		if !existing[rel] {
			plan.Add = append(plan.Add, op)
			continue
		}

		same, err := sameContent(op.SourcePath, op.DestPath)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", rel, err)
		}
		if !same {
			plan.Update = append(plan.Update, op)
		}
	}

	for rel := range existing {
		if desired[rel] || rel == cfg.Marker {
			continue
		}
		plan.Delete = append(plan.Delete, FileOp{
			Rel:      rel,
			DestPath: filepath.Join(cfg.PublicDir, rel),
		})
	}

	sortOps(plan.Add)
	sortOps(plan.Update)
	sortOps(plan.Delete)
	return plan, nil
}

// Apply executes the plan, then prunes directories the deletes left empty
// and ensures the marker file exists. Status lines go to w.
func Apply(plan *Plan, cfg types.PublishConfig, w io.Writer) error {
	if err := os.MkdirAll(cfg.PublicDir, 0o755); err != nil {
		return fmt.Errorf("creating public directory %s: %w", cfg.PublicDir, err)
	}

	for _, op := range plan.Add {
		if err := copyFile(op.SourcePath, op.DestPath); err != nil {
			return fmt.Errorf("adding %s: %w", op.Rel, err)
		}
		fmt.Fprintf(w, "added: %s\n", op.Rel)
	}

	for _, op := range plan.Update {
		if err := copyFile(op.SourcePath, op.DestPath); err != nil {
			return fmt.Errorf("updating %s: %w", op.Rel, err)
		}
		fmt.Fprintf(w, "updated: %s\n", op.Rel)
	}

	for _, op := range plan.Delete {
		if err := os.Remove(op.DestPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting %s: %w", op.Rel, err)
		}
		fmt.Fprintf(w, "deleted: %s\n", op.Rel)
	}

	if err := pruneEmptyDirs(cfg.PublicDir); err != nil {
		return fmt.Errorf("pruning empty directories: %w", err)
	}

	if err := EnsureMarker(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSync summary: %d added, %d updated, %d deleted\n",
		len(plan.Add), len(plan.Update), len(plan.Delete))
	return nil
}

// Mirror is BuildPlan followed by Apply.
func Mirror(htmlDir string, cfg types.PublishConfig, w io.Writer) (*Plan, error) {
	plan, err := BuildPlan(htmlDir, cfg)
	if err != nil {
		return nil, err
	}
	if err := Apply(plan, cfg, w); err != nil {
		return plan, err
	}
	return plan, nil
}

// EnsureMarker creates the marker file in the public directory if it is
// missing. GitHub Pages serves _-prefixed Sphinx asset directories only
// when the marker is present.
func EnsureMarker(cfg types.PublishConfig) error {
	if cfg.Marker == "" {
		return nil
	}
	path := filepath.Join(cfg.PublicDir, cfg.Marker)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(cfg.PublicDir, 0o755); err != nil {
		return fmt.Errorf("creating public directory %s: %w", cfg.PublicDir, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("creating marker %s: %w", path, err)
	}
	return nil
}

// relFiles returns the set of file paths under root, relative to root.
func relFiles(root string) (map[string]bool, error) {
	files := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[rel] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// sameContent reports whether two files hash identically.
func sameContent(a, b string) (bool, error) {
	ha, err := fileHash(a)
	if err != nil {
		return false, err
	}
	hb, err := fileHash(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

// fileHash computes the SHA256 hash of a file.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst through a temp file and rename.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

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

// pruneEmptyDirs removes directories under root left empty by deletes.
// Deepest directories are removed first; root itself is kept.
func pruneEmptyDirs(root string) error {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := os.Remove(dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortOps orders operations by relative path for stable output.
func sortOps(ops []FileOp) {
	sort.Slice(ops, func(i, j int) bool { return ops[i].Rel < ops[j].Rel })
}
