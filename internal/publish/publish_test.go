// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/docpages/pkg/types"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// listFiles returns the sorted relative paths of all files under root.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func testCfg(publicDir string) types.PublishConfig {
	return types.PublishConfig{PublicDir: publicDir, Marker: ".nojekyll"}
}

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name       string
		html       map[string]string
		public     map[string]string
		wantAdd    []string
		wantUpdate []string
		wantDelete []string
	}{
		{
			name:    "fresh publish adds everything",
			html:    map[string]string{"index.html": "<html>", "_static/style.css": "body{}"},
			wantAdd: []string{"_static/style.css", "index.html"},
		},
		{
			name:   "identical trees produce an empty plan",
			html:   map[string]string{"index.html": "<html>"},
			public: map[string]string{"index.html": "<html>"},
		},
		{
			name:       "changed content is an update",
			html:       map[string]string{"index.html": "<html>v2"},
			public:     map[string]string{"index.html": "<html>v1"},
			wantUpdate: []string{"index.html"},
		},
		{
			name:       "stale files are deleted",
			html:       map[string]string{"index.html": "<html>"},
			public:     map[string]string{"index.html": "<html>", "removed.html": "old"},
			wantDelete: []string{"removed.html"},
		},
		{
			name:   "marker file is never deleted",
			html:   map[string]string{"index.html": "<html>"},
			public: map[string]string{"index.html": "<html>", ".nojekyll": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			htmlDir := filepath.Join(tmp, "_build", "html")
			publicDir := filepath.Join(tmp, "docs")
			writeTree(t, htmlDir, tt.html)
			if tt.public != nil {
				writeTree(t, publicDir, tt.public)
			}

			plan, err := BuildPlan(htmlDir, testCfg(publicDir))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			checkOps := func(got []FileOp, want []string, kind string) {
				if len(got) != len(want) {
					t.Fatalf("%s = %d ops, want %d", kind, len(got), len(want))
				}
				for i, op := range got {
					if op.Rel != filepath.FromSlash(want[i]) {
						t.Errorf("%s[%d] = %q, want %q", kind, i, op.Rel, want[i])
					}
				}
			}
			checkOps(plan.Add, tt.wantAdd, "add")
			checkOps(plan.Update, tt.wantUpdate, "update")
			checkOps(plan.Delete, tt.wantDelete, "delete")
		})
	}
}

func TestBuildPlan_MissingBuildOutput(t *testing.T) {
	tmp := t.TempDir()
	_, err := BuildPlan(filepath.Join(tmp, "_build", "html"), testCfg(filepath.Join(tmp, "docs")))
	if err == nil {
		t.Fatal("expected error for missing build output")
	}
	if !strings.Contains(err.Error(), "run a build first") {
		t.Errorf("error should point at the missing build, got: %v", err)
	}
}

func TestMirror_PublicMatchesBuildOutput(t *testing.T) {
	tmp := t.TempDir()
	htmlDir := filepath.Join(tmp, "_build", "html")
	publicDir := filepath.Join(tmp, "docs")

	writeTree(t, htmlDir, map[string]string{
		"index.html":        "<html>new",
		"api/module.html":   "<html>api",
		"_static/style.css": "body{}",
		"_images/plot.png":  "png-bytes",
	})
	writeTree(t, publicDir, map[string]string{
		"index.html":       "<html>old",
		"stale/gone.html":  "<html>stale",
		"stale/gone2.html": "<html>stale",
		".nojekyll":        "",
	})

	var log bytes.Buffer
	plan, err := Mirror(htmlDir, testCfg(publicDir), &log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Add) != 3 || len(plan.Update) != 1 || len(plan.Delete) != 2 {
		t.Errorf("plan = %d/%d/%d add/update/delete, want 3/1/2",
			len(plan.Add), len(plan.Update), len(plan.Delete))
	}

	got := listFiles(t, publicDir)
	want := []string{
		".nojekyll",
		filepath.FromSlash("_images/plot.png"),
		filepath.FromSlash("_static/style.css"),
		filepath.FromSlash("api/module.html"),
		"index.html",
	}
	if len(got) != len(want) {
		t.Fatalf("public dir has %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("public dir file[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// The emptied stale/ directory is pruned.
	if _, err := os.Stat(filepath.Join(publicDir, "stale")); !os.IsNotExist(err) {
		t.Error("emptied directory should be pruned")
	}

	data, err := os.ReadFile(filepath.Join(publicDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<html>new" {
		t.Errorf("index.html = %q, want updated content", data)
	}

	if !strings.Contains(log.String(), "Sync summary: 3 added, 1 updated, 2 deleted") {
		t.Errorf("log should contain the summary, got %q", log.String())
	}
}

func TestMirror_CreatesMarker(t *testing.T) {
	tmp := t.TempDir()
	htmlDir := filepath.Join(tmp, "html")
	publicDir := filepath.Join(tmp, "docs")
	writeTree(t, htmlDir, map[string]string{"index.html": "<html>"})

	var log bytes.Buffer
	if _, err := Mirror(htmlDir, testCfg(publicDir), &log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(publicDir, ".nojekyll")); err != nil {
		t.Errorf("marker should exist after mirror: %v", err)
	}
}

func TestMirror_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	htmlDir := filepath.Join(tmp, "html")
	publicDir := filepath.Join(tmp, "docs")
	writeTree(t, htmlDir, map[string]string{"index.html": "<html>", "a/b.html": "<html>b"})

	var log bytes.Buffer
	if _, err := Mirror(htmlDir, testCfg(publicDir), &log); err != nil {
		t.Fatal(err)
	}

	plan, err := BuildPlan(htmlDir, testCfg(publicDir))
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Empty() {
		t.Errorf("second plan should be empty, got %d/%d/%d add/update/delete",
			len(plan.Add), len(plan.Update), len(plan.Delete))
	}
}

func TestEnsureMarker(t *testing.T) {
	tmp := t.TempDir()
	cfg := testCfg(filepath.Join(tmp, "docs"))

	if err := EnsureMarker(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.PublicDir, ".nojekyll")); err != nil {
		t.Errorf("marker should be created: %v", err)
	}

	// Second call is a no-op.
	if err := EnsureMarker(cfg); err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
}
