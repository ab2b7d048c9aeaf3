// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BuildConfig holds settings for generator invocation.
type BuildConfig struct {
	// SourceDir is the documentation source directory (contains conf.py).
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// BuildDir is the generator output directory (e.g. "_build").
	BuildDir string `json:"build_dir" yaml:"build_dir"`

	// Generator pins the generator binary. Empty means auto-detect:
	// sphinx-build on PATH, falling back to "python -m sphinx".
	Generator string `json:"generator,omitempty" yaml:"generator,omitempty"`

	// ExtraArgs are appended verbatim to every generator invocation.
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
}

// StagingConfig holds settings for mirroring notebooks into the source tree.
type StagingConfig struct {
	// NotebooksDir is the directory the notebooks are authored in,
	// usually outside the docs tree (e.g. "../notebooks").
	NotebooksDir string `json:"notebooks_dir" yaml:"notebooks_dir"`

	// StagingDir is the destination inside the source tree. It is removed
	// and recreated on every build.
	StagingDir string `json:"staging_dir" yaml:"staging_dir"`

	// Exclude lists directory names skipped during the mirror
	// (default [".ipynb_checkpoints"]).
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// PublishConfig holds settings for syncing built HTML to the public directory.
type PublishConfig struct {
	// PublicDir is the publish destination (e.g. "../docs" for GitHub Pages).
	PublicDir string `json:"public_dir" yaml:"public_dir"`

	// Marker is the dotfile kept in PublicDir across syncs (default
	// ".nojekyll"). It is never deleted and is recreated after cleaning.
	Marker string `json:"marker" yaml:"marker"`
}

// CleanConfig holds settings for artifact removal.
type CleanConfig struct {
	// GeneratedDirs lists directories under the source tree that the
	// generator produces and clean removes (default
	// ["generated", "auto_examples"]).
	GeneratedDirs []string `json:"generated_dirs" yaml:"generated_dirs"`
}

// HistoryConfig holds settings for the build-history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database (default ".docpages").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of listed builds (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WatchConfig holds settings for the rebuild-on-change loop.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before rebuilding
	// (default 2s).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`

	// IgnoreDirs lists directory names never watched; the build and staging
	// directories are always ignored.
	IgnoreDirs []string `json:"ignore_dirs,omitempty" yaml:"ignore_dirs,omitempty"`
}

// LinkCheckConfig holds settings for external link verification.
type LinkCheckConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docpages/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RequestDelay is the delay between consecutive link checks (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MaxRetries is the number of retry attempts on 429/503 responses
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SiteConfig groups all stage configurations for the docs pipeline.
type SiteConfig struct {
	Build     BuildConfig     `json:"build" yaml:"build"`
	Staging   StagingConfig   `json:"staging" yaml:"staging"`
	Publish   PublishConfig   `json:"publish" yaml:"publish"`
	Clean     CleanConfig     `json:"clean" yaml:"clean"`
	History   HistoryConfig   `json:"history" yaml:"history"`
	Watch     WatchConfig     `json:"watch" yaml:"watch"`
	LinkCheck LinkCheckConfig `json:"linkcheck" yaml:"linkcheck"`
}

// DefaultSiteConfig returns the configuration used when no config file is
// present: the layout of a conventional Sphinx docs/ directory publishing
// into a sibling docs/ tree for GitHub Pages.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Build: BuildConfig{
			SourceDir: ".",
			BuildDir:  "_build",
		},
		Staging: StagingConfig{
			NotebooksDir: "../notebooks",
			StagingDir:   "notebooks",
			Exclude:      []string{".ipynb_checkpoints"},
		},
		Publish: PublishConfig{
			PublicDir: "../docs",
			Marker:    ".nojekyll",
		},
		Clean: CleanConfig{
			GeneratedDirs: []string{"generated", "auto_examples"},
		},
		History: HistoryConfig{
			Dir:        ".docpages",
			MaxResults: 20,
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
		LinkCheck: LinkCheckConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "docpages/0.1",
			RequestDelay: time.Second,
			MaxRetries:   3,
		},
	}
}
