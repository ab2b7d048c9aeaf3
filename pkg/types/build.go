// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BuildStatus records the outcome of a generator invocation.
type BuildStatus string

const (
	BuildDone   BuildStatus = "done"
	BuildFailed BuildStatus = "failed"
)

// HelpMode is the generator mode that prints the available build targets.
// Forwarding it is how the dispatcher answers "what can I build?".
const HelpMode = "help"

// HTMLMode is the generator mode producing the publishable HTML tree.
const HTMLMode = "html"

// BuildRecord is one entry in the build history.
type BuildRecord struct {
	// ID is the database row identifier (assigned on insert).
	ID int64 `json:"id" yaml:"id"`

	// Mode is the generator mode that was invoked (e.g. "html", "latexpdf").
	Mode string `json:"mode" yaml:"mode"`

	// SourceDir and BuildDir are the directories the generator ran against,
	// as configured at build time.
	SourceDir string `json:"source_dir" yaml:"source_dir"`
	BuildDir  string `json:"build_dir" yaml:"build_dir"`

	// StartedAt is when the generator was invoked (UTC).
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is how long the invocation took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Status is done or failed.
	Status BuildStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
