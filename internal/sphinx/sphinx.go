// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sphinx implements generator detection and invocation.
// See docs/ARCHITECTURE § Generator.
package sphinx

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/pdiddy/docpages/pkg/types"
)

const (
	binSphinxBuild = "sphinx-build"
	binPython      = "python"
)

// Generator invokes the external documentation generator: checking
// availability, forwarding build modes, and printing the mode listing.
type Generator interface {
	// Name returns the generator invocation name ("sphinx-build" or
	// "python -m sphinx").
	Name() string

	// Available reports whether the generator binary exists on PATH and
	// responds to a version query.
	Available() bool

	// Build forwards mode to the generator with the source and build
	// directories, streaming generator output to stdout/stderr. The
	// generator's exit status is returned unclassified.
	Build(ctx context.Context, mode, sourceDir, buildDir string, extraArgs []string, stdout, stderr io.Writer) error

	// Help prints the generator's listing of available build modes to w.
	Help(sourceDir, buildDir string, w io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunStream(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunStream(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// generator implements Generator for a specific binary. sphinx-build and
// "python -m sphinx" share the same logic; they differ only in binary name
// and the argument prefix placed before the -M make-mode arguments.
type generator struct {
	bin    string
	prefix []string // e.g. ["-m", "sphinx"] for python
	exec   executor
}

func (g *generator) Name() string {
	if len(g.prefix) == 0 {
		return g.bin
	}
	return g.bin + " -m sphinx"
}

func (g *generator) Available() bool {
	if _, err := g.exec.LookPath(g.bin); err != nil {
		return false
	}
	args := append(append([]string{}, g.prefix...), "--version")
	return g.exec.RunSilent(g.bin, args...) == nil
}

func (g *generator) Build(ctx context.Context, mode, sourceDir, buildDir string, extraArgs []string, stdout, stderr io.Writer) error {
	args := append([]string{}, g.prefix...)
	args = append(args, "-M", mode, sourceDir, buildDir)
	args = append(args, extraArgs...)

	if err := g.exec.RunStream(ctx, g.bin, args, stdout, stderr); err != nil {
		return fmt.Errorf("%s -M %s: %w", g.Name(), mode, err)
	}
	return nil
}

func (g *generator) Help(sourceDir, buildDir string, w io.Writer) error {
	return g.Build(context.Background(), types.HelpMode, sourceDir, buildDir, nil, w, w)
}

func newSphinxBuild(exec executor) *generator {
	return &generator{bin: binSphinxBuild, exec: exec}
}

func newPythonModule(exec executor) *generator {
	return &generator{bin: binPython, prefix: []string{"-m", "sphinx"}, exec: exec}
}

var defaultExec executor = &osExecutor{}

// Detect tries sphinx-build first, falls back to python -m sphinx. Returns
// an error if neither is available.
func Detect() (Generator, error) {
	return detect(defaultExec)
}

func detect(exec executor) (Generator, error) {
	sb := newSphinxBuild(exec)
	if sb.Available() {
		return sb, nil
	}

	py := newPythonModule(exec)
	if py.Available() {
		return py, nil
	}

	return nil, fmt.Errorf(
		"no documentation generator available: neither %s nor %s -m sphinx found or operational",
		binSphinxBuild, binPython,
	)
}

// Pinned returns a Generator for an explicitly configured binary, skipping
// detection. The binary is not checked until the first invocation.
func Pinned(bin string) Generator {
	return &generator{bin: bin, exec: defaultExec}
}
