// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sphinx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runStreamFunc func(name string, args []string, stdout, stderr io.Writer) error
	streamedCmds  []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunStream(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.streamedCmds = append(m.streamedCmds, name+" "+strings.Join(args, " "))
	if m.runStreamFunc != nil {
		return m.runStreamFunc(name, args, stdout, stderr)
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "sphinx-build available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"sphinx-build": true},
				runnableCmds:  map[string]bool{"sphinx-build --version": true},
			},
			wantName: "sphinx-build",
		},
		{
			name: "python module fallback when sphinx-build missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"python": true},
				runnableCmds:  map[string]bool{"python -m sphinx --version": true},
			},
			wantName: "python -m sphinx",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "sphinx-build on PATH but version check fails, python works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"sphinx-build": true, "python": true},
				runnableCmds:  map[string]bool{"python -m sphinx --version": true},
			},
			wantName: "python -m sphinx",
		},
		{
			name: "both available, sphinx-build preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"sphinx-build": true, "python": true},
				runnableCmds: map[string]bool{
					"sphinx-build --version":     true,
					"python -m sphinx --version": true,
				},
			},
			wantName: "sphinx-build",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := detect(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no documentation generator available") {
					t.Errorf("error should mention no generator available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gen.Name() != tt.wantName {
				t.Errorf("got generator %q, want %q", gen.Name(), tt.wantName)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		mkGen     func(*mockExecutor) Generator
		mode      string
		extraArgs []string
		wantCmd   string
		wantErr   bool
	}{
		{
			name:    "sphinx-build forwards make-mode arguments",
			mkGen:   func(e *mockExecutor) Generator { return newSphinxBuild(e) },
			mode:    "html",
			wantCmd: "sphinx-build -M html . _build",
		},
		{
			name:    "python module carries the -m sphinx prefix",
			mkGen:   func(e *mockExecutor) Generator { return newPythonModule(e) },
			mode:    "latexpdf",
			wantCmd: "python -m sphinx -M latexpdf . _build",
		},
		{
			name:      "extra args appended after directories",
			mkGen:     func(e *mockExecutor) Generator { return newSphinxBuild(e) },
			mode:      "html",
			extraArgs: []string{"-W", "-j", "auto"},
			wantCmd:   "sphinx-build -M html . _build -W -j auto",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{}
			gen := tt.mkGen(exec)
			var out bytes.Buffer
			err := gen.Build(context.Background(), tt.mode, ".", "_build", tt.extraArgs, &out, &out)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(exec.streamedCmds) != 1 {
				t.Fatalf("expected 1 invocation, got %d", len(exec.streamedCmds))
			}
			if exec.streamedCmds[0] != tt.wantCmd {
				t.Errorf("invoked %q, want %q", exec.streamedCmds[0], tt.wantCmd)
			}
		})
	}
}

func TestBuild_PropagatesExitStatus(t *testing.T) {
	exec := &mockExecutor{
		runStreamFunc: func(name string, args []string, stdout, stderr io.Writer) error {
			_, _ = stderr.Write([]byte("Sphinx error: master file not found\n"))
			return errors.New("exit status 2")
		},
	}
	gen := newSphinxBuild(exec)

	var out, errOut bytes.Buffer
	err := gen.Build(context.Background(), "html", ".", "_build", nil, &out, &errOut)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "sphinx-build -M html") {
		t.Errorf("error should name the invocation, got: %v", err)
	}
	if !strings.Contains(errOut.String(), "Sphinx error") {
		t.Error("generator stderr should reach the caller")
	}
}

func TestHelp_ForwardsHelpMode(t *testing.T) {
	exec := &mockExecutor{}
	gen := newSphinxBuild(exec)

	var out bytes.Buffer
	if err := gen.Help(".", "_build", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "sphinx-build -M help . _build"
	if len(exec.streamedCmds) != 1 || exec.streamedCmds[0] != want {
		t.Errorf("invoked %v, want [%q]", exec.streamedCmds, want)
	}
}

func TestPinned(t *testing.T) {
	gen := Pinned("sphinx-build-3.11")
	if gen.Name() != "sphinx-build-3.11" {
		t.Errorf("pinned generator name = %q, want %q", gen.Name(), "sphinx-build-3.11")
	}
}
