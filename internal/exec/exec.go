// Package exec abstracts external command execution so that git interaction
// can be swapped out in tests.
package exec

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandExecutor runs external commands in a working directory.
type CommandExecutor interface {
	// Run executes a command and returns stdout and stderr separately.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)

	// Output executes a command and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)

	// CombinedOutput executes a command and returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) (string, error)
}

var defaultExecutor CommandExecutor = NewRealExecutor()

// SetExecutor replaces the package default and returns the previous one, so
// tests can restore it.
func SetExecutor(e CommandExecutor) CommandExecutor {
	old := defaultExecutor
	defaultExecutor = e
	return old
}

// GetExecutor returns the package default executor.
func GetExecutor() CommandExecutor {
	return defaultExecutor
}

// RealExecutor executes commands with os/exec.
type RealExecutor struct{}

// NewRealExecutor creates an executor backed by os/exec.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

func (e *RealExecutor) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (e *RealExecutor) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	return string(output), err
}

func (e *RealExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	return string(output), err
}
