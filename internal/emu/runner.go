package emu

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its combined output.
// The emulator reaches the host network stack exclusively through this
// interface so tests can substitute a recorded implementation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the local machine
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, name string, args ...string) (string, error)

func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, name, args...)
}

// shellWords joins command words for log output
func shellWords(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}
