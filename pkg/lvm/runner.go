package lvm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandResult holds the outcome of one external process invocation. A
// nonzero exit code is a normal, expected outcome; it is classified by the
// retry policy, not turned into an error.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Ok reports whether the process exited with status zero.
func (r *CommandResult) Ok() bool {
	return r.ExitCode == 0
}

// Runner executes an external command and reports its exit status and
// captured output. Implementations return an error only when the process
// could not be run at all (spawn failure, cancelled context).
type Runner interface {
	Run(ctx context.Context, args []string, sudo bool) (*CommandResult, error)
}

// execRunner runs commands on the host using os/exec.
type execRunner struct{}

// NewRunner returns the production command runner.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, args []string, sudo bool) (*CommandResult, error) {
	if len(args) == 0 {
		return nil, errors.New("no command specified")
	}

	if sudo {
		args = append([]string{"sudo", "-n"}, args...)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", args[0], err)
		}
	}

	return &CommandResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}
