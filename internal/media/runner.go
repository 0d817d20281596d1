package media

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes an external tool to completion and returns its captured
// stdout and stderr. Abstracting the invocation lets manifest and argument
// logic be tested without ever spawning a process.
type Runner interface {
	Run(ctx context.Context, bin string, args []string) (stdout, stderr string, err error)
}

// execRunner runs the tool as a child process on the caller's thread of
// control. It is the only Runner used outside tests.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args []string) (string, string, error) {
	// #nosec G204 - bin is set by the application, not user input
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
