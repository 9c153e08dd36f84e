package clients

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/dagbuild/dagbuild/client"
)

// LocalShell implements client.Shell by running commands through sh -c,
// grounded on the teacher pack's os/exec.CommandContext pattern
// (internal/tools/shell/execute.go in the codenerd example).
type LocalShell struct {
	// Interpreter defaults to "sh" when empty.
	Interpreter string
}

// NewLocalShell returns a LocalShell using /bin/sh.
func NewLocalShell() *LocalShell {
	return &LocalShell{Interpreter: "sh"}
}

func (s *LocalShell) Run(ctx context.Context, command string, cwd string, env []string) (client.Result, error) {
	interpreter := s.Interpreter
	if interpreter == "" {
		interpreter = "sh"
	}

	cmd := exec.CommandContext(ctx, interpreter, "-c", command)
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := client.Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Status = 0
	case asExitError(err, &exitErr):
		result.Status = exitErr.ExitCode()
		return result, &CommandFailed{Command: command, Status: result.Status, Stderr: result.Stderr}
	default:
		return result, err
	}

	return result, nil
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

// CommandFailed is returned by LocalShell.Run when the subprocess exits
// with a non-zero status.
type CommandFailed struct {
	Command string
	Status  int
	Stderr  string
}

func (e *CommandFailed) Error() string {
	return "clients: command exited " + strconv.Itoa(e.Status) + ": " + e.Command
}
