// Package launch runs the user's launch script for a provisioned worktree.
//
// The script is handed to sh -c with the caller's standard streams attached.
// Once it returns, kickoff is done with the item.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raphi011/kickoff/internal/cmd"
)

// Command is a rendered launch script.
type Command struct {
	Script string
	// Dir is the working directory, normally the worktree.
	Dir string
	// Env is appended to the inherited environment.
	Env []string

	// Streams default to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ScriptError is a launch script that exited non-zero or could not start.
type ScriptError struct {
	// Code is the exit code, or -1 when the shell never started.
	Code int
	Err  error
}

func (e *ScriptError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("launch script failed to start: %v", e.Err)
	}
	return fmt.Sprintf("launch script exited with code %d", e.Code)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// Execute runs c.Script and waits for it. A non-zero exit is returned as
// *ScriptError carrying the code.
func Execute(ctx context.Context, c Command) error {
	if c.Script == "" {
		return errors.New("launch script is empty")
	}
	s := cmd.Stream{
		Dir:    c.Dir,
		Env:    c.Env,
		Stdin:  c.Stdin,
		Stdout: c.Stdout,
		Stderr: c.Stderr,
	}
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}

	err := cmd.StreamContext(ctx, s, "sh", "-c", c.Script)
	if err == nil {
		return nil
	}
	var cmdErr *cmd.Error
	if errors.As(err, &cmdErr) {
		return &ScriptError{Code: cmdErr.Code, Err: cmdErr.Err}
	}
	return &ScriptError{Code: -1, Err: err}
}
