// Package cmd runs external processes (git, sh) with verbose tracing and
// stderr captured into errors.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/kickoff/internal/log"
)

// Error describes a process that ran and failed, or could not be started.
type Error struct {
	Name   string
	Args   []string
	Stderr string
	// Code is the process exit code, or -1 when it never started.
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// RunContext executes a command, discarding stdout.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := OutputContext(ctx, dir, name, args...)
	return err
}

// OutputContext executes a command and returns its stdout.
// On failure the returned *Error carries the trimmed stderr.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Stdout = &stdout
	c.Stderr = &stderr

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, newError(name, args, strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

// Stream describes a process whose standard streams are wired to the caller.
type Stream struct {
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StreamContext runs name with the given streams attached. Env entries are
// appended to the inherited environment.
func StreamContext(ctx context.Context, s Stream, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = s.Dir
	if len(s.Env) > 0 {
		c.Env = append(c.Environ(), s.Env...)
	}
	c.Stdin = s.Stdin
	c.Stdout = s.Stdout
	c.Stderr = s.Stderr

	done := log.FromContext(ctx).Command(s.Dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if err != nil {
		return newError(name, args, "", err)
	}
	return nil
}

func newError(name string, args []string, stderr string, err error) *Error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &Error{Name: name, Args: args, Stderr: stderr, Code: code, Err: err}
}
