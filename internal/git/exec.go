package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/kickoff/internal/cmd"
)

// ErrNotRepository is returned when a directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Error is a failed git invocation. Stderr holds git's own message.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *Error) Unwrap() error { return e.Err }

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

func runGit(ctx context.Context, dir string, args ...string) error {
	_, err := outputGit(ctx, dir, args...)
	return err
}

func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
	if err != nil {
		return nil, wrapError(args, err)
	}
	return out, nil
}

func wrapError(args []string, err error) error {
	var cmdErr *cmd.Error
	if errors.As(err, &cmdErr) {
		return &Error{Args: args, Stderr: cmdErr.Stderr, Err: err}
	}
	return err
}
